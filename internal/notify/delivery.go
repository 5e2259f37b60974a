package notify

import "go.uber.org/zap"

// Delivery is where a fired notification ends up. On a device this would be
// the OS notification tray; the server default just logs the delivery.
type Delivery interface {
	Deliver(n Notification)
}

// LogDelivery writes fired notifications to the structured log.
type LogDelivery struct {
	logger *zap.Logger
}

func NewLogDelivery(logger *zap.Logger) *LogDelivery {
	return &LogDelivery{logger: logger}
}

func (d *LogDelivery) Deliver(n Notification) {
	d.logger.Info("notification fired",
		zap.String("medicationId", n.MedicationID),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
}
