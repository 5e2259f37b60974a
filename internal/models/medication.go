package models

// FoodTiming represents when a medication should be taken relative to meals
type FoodTiming string

const (
	FoodTimingBefore FoodTiming = "Before Food"
	FoodTimingAfter  FoodTiming = "After Food"
)

// QuantityType represents the form of a medication dose
type QuantityType string

const (
	QuantityTypePills QuantityType = "Pills"
	QuantityTypeSyrup QuantityType = "Syrup"
)

// Medication represents one scheduled daily reminder. Hour and Minute are
// naive local wall-clock values; the quantity unit is a count for Pills and
// milliliters for Syrup. NotificationID is the opaque handle returned by the
// notification service, kept so the scheduled reminder can be cancelled when
// the medication is edited or deleted.
type Medication struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Hour           int          `json:"hour"`
	Minute         int          `json:"minute"`
	FoodTiming     FoodTiming   `json:"foodTiming"`
	QuantityType   QuantityType `json:"quantityType"`
	Quantity       float64      `json:"quantity"`
	NotificationID string       `json:"notificationId"`
}
