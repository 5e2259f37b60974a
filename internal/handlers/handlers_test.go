package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medic-server/internal/models"
	"medic-server/internal/notify"
	"medic-server/internal/repository"
	"medic-server/internal/routes"
	"medic-server/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router   *gin.Engine
	store    *store.Store
	meds     *repository.MedicationRepository
	statuses *repository.StatusRepository
	notifier *notify.Recorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "medic.db"))
	require.NoError(t, err)

	statuses := repository.NewStatusRepository(st)
	meds := repository.NewMedicationRepository(st, statuses)
	recorder := notify.NewRecorder()

	router := gin.New()
	routes.SetupRoutes(router, st, meds, statuses, recorder, zap.NewNop())

	return &testApp{
		router:   router,
		store:    st,
		meds:     meds,
		statuses: statuses,
		notifier: recorder,
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (app *testApp) request(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	// Not every endpoint uses the envelope (the health check does not), so
	// decode failures just leave it zero.
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func aspirinBody() map[string]any {
	return map[string]any{
		"name":         "Aspirin",
		"hour":         9,
		"minute":       0,
		"foodTiming":   "After Food",
		"quantityType": "Pills",
		"quantity":     2,
	}
}

func (app *testApp) createAspirin(t *testing.T) models.Medication {
	t.Helper()
	w, env := app.request(t, http.MethodPost, "/api/v1/medications", aspirinBody())
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	var med models.Medication
	require.NoError(t, json.Unmarshal(env.Data, &med))
	return med
}

func TestCreateMedicationSchedulesAndPersists(t *testing.T) {
	app := newTestApp(t)

	med := app.createAspirin(t)
	assert.NotEmpty(t, med.ID)
	assert.Equal(t, "Aspirin", med.Name)

	require.Len(t, app.notifier.Daily, 1)
	daily := app.notifier.Daily[0]
	assert.Equal(t, 9, daily.Hour)
	assert.Equal(t, 0, daily.Minute)
	assert.Equal(t, med.ID, daily.Notification.MedicationID)
	assert.Equal(t, "It's time to take your Aspirin (After Food)", daily.Notification.Body)

	stored, err := app.meds.GetByID(med.ID)
	require.NoError(t, err)
	assert.Equal(t, daily.Handle, stored.NotificationID)
}

func TestCreateMedicationValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing name", func(b map[string]any) { delete(b, "name") }},
		{"hour out of range", func(b map[string]any) { b["hour"] = 24 }},
		{"minute out of range", func(b map[string]any) { b["minute"] = 60 }},
		{"bad food timing", func(b map[string]any) { b["foodTiming"] = "With Food" }},
		{"bad quantity type", func(b map[string]any) { b["quantityType"] = "Drops" }},
		{"zero quantity", func(b map[string]any) { b["quantity"] = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := aspirinBody()
			tc.mutate(body)
			w, _ := app.request(t, http.MethodPost, "/api/v1/medications", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	assert.Empty(t, app.notifier.Daily)
}

func TestListMedicationsMergesTodayStatus(t *testing.T) {
	app := newTestApp(t)
	taken := app.createAspirin(t)
	pending := app.createAspirin(t)

	today := models.FormatDate(time.Now())
	require.NoError(t, app.statuses.Upsert(models.StatusRecord{
		MedicationID: taken.ID,
		Date:         today,
		Status:       models.StatusTaken,
	}))
	// A status from another day must not leak into today's view.
	require.NoError(t, app.statuses.Upsert(models.StatusRecord{
		MedicationID: pending.ID,
		Date:         "2020-01-01",
		Status:       models.StatusNotTaken,
	}))

	w, env := app.request(t, http.MethodGet, "/api/v1/medications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []struct {
		models.Medication
		Status models.DoseStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)

	byID := make(map[string]models.DoseStatus)
	for _, v := range views {
		byID[v.ID] = v.Status
	}
	assert.Equal(t, models.StatusTaken, byID[taken.ID])
	assert.Equal(t, models.StatusNotYet, byID[pending.ID])
}

func TestUpdateMedicationReschedulesReminder(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)
	oldHandle := app.notifier.Daily[0].Handle

	body := aspirinBody()
	body["name"] = "Ibuprofen"
	body["hour"] = 20
	body["minute"] = 30
	w, env := app.request(t, http.MethodPut, "/api/v1/medications/"+med.ID, body)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	assert.Contains(t, app.notifier.Cancelled, oldHandle)
	require.Len(t, app.notifier.Daily, 2)
	assert.Equal(t, 20, app.notifier.Daily[1].Hour)

	stored, err := app.meds.GetByID(med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", stored.Name)
	assert.Equal(t, app.notifier.Daily[1].Handle, stored.NotificationID)
}

func TestUpdateMissingMedicationIs404(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.request(t, http.MethodPut, "/api/v1/medications/missing", aspirinBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, app.notifier.Daily)
}

func TestDeleteMedicationCancelsAndCascades(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)
	handle := app.notifier.Daily[0].Handle

	today := models.FormatDate(time.Now())
	require.NoError(t, app.statuses.Upsert(models.StatusRecord{
		MedicationID: med.ID,
		Date:         today,
		Status:       models.StatusTaken,
	}))

	w, _ := app.request(t, http.MethodDelete, "/api/v1/medications/"+med.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, app.notifier.Cancelled, handle)

	meds, err := app.meds.List()
	require.NoError(t, err)
	assert.Empty(t, meds)

	statuses, err := app.statuses.ListAll()
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestDeleteMissingMedicationIs404(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.request(t, http.MethodDelete, "/api/v1/medications/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordStatusUpsertsTodayByDefault(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)

	w, _ := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/medications/%s/status", med.ID), map[string]any{
		"status": "taken",
	})
	require.Equal(t, http.StatusOK, w.Code)

	today := models.FormatDate(time.Now())
	record, err := app.statuses.Get(med.ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTaken, record.Status)
}

func TestRecordStatusReplacesEarlierAnswer(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)
	path := fmt.Sprintf("/api/v1/medications/%s/status", med.ID)

	w, _ := app.request(t, http.MethodPost, path, map[string]any{"date": "2024-01-01", "status": "not taken"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.request(t, http.MethodPost, path, map[string]any{"date": "2024-01-01", "status": "taken"})
	require.Equal(t, http.StatusOK, w.Code)

	all, err := app.statuses.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusTaken, all[0].Status)
}

func TestRecordStatusValidation(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)
	path := fmt.Sprintf("/api/v1/medications/%s/status", med.ID)

	w, _ := app.request(t, http.MethodPost, path, map[string]any{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.request(t, http.MethodPost, path, map[string]any{"date": "01/01/2024", "status": "taken"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.request(t, http.MethodPost, "/api/v1/medications/missing/status", map[string]any{"status": "taken"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSnoozeSchedulesOneShot(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)

	w, _ := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/medications/%s/snooze", med.ID), map[string]any{
		"minutes": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, app.notifier.Once, 1)
	once := app.notifier.Once[0]
	assert.Equal(t, 5*time.Minute, once.Delay)
	assert.Equal(t, med.ID, once.Notification.MedicationID)
	assert.Equal(t, "Reminder after snooze: It's time to take your Aspirin.", once.Notification.Body)
}

func TestSnoozeValidation(t *testing.T) {
	app := newTestApp(t)
	med := app.createAspirin(t)

	w, _ := app.request(t, http.MethodPost, fmt.Sprintf("/api/v1/medications/%s/snooze", med.ID), map[string]any{
		"minutes": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.request(t, http.MethodPost, "/api/v1/medications/missing/snooze", map[string]any{"minutes": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFirstRunMarker(t *testing.T) {
	app := newTestApp(t)

	w, env := app.request(t, http.MethodGet, "/api/v1/first-run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasVisited": false}`, string(env.Data))

	w, _ = app.request(t, http.MethodPost, "/api/v1/first-run", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = app.request(t, http.MethodGet, "/api/v1/first-run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasVisited": true}`, string(env.Data))
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
