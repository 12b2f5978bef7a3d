package appointments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database/dbtest"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := dbtest.Open(t, &Appointment{})
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": "user-1", "role": "pa"}})
		return c.Next()
	})
	New().RegisterRoutes(api, db, &config.Config{})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createVia(t *testing.T, app *fiber.App, name string) Appointment {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, "/api/appointments", map[string]interface{}{
		"programName": name, "startTime": "2024-05-01T10:00", "status": "going",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var a Appointment
	require.NoError(t, json.Unmarshal(raw, &a))
	return a
}

func TestHandlers_CreateAndList(t *testing.T) {
	app := newTestApp(t)
	a := createVia(t, app, "Temple visit")

	// status in the create body is ignored
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Equal(t, "user-1", a.UserID)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Appointment
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Contains(t, string(raw), `"programName":"Temple visit"`)
}

func TestHandlers_CreateValidation(t *testing.T) {
	app := newTestApp(t)
	resp, raw := doJSON(t, app, http.MethodPost, "/api/appointments", map[string]string{"startTime": "2024-05-01T10:00"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"programName is required"}`, string(raw))
}

func TestHandlers_InvalidStatusLeavesRecord(t *testing.T) {
	app := newTestApp(t)
	a := createVia(t, app, "visit")

	for _, path := range []string{"/api/appointments/" + a.ID, "/api/appointments/" + a.ID + "/status"} {
		resp, _ := doJSON(t, app, http.MethodPatch, path, map[string]string{"status": "done"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	resp, raw := doJSON(t, app, http.MethodGet, "/api/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Appointment
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, StatusScheduled, list[0].Status)
}

func TestHandlers_StatusTransitions(t *testing.T) {
	app := newTestApp(t)
	a := createVia(t, app, "visit")

	for _, status := range []string{StatusGoing, StatusNotGoing, StatusScheduled} {
		resp, raw := doJSON(t, app, http.MethodPatch, "/api/appointments/"+a.ID+"/status", map[string]string{"status": status})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		var got Appointment
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, status, got.Status)
	}
}

func TestHandlers_NotFound(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodDelete, "/api/appointments/appt_1", nil},
		{http.MethodPatch, "/api/appointments/appt_1", map[string]string{"notes": "x"}},
		{http.MethodPatch, "/api/appointments/appt_1/status", map[string]string{"status": "going"}},
		{http.MethodPut, "/api/appointments/appt_1", map[string]string{"programName": "x", "startTime": "2024-05-01T10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, raw := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"error":"appointment not found"}`, string(raw))
		})
	}
}

func TestHandlers_Delete(t *testing.T) {
	app := newTestApp(t)
	a := createVia(t, app, "visit")

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/appointments/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/appointments/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlers_BulkDelete(t *testing.T) {
	app := newTestApp(t)
	var ids []string
	for i := 0; i < 30; i++ {
		ids = append(ids, createVia(t, app, fmt.Sprintf("visit %d", i)).ID)
	}

	resp, raw := doJSON(t, app, http.MethodPost, "/api/appointments/bulk-delete", BulkDeleteRequest{AppointmentIDs: ids[:27]})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"deleted":27}`, string(raw))

	_, raw = doJSON(t, app, http.MethodGet, "/api/appointments", nil)
	var list []Appointment
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 3)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/appointments/bulk-delete", BulkDeleteRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlers_Export(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/appointments", map[string]interface{}{
		"programName": "School <b>day</b>", "startTime": "2024-05-01T10:00", "isUrgent": true,
	})
	doJSON(t, app, http.MethodPost, "/api/appointments", map[string]interface{}{
		"programName": "Next month", "startTime": "2024-06-01T10:00",
	})

	resp, raw := doJSON(t, app, http.MethodGet, "/api/appointments/export?format=html&from=2024-05-01&to=2024-05-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(raw)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "(urgent)")
	assert.NotContains(t, page, "<b>day</b>")
	assert.NotContains(t, page, "Next month")

	resp, raw = doJSON(t, app, http.MethodGet, "/api/appointments/export?to=2024-05-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(scheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Program", rows[2][2])
	assert.Equal(t, "School <b>day</b>", rows[3][2])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/appointments/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/appointments/export?from=01-05-2024", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
