package maintapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/maintdash/internal/domain"
)

func TestClient_ListMachines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/machines", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, []string{"roomId:r1", "status:operational"}, r.URL.Query()["filter"])
		assert.Equal(t, "name", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "m1",
				"name": "Lathe 3",
				"roomId": "r1",
				"status": "operational",
				"tasks": [
					{
						"id": "t1",
						"title": "Lubricate spindle",
						"startDate": "2024-01-01T00:00:00Z",
						"recurrence": "weekly",
						"interval": 2,
						"daysOfWeek": [1, 4],
						"endDate": "2024-06-30T00:00:00Z"
					}
				]
			}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	machines, err := client.ListMachines(Query{
		Filter: map[string]string{"status": "operational", "roomId": "r1"},
		Order:  "name",
	})
	require.NoError(t, err)
	require.Len(t, machines, 1)

	m := machines[0]
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "Lathe 3", m.Name)
	assert.Equal(t, domain.MachineOperational, m.Status)
	require.Len(t, m.Tasks, 1)

	task := m.Tasks[0]
	assert.Equal(t, domain.RecurWeekly, task.Recurrence)
	assert.Equal(t, 2, task.Interval)
	assert.Equal(t, []domain.Weekday{domain.WeekdayMonday, domain.WeekdayThursday}, task.DaysOfWeek)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), task.StartDate)
	require.NotNil(t, task.EndDate)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), *task.EndDate)
	require.NoError(t, task.Validate())
}

func TestClient_GetMachine_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetMachine("missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_UpdateMachine_RoundTripsTasks(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "/machines/m1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	dom := intPtr(15)
	client := NewClient(srv.URL, "")
	err := client.UpdateMachine(domain.Machine{
		ID: "m1", Name: "Lathe 3", Status: domain.MachineOperational,
		Tasks: []domain.MaintenanceTask{
			{ID: "t1", Title: "Filter swap", Recurrence: domain.RecurMonthly, Interval: 3,
				StartDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
				DayOfMonth: dom},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, string(gotBody), `"recurrence":"monthly"`)
	assert.Contains(t, string(gotBody), `"dayOfMonth":15`)
	assert.Contains(t, string(gotBody), `"startDate":"2024-01-15T00:00:00Z"`)
}

func TestClient_PatchTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "/tickets/tk1", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		// Unset fields must stay out of the payload.
		assert.JSONEq(t, `{"status":"in_progress","position":2}`, string(body))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	status := string(domain.TicketInProgress)
	pos := 2
	client := NewClient(srv.URL, "")
	err := client.PatchTicket("tk1", TicketPatch{Status: &status, Position: &pos})
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.ListTickets(Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 500")
}

func intPtr(v int) *int { return &v }
