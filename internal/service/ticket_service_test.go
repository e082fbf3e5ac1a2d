package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/domain"
)

// ticketAPIStub is a minimal in-memory stand-in for the tickets resource.
type ticketAPIStub struct {
	tickets map[string]map[string]interface{}
	users   map[string]map[string]interface{}
}

func newTicketAPIStub() *ticketAPIStub {
	return &ticketAPIStub{
		tickets: make(map[string]map[string]interface{}),
		users:   make(map[string]map[string]interface{}),
	}
}

func (s *ticketAPIStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets", func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]interface{}
		json.NewDecoder(r.Body).Decode(&doc)
		id, _ := doc["id"].(string)
		s.tickets[id] = doc
		json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("GET /tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		doc, ok := s.tickets[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("PATCH /tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		doc, ok := s.tickets[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var patch map[string]interface{}
		json.NewDecoder(r.Body).Decode(&patch)
		for k, v := range patch {
			doc[k] = v
		}
		json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		doc, ok := s.users[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(doc)
	})
	return mux
}

func TestTicketService_Create(t *testing.T) {
	stub := newTicketAPIStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	svc := NewTicketService(maintapi.NewClient(srv.URL, ""))
	ticket, err := svc.Create("Replace belt", "squealing on startup", "m1", "", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Equal(t, domain.PriorityNormal, ticket.Priority, "priority defaults to normal")
	_, err = uuid.Parse(ticket.ID)
	assert.NoError(t, err, "ticket IDs are client-generated UUIDs")
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestTicketService_Create_RequiresTitle(t *testing.T) {
	svc := NewTicketService(maintapi.NewClient("http://unused", ""))
	_, err := svc.Create("", "", "m1", domain.PriorityLow, nil)
	require.Error(t, err)
}

func TestTicketService_Move(t *testing.T) {
	stub := newTicketAPIStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	svc := NewTicketService(maintapi.NewClient(srv.URL, ""))
	ticket, err := svc.Create("Replace belt", "", "m1", domain.PriorityUrgent, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Move(ticket.ID, domain.TicketInProgress, 0))

	// open -> done skips the board and must be rejected.
	fresh, err := svc.Create("Another", "", "m1", "", nil)
	require.NoError(t, err)
	err = svc.Move(fresh.ID, domain.TicketDone, 0)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The rejected move must not have touched the stored ticket.
	stored, err := svc.client.GetTicket(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, stored.Status)
}

func TestTicketService_Assign(t *testing.T) {
	stub := newTicketAPIStub()
	stub.users["u1"] = map[string]interface{}{"id": "u1", "name": "Dana", "role": "technician"}
	stub.users["u2"] = map[string]interface{}{"id": "u2", "name": "Kim", "role": "viewer"}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	svc := NewTicketService(maintapi.NewClient(srv.URL, ""))
	ticket, err := svc.Create("Replace belt", "", "m1", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Assign(ticket.ID, "u1"))

	err = svc.Assign(ticket.ID, "u2")
	require.Error(t, err, "viewers cannot take tickets")

	err = svc.Assign(ticket.ID, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTicketService_ListOverdue(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets", r.URL.Path)
		json.NewEncoder(w).Encode([]maintapi.Ticket{
			{ID: "late", Title: "Late", Status: "open", DueDate: &past},
			{ID: "done", Title: "Done late", Status: "done", DueDate: &past},
			{ID: "ok", Title: "Future", Status: "open", DueDate: &future},
			{ID: "nodue", Title: "No due date", Status: "open"},
		})
	}))
	defer srv.Close()

	svc := NewTicketService(maintapi.NewClient(srv.URL, ""))
	overdue, err := svc.ListOverdue(now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)
}
