package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/domain"
)

// TicketService covers the Kanban board: ticket CRUD, lane transitions,
// repositioning, and assignment. Ticket IDs are generated client-side so a
// ticket can be referenced before the create round-trip finishes.
type TicketService struct {
	client *maintapi.Client
}

func NewTicketService(client *maintapi.Client) *TicketService {
	return &TicketService{client: client}
}

// Create opens a new ticket in the open lane.
func (s *TicketService) Create(title, description, machineID string, priority domain.TicketPriority, due *time.Time) (*domain.Ticket, error) {
	if title == "" {
		return nil, errors.New("ticket title is required")
	}
	if priority == "" {
		priority = domain.PriorityNormal
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      domain.TicketOpen,
		Priority:    priority,
		MachineID:   machineID,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.client.CreateTicket(ticket)
}

// List returns tickets matching the query.
func (s *TicketService) List(q maintapi.Query) ([]domain.Ticket, error) {
	return s.client.ListTickets(q)
}

// ListLane returns one Kanban lane ordered by position.
func (s *TicketService) ListLane(status domain.TicketStatus) ([]domain.Ticket, error) {
	return s.client.ListTickets(maintapi.Query{
		Filter: map[string]string{"status": string(status)},
		Order:  "position",
	})
}

// Move transitions a ticket to another lane at the given position. The
// transition table is enforced here; the API stores whatever it is told.
func (s *TicketService) Move(id string, to domain.TicketStatus, position int) error {
	ticket, err := s.client.GetTicket(id)
	if err != nil {
		return err
	}
	if !domain.CanTransition(ticket.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, ticket.Status, to)
	}

	status := string(to)
	return s.client.PatchTicket(id, maintapi.TicketPatch{Status: &status, Position: &position})
}

// Reposition moves a ticket within its current lane.
func (s *TicketService) Reposition(id string, position int) error {
	return s.client.PatchTicket(id, maintapi.TicketPatch{Position: &position})
}

// Assign hands a ticket to a technician; viewers cannot take tickets.
func (s *TicketService) Assign(ticketID, technicianID string) error {
	tech, err := s.client.GetUser(technicianID)
	if err != nil {
		return err
	}
	if !tech.CanWork() {
		return fmt.Errorf("user %s (%s) cannot be assigned tickets", tech.Name, tech.Role)
	}
	return s.client.PatchTicket(ticketID, maintapi.TicketPatch{AssigneeID: &technicianID})
}

// Delete removes a ticket.
func (s *TicketService) Delete(id string) error {
	return s.client.DeleteTicket(id)
}

// ListOverdue returns unfinished tickets already past their due date.
// The API's filter language only does equality, so the due-date cut
// happens client-side.
func (s *TicketService) ListOverdue(now time.Time) ([]domain.Ticket, error) {
	tickets, err := s.client.ListTickets(maintapi.Query{Order: "dueDate"})
	if err != nil {
		return nil, err
	}

	var overdue []domain.Ticket
	for _, t := range tickets {
		if t.IsOverdue(now) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}
