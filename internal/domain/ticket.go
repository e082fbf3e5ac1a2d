package domain

import (
	"errors"
	"time"
)

// ErrInvalidTransition marks a disallowed ticket status change.
var ErrInvalidTransition = errors.New("invalid ticket transition")

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketBlocked    TicketStatus = "blocked"
	TicketDone       TicketStatus = "done"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityNormal TicketPriority = "normal"
	PriorityUrgent TicketPriority = "urgent"
)

// Ticket is a maintenance ticket on the Kanban board. Position orders the
// ticket within its status lane.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	MachineID   string
	AssigneeID  string
	Position    int
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransition reports whether a ticket may move from one status to
// another. Any non-done ticket can be pulled back to the open pool; done is
// terminal except for an explicit reopen.
func CanTransition(from, to TicketStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case TicketOpen:
		return to == TicketInProgress
	case TicketInProgress:
		return to == TicketBlocked || to == TicketDone || to == TicketOpen
	case TicketBlocked:
		return to == TicketInProgress || to == TicketOpen
	case TicketDone:
		return to == TicketOpen
	default:
		return false
	}
}

// IsOverdue reports whether the ticket is past due and still unfinished.
func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == TicketDone {
		return false
	}
	return t.DueDate.Before(now)
}

func (t *Ticket) PriorityEmoji() string {
	switch t.Priority {
	case PriorityUrgent:
		return "🔴"
	case PriorityNormal:
		return "🟡"
	case PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}
