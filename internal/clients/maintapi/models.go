package maintapi

import (
	"time"

	"github.com/plantops/maintdash/internal/domain"
)

// Machine is the wire representation of a machine document, task list
// embedded. All dates travel as ISO-8601 strings.
type Machine struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	RoomID       string `json:"roomId,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Status       string `json:"status,omitempty"`
	Tasks        []Task `json:"tasks,omitempty"`
}

// Task is the wire representation of a recurrence rule.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	StartDate  time.Time  `json:"startDate"`
	Recurrence string     `json:"recurrence"`
	Interval   int        `json:"interval"`
	DaysOfWeek []int      `json:"daysOfWeek,omitempty"`
	DayOfMonth *int       `json:"dayOfMonth,omitempty"`
	Month      *int       `json:"month,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// Room is the wire representation of a room.
type Room struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Floor int    `json:"floor,omitempty"`
}

// Ticket is the wire representation of a maintenance ticket.
type Ticket struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	MachineID   string     `json:"machineId,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
}

// User is the wire representation of a dashboard user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TicketPatch carries a partial ticket update; nil fields are left alone.
type TicketPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	Position    *int       `json:"position,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (m Machine) toDomain() domain.Machine {
	out := domain.Machine{
		ID:           m.ID,
		Name:         m.Name,
		RoomID:       m.RoomID,
		SerialNumber: m.SerialNumber,
		Status:       domain.MachineStatus(m.Status),
	}
	for _, t := range m.Tasks {
		out.Tasks = append(out.Tasks, t.toDomain())
	}
	return out
}

func machineFromDomain(m domain.Machine) Machine {
	out := Machine{
		ID:           m.ID,
		Name:         m.Name,
		RoomID:       m.RoomID,
		SerialNumber: m.SerialNumber,
		Status:       string(m.Status),
	}
	for _, t := range m.Tasks {
		out.Tasks = append(out.Tasks, taskFromDomain(t))
	}
	return out
}

func (t Task) toDomain() domain.MaintenanceTask {
	out := domain.MaintenanceTask{
		ID:         t.ID,
		Title:      t.Title,
		StartDate:  t.StartDate,
		Recurrence: domain.RecurrenceKind(t.Recurrence),
		Interval:   t.Interval,
		DayOfMonth: t.DayOfMonth,
		Month:      t.Month,
		EndDate:    t.EndDate,
	}
	for _, d := range t.DaysOfWeek {
		out.DaysOfWeek = append(out.DaysOfWeek, domain.Weekday(d))
	}
	return out
}

func taskFromDomain(t domain.MaintenanceTask) Task {
	out := Task{
		ID:         t.ID,
		Title:      t.Title,
		StartDate:  t.StartDate,
		Recurrence: string(t.Recurrence),
		Interval:   t.Interval,
		DayOfMonth: t.DayOfMonth,
		Month:      t.Month,
		EndDate:    t.EndDate,
	}
	for _, d := range t.DaysOfWeek {
		out.DaysOfWeek = append(out.DaysOfWeek, int(d))
	}
	return out
}

func (r Room) toDomain() domain.Room {
	return domain.Room{ID: r.ID, Name: r.Name, Floor: r.Floor}
}

func (t Ticket) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      domain.TicketStatus(t.Status),
		Priority:    domain.TicketPriority(t.Priority),
		MachineID:   t.MachineID,
		AssigneeID:  t.AssigneeID,
		Position:    t.Position,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ticketFromDomain(t domain.Ticket) Ticket {
	return Ticket{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		MachineID:   t.MachineID,
		AssigneeID:  t.AssigneeID,
		Position:    t.Position,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (u User) toDomain() domain.Technician {
	return domain.Technician{ID: u.ID, Name: u.Name, Email: u.Email, Role: domain.Role(u.Role)}
}
