package domain

type MachineStatus string

const (
	MachineOperational MachineStatus = "operational"
	MachineMaintenance MachineStatus = "maintenance"
	MachineBroken      MachineStatus = "broken"
	MachineRetired     MachineStatus = "retired"
)

// Machine is a piece of equipment tracked on the dashboard. Its recurring
// maintenance tasks are owned by the machine and persisted as part of its
// document.
type Machine struct {
	ID           string
	Name         string
	RoomID       string
	SerialNumber string
	Status       MachineStatus
	Tasks        []MaintenanceTask
}

func (m *Machine) StatusEmoji() string {
	switch m.Status {
	case MachineOperational:
		return "🟢"
	case MachineMaintenance:
		return "🟡"
	case MachineBroken:
		return "🔴"
	case MachineRetired:
		return "⚫"
	default:
		return "⚪"
	}
}

// Room is a location machines are assigned to.
type Room struct {
	ID    string
	Name  string
	Floor int
}
