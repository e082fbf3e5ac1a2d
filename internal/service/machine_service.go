package service

import (
	"errors"
	"fmt"

	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/domain"
)

// MachineService manages machines and the maintenance tasks they own.
// Every task write is validated before it reaches the API, so a rule the
// generator cannot expand never gets persisted.
type MachineService struct {
	client *maintapi.Client
}

func NewMachineService(client *maintapi.Client) *MachineService {
	return &MachineService{client: client}
}

// List returns machines matching the query.
func (s *MachineService) List(q maintapi.Query) ([]domain.Machine, error) {
	return s.client.ListMachines(q)
}

// Get returns one machine by ID.
func (s *MachineService) Get(id string) (*domain.Machine, error) {
	return s.client.GetMachine(id)
}

// Create validates the machine's task list and creates it.
func (s *MachineService) Create(m domain.Machine) (*domain.Machine, error) {
	if m.Name == "" {
		return nil, errors.New("machine name is required")
	}
	for _, task := range m.Tasks {
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
	}
	return s.client.CreateMachine(m)
}

// Update validates the task list and replaces the machine document.
func (s *MachineService) Update(m domain.Machine) error {
	for _, task := range m.Tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", task.ID, err)
		}
	}
	return s.client.UpdateMachine(m)
}

// Delete removes a machine and, with it, its task list.
func (s *MachineService) Delete(id string) error {
	return s.client.DeleteMachine(id)
}

// AddTask appends a validated task to a machine's task list.
func (s *MachineService) AddTask(machineID string, task domain.MaintenanceTask) error {
	if err := task.Validate(); err != nil {
		return err
	}

	machine, err := s.client.GetMachine(machineID)
	if err != nil {
		return err
	}
	for _, existing := range machine.Tasks {
		if existing.ID == task.ID {
			return fmt.Errorf("task %s already exists on machine %s", task.ID, machineID)
		}
	}

	machine.Tasks = append(machine.Tasks, task)
	return s.client.UpdateMachine(*machine)
}

// UpdateTask replaces one task on a machine's task list.
func (s *MachineService) UpdateTask(machineID string, task domain.MaintenanceTask) error {
	if err := task.Validate(); err != nil {
		return err
	}

	machine, err := s.client.GetMachine(machineID)
	if err != nil {
		return err
	}
	for i, existing := range machine.Tasks {
		if existing.ID == task.ID {
			machine.Tasks[i] = task
			return s.client.UpdateMachine(*machine)
		}
	}
	return fmt.Errorf("%w: task %s on machine %s", domain.ErrNotFound, task.ID, machineID)
}

// RemoveTask deletes one task from a machine's task list.
func (s *MachineService) RemoveTask(machineID, taskID string) error {
	machine, err := s.client.GetMachine(machineID)
	if err != nil {
		return err
	}
	for i, existing := range machine.Tasks {
		if existing.ID == taskID {
			machine.Tasks = append(machine.Tasks[:i], machine.Tasks[i+1:]...)
			return s.client.UpdateMachine(*machine)
		}
	}
	return fmt.Errorf("%w: task %s on machine %s", domain.ErrNotFound, taskID, machineID)
}

// ListRooms returns all rooms, ordered by name.
func (s *MachineService) ListRooms() ([]domain.Room, error) {
	return s.client.ListRooms(maintapi.Query{Order: "name"})
}
