package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/domain"
	"github.com/plantops/maintdash/internal/recurrence"
)

// MachineSource supplies the machine list the planner expands. Satisfied by
// the dashboard API client.
type MachineSource interface {
	ListMachines(q maintapi.Query) ([]domain.Machine, error)
}

// PlannerService turns the machine fleet's recurrence rules into a flat,
// chronological occurrence list for a calendar window. The window the
// caller passes in is padded on both ends so a calendar can scroll a bit
// without refetching.
type PlannerService struct {
	machines MachineSource
	padDays  int
}

func NewPlannerService(machines MachineSource, padDays int) *PlannerService {
	if padDays < 0 {
		padDays = 0
	}
	return &PlannerService{machines: machines, padDays: padDays}
}

// Occurrences returns every maintenance occurrence in the padded window,
// sorted by date, then machine name, then occurrence ID.
func (s *PlannerService) Occurrences(from, to time.Time) ([]domain.TaskOccurrence, error) {
	return s.occurrences(from.AddDate(0, 0, -s.padDays), to.AddDate(0, 0, s.padDays))
}

// DueOn returns the occurrences falling on one exact day, unpadded.
func (s *PlannerService) DueOn(day time.Time) ([]domain.TaskOccurrence, error) {
	return s.occurrences(day, day)
}

func (s *PlannerService) occurrences(from, to time.Time) ([]domain.TaskOccurrence, error) {
	machines, err := s.machines.ListMachines(maintapi.Query{})
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}

	occs, err := recurrence.ForMachines(machines, from, to)
	if err != nil {
		return nil, err
	}

	sort.Slice(occs, func(i, j int) bool {
		if !occs[i].Date.Equal(occs[j].Date) {
			return occs[i].Date.Before(occs[j].Date)
		}
		if occs[i].MachineName != occs[j].MachineName {
			return occs[i].MachineName < occs[j].MachineName
		}
		return occs[i].ID < occs[j].ID
	})
	return occs, nil
}

// MachineDigest groups one machine's occurrences for digest rendering.
type MachineDigest struct {
	MachineName string
	Occurrences []domain.TaskOccurrence
}

// GroupByMachine splits a sorted occurrence list into per-machine groups,
// ordered by machine name.
func GroupByMachine(occs []domain.TaskOccurrence) []MachineDigest {
	byMachine := make(map[string][]domain.TaskOccurrence)
	for _, o := range occs {
		byMachine[o.MachineName] = append(byMachine[o.MachineName], o)
	}

	names := make([]string, 0, len(byMachine))
	for name := range byMachine {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]MachineDigest, 0, len(names))
	for _, name := range names {
		out = append(out, MachineDigest{MachineName: name, Occurrences: byMachine[name]})
	}
	return out
}
