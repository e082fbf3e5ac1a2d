package service

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/plantops/maintdash/internal/clients/caldav"
	"github.com/plantops/maintdash/internal/domain"
)

// CalendarService renders maintenance occurrences as iCalendar data and
// publishes them to a CalDAV collection, one all-day event per occurrence
// with the occurrence ID as UID. Publishing is a reconciliation: current
// occurrences are upserted and events whose UID no longer regenerates are
// removed, so edited or deleted rules disappear from the crew's calendars.
type CalendarService struct {
	planner *PlannerService
	client  *caldav.Client
}

func NewCalendarService(planner *PlannerService, client *caldav.Client) *CalendarService {
	return &CalendarService{planner: planner, client: client}
}

// IsConfigured returns true if CalDAV publishing is set up
func (s *CalendarService) IsConfigured() bool {
	return s.client != nil && s.client.IsConfigured()
}

// PublishResult contains publish operation results
type PublishResult struct {
	Put     int
	Removed int
	Errors  []string
}

// Publish reconciles the CalDAV collection with the occurrences in
// [from, to]. Per-event failures are collected, not fatal; a failure to
// even list either side aborts.
func (s *CalendarService) Publish(from, to time.Time) (*PublishResult, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}

	occs, err := s.planner.Occurrences(from, to)
	if err != nil {
		return nil, fmt.Errorf("expand occurrences: %w", err)
	}

	existing, err := s.client.GetEvents(from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}

	result := &PublishResult{}
	current := make(map[string]bool, len(occs))

	for _, o := range occs {
		current[o.ID] = true
		event := occurrenceEvent(o)
		if err := s.client.PutEvent(event); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("put %s: %v", o.ID, err))
			continue
		}
		result.Put++
	}

	for _, e := range existing {
		if current[e.UID] {
			continue
		}
		if err := s.client.DeleteEvent(e.UID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("delete %s: %v", e.UID, err))
			continue
		}
		result.Removed++
	}

	return result, nil
}

func occurrenceEvent(o domain.TaskOccurrence) *caldav.Event {
	return &caldav.Event{
		UID:         o.ID,
		Summary:     fmt.Sprintf("%s: %s", o.MachineName, o.Title),
		Description: fmt.Sprintf("Machine: %s\nTask: %s", o.MachineName, o.Title),
		StartTime:   o.Date,
		EndTime:     o.Date.AddDate(0, 0, 1),
		AllDay:      true,
	}
}

// WriteICS writes the occurrences in [from, to] as a single iCalendar
// stream, for the one-shot exporter.
func (s *CalendarService) WriteICS(w io.Writer, from, to time.Time) error {
	occs, err := s.planner.Occurrences(from, to)
	if err != nil {
		return fmt.Errorf("expand occurrences: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Maintdash//icsgen//EN")

	now := time.Now().UTC()
	for _, o := range occs {
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, o.ID)
		vevent.Props.SetText(ical.PropSummary, fmt.Sprintf("%s: %s", o.MachineName, o.Title))
		vevent.Props.SetDate(ical.PropDateTimeStart, o.Date)
		vevent.Props.SetDate(ical.PropDateTimeEnd, o.Date.AddDate(0, 0, 1))
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)
		cal.Children = append(cal.Children, vevent.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
