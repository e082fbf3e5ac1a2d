package caldav

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

// Client is a CalDAV client used to publish the maintenance calendar to a
// crew-visible calendar collection.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string // Optional: specific calendar to use
	client       *caldav.Client
}

// NewClient creates a new CalDAV client
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
	}
}

// IsConfigured returns true if the client has an endpoint and credentials
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != ""
}

// SetCalendarPath sets the calendar collection to use
func (c *Client) SetCalendarPath(path string) {
	c.calendarPath = path
}

// connect establishes connection to CalDAV server
func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// DiscoverCalendars returns all calendars for the user
func (c *Client) DiscoverCalendars() ([]Calendar, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var result []Calendar
	for _, cal := range cals {
		result = append(result, Calendar{
			ID:          cal.Path,
			DisplayName: cal.Name,
			URL:         cal.Path,
		})
	}

	return result, nil
}

// GetEvents returns events in the specified time range
func (c *Client) GetEvents(from, to time.Time) ([]Event, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	if c.calendarPath == "" {
		return nil, fmt.Errorf("calendar path not specified")
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from,
					End:   to,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(context.Background(), c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var events []Event
	for _, obj := range objects {
		event, err := parseCalendarObject(&obj)
		if err != nil {
			continue // Skip invalid events
		}
		events = append(events, event)
	}

	return events, nil
}

// PutEvent creates or replaces an event (CalDAV PUT replaces)
func (c *Client) PutEvent(event *Event) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if c.calendarPath == "" {
		return fmt.Errorf("calendar path not specified")
	}
	if event.UID == "" {
		return fmt.Errorf("event UID is required")
	}

	cal := eventToICS(event)

	_, err = client.PutCalendarObject(context.Background(), c.eventPath(event.UID), cal)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}

	return nil
}

// DeleteEvent deletes an event by UID
func (c *Client) DeleteEvent(eventUID string) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if err := client.RemoveAll(context.Background(), c.eventPath(eventUID)); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return nil
}

func (c *Client) eventPath(uid string) string {
	path := c.calendarPath
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + uid + ".ics"
}

// parseCalendarObject parses a CalDAV object into an Event
func parseCalendarObject(obj *caldav.CalendarObject) (Event, error) {
	event := Event{}

	if obj.Data == nil {
		return event, fmt.Errorf("no data in calendar object")
	}

	for _, comp := range obj.Data.Children {
		if comp.Name != ical.CompEvent {
			continue
		}

		if prop := comp.Props.Get(ical.PropUID); prop != nil {
			event.UID = prop.Value
		}
		if prop := comp.Props.Get(ical.PropSummary); prop != nil {
			event.Summary = prop.Value
		}
		if prop := comp.Props.Get(ical.PropDescription); prop != nil {
			event.Description = prop.Value
		}
		if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
			t, err := prop.DateTime(time.UTC)
			if err == nil {
				event.StartTime = t
			}
			if valueType := prop.Params.Get(ical.ParamValue); valueType == string(ical.ValueDate) {
				event.AllDay = true
			}
		}
		if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
			t, err := prop.DateTime(time.UTC)
			if err == nil {
				event.EndTime = t
			}
		}

		break // Only process first VEVENT
	}

	return event, nil
}

// eventToICS converts an Event to iCalendar format
func eventToICS(event *Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Maintdash//CalDAV//EN")

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, event.UID)
	vevent.Props.SetText(ical.PropSummary, event.Summary)

	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}

	if event.AllDay {
		vevent.Props.SetDate(ical.PropDateTimeStart, event.StartTime)
		if !event.EndTime.IsZero() {
			vevent.Props.SetDate(ical.PropDateTimeEnd, event.EndTime)
		}
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime.UTC())
		if !event.EndTime.IsZero() {
			vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime.UTC())
		}
	}

	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	cal.Children = append(cal.Children, vevent.Component)
	return cal
}

// SerializeCalendar converts a calendar to its wire form
func SerializeCalendar(cal *ical.Calendar) (string, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", err
	}
	return buf.String(), nil
}
