package caldav

import "time"

// Calendar represents a CalDAV calendar collection
type Calendar struct {
	ID          string // Calendar path/URL
	DisplayName string
	URL         string
}

// Event represents a calendar event. Maintenance occurrences are published
// as all-day events, one object per occurrence.
type Event struct {
	UID         string // Unique ID in CalDAV
	Summary     string // Title
	Description string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}
