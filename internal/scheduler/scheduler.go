package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/plantops/maintdash/config"
	"github.com/plantops/maintdash/internal/domain"
	"github.com/plantops/maintdash/internal/service"
	"github.com/plantops/maintdash/internal/storage"
)

type MessageSender interface {
	SendMessage(text string) error
	IsConfigured() bool
}

// Scheduler drives the daemon's recurring jobs: the morning maintenance
// digest, hourly overdue ticket alerts, and the nightly CalDAV publish.
type Scheduler struct {
	cron            *cron.Cron
	cfg             *config.Config
	storage         *storage.Storage
	planner         *service.PlannerService
	tickets         *service.TicketService
	calendarService *service.CalendarService
	sender          MessageSender
}

func New(cfg *config.Config, storage *storage.Storage, planner *service.PlannerService, tickets *service.TicketService, calendarSvc *service.CalendarService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:            c,
		cfg:             cfg,
		storage:         storage,
		planner:         planner,
		tickets:         tickets,
		calendarService: calendarSvc,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	digestSpec, err := cronSpecAt(s.cfg.DigestTime)
	if err != nil {
		return fmt.Errorf("parse digest time: %w", err)
	}
	if _, err := s.cron.AddFunc(digestSpec, s.morningDigest); err != nil {
		return fmt.Errorf("add morning digest: %w", err)
	}

	if _, err := s.cron.AddFunc("0 * * * *", s.overdueCheck); err != nil {
		return fmt.Errorf("add overdue check: %w", err)
	}

	if _, err := s.cron.AddFunc("30 2 * * *", s.publishCalendar); err != nil {
		return fmt.Errorf("add calendar publish: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, digest: %s)", s.cfg.Timezone, s.cfg.DigestTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// cronSpecAt converts an "HH:MM" wall-clock time to a daily cron spec.
func cronSpecAt(hhmm string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", hhmm)
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

func (s *Scheduler) morningDigest() {
	if s.sender == nil || !s.sender.IsConfigured() {
		return
	}

	today := time.Now().In(s.cfg.Timezone)
	occs, err := s.planner.DueOn(today)
	if err != nil {
		log.Printf("Error expanding today's occurrences: %v", err)
		return
	}

	occs, err = s.storage.FilterUnnotified(occs)
	if err != nil {
		log.Printf("Error filtering notified occurrences: %v", err)
		return
	}
	if len(occs) == 0 {
		return
	}

	overdue, err := s.tickets.ListOverdue(time.Now())
	if err != nil {
		log.Printf("Error listing overdue tickets: %v", err)
		overdue = nil // Digest still goes out without the ticket line
	}

	if err := s.sender.SendMessage(FormatDigest(occs, len(overdue))); err != nil {
		log.Printf("Error sending morning digest: %v", err)
		return
	}

	for _, o := range occs {
		if err := s.storage.MarkNotified(o); err != nil {
			log.Printf("Error marking occurrence %s notified: %v", o.ID, err)
		}
	}
}

func (s *Scheduler) overdueCheck() {
	if s.sender == nil || !s.sender.IsConfigured() {
		return
	}

	now := time.Now().In(s.cfg.Timezone)
	overdue, err := s.tickets.ListOverdue(now)
	if err != nil {
		log.Printf("Error listing overdue tickets: %v", err)
		return
	}

	for _, t := range overdue {
		alerted, err := s.storage.WasAlerted(t.ID, now)
		if err != nil {
			log.Printf("Error checking alert state for ticket %s: %v", t.ID, err)
			continue
		}
		if alerted {
			continue
		}

		text := fmt.Sprintf("%s <b>Overdue ticket</b>\n\n%s\nDue %s",
			t.PriorityEmoji(), t.Title, t.DueDate.Format("02.01.2006"))
		if err := s.sender.SendMessage(text); err != nil {
			log.Printf("Error sending overdue alert for ticket %s: %v", t.ID, err)
			continue
		}

		if err := s.storage.MarkAlerted(t.ID, now); err != nil {
			log.Printf("Error marking ticket %s alerted: %v", t.ID, err)
		}
	}
}

func (s *Scheduler) publishCalendar() {
	if s.calendarService == nil || !s.calendarService.IsConfigured() {
		return
	}

	from := time.Now().In(s.cfg.Timezone)
	to := from.AddDate(0, 0, s.cfg.PublishDays)
	result, err := s.calendarService.Publish(from, to)
	if err != nil {
		log.Printf("Error publishing calendar: %v", err)
		return
	}

	log.Printf("Calendar published: %d put, %d removed, %d errors",
		result.Put, result.Removed, len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("Calendar publish: %s", e)
	}

	// Dedup records for past occurrences are no longer needed.
	if err := s.storage.Prune(from.AddDate(0, 0, -90)); err != nil {
		log.Printf("Error pruning storage: %v", err)
	}
}

// FormatDigest renders the morning digest message.
func FormatDigest(occs []domain.TaskOccurrence, overdueCount int) string {
	var b strings.Builder
	b.WriteString("🛠 <b>Maintenance due today</b>\n")

	for _, group := range service.GroupByMachine(occs) {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", group.MachineName))
		for _, o := range group.Occurrences {
			b.WriteString(fmt.Sprintf("• %s\n", o.Title))
		}
	}

	if overdueCount > 0 {
		b.WriteString(fmt.Sprintf("\n🔴 Overdue tickets: %d", overdueCount))
	}
	return b.String()
}
