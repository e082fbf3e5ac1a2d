package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plantops/maintdash/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// Storage is the daemon's local state: which occurrence digest lines and
// overdue alerts have already gone out. The dashboard data itself lives
// behind the REST API; nothing here is authoritative.
type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS notified_occurrences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			occurrence_id TEXT UNIQUE NOT NULL,
			machine_id TEXT NOT NULL,
			task_id TEXT NOT NULL,
			occurred_on DATE NOT NULL,
			sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notified_occurred_on ON notified_occurrences(occurred_on)`,
		`CREATE TABLE IF NOT EXISTS overdue_alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticket_id TEXT NOT NULL,
			alerted_on DATE NOT NULL,
			sent_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(ticket_id, alerted_on)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// WasNotified reports whether a digest line already went out for this
// occurrence.
func (s *Storage) WasNotified(occurrenceID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notified_occurrences WHERE occurrence_id = ?`,
		occurrenceID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query notified: %w", err)
	}
	return count > 0, nil
}

// MarkNotified records that an occurrence was included in a digest.
// Recording the same occurrence twice is a no-op.
func (s *Storage) MarkNotified(o domain.TaskOccurrence) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO notified_occurrences (occurrence_id, machine_id, task_id, occurred_on)
		 VALUES (?, ?, ?, ?)`,
		o.ID, o.MachineID, o.TaskID, o.Date.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("insert notified: %w", err)
	}
	return nil
}

// FilterUnnotified returns the subset of occurrences no digest has covered
// yet, preserving order.
func (s *Storage) FilterUnnotified(occs []domain.TaskOccurrence) ([]domain.TaskOccurrence, error) {
	var out []domain.TaskOccurrence
	for _, o := range occs {
		sent, err := s.WasNotified(o.ID)
		if err != nil {
			return nil, err
		}
		if !sent {
			out = append(out, o)
		}
	}
	return out, nil
}

// WasAlerted reports whether an overdue alert for the ticket already went
// out on the given day.
func (s *Storage) WasAlerted(ticketID string, day time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM overdue_alerts WHERE ticket_id = ? AND alerted_on = ?`,
		ticketID, day.Format("2006-01-02"),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query alerted: %w", err)
	}
	return count > 0, nil
}

// MarkAlerted records an overdue alert for the ticket on the given day.
func (s *Storage) MarkAlerted(ticketID string, day time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO overdue_alerts (ticket_id, alerted_on) VALUES (?, ?)`,
		ticketID, day.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("insert alerted: %w", err)
	}
	return nil
}

// Prune drops dedup records older than the cutoff so the database does not
// grow without bound.
func (s *Storage) Prune(before time.Time) error {
	cutoff := before.Format("2006-01-02")
	if _, err := s.db.Exec(`DELETE FROM notified_occurrences WHERE occurred_on < ?`, cutoff); err != nil {
		return fmt.Errorf("prune notified: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM overdue_alerts WHERE alerted_on < ?`, cutoff); err != nil {
		return fmt.Errorf("prune alerts: %w", err)
	}
	return nil
}
