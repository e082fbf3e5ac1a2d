package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/maintdash/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func occ(id string, day time.Time) domain.TaskOccurrence {
	return domain.TaskOccurrence{
		ID:        id,
		MachineID: "m1",
		TaskID:    "t1",
		Date:      day,
	}
}

func TestStorage_NotificationDedup(t *testing.T) {
	s := newTestStorage(t)
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	o := occ("t1-2024-01-08", day)

	sent, err := s.WasNotified(o.ID)
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, s.MarkNotified(o))
	require.NoError(t, s.MarkNotified(o), "double mark is a no-op")

	sent, err = s.WasNotified(o.ID)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestStorage_FilterUnnotified(t *testing.T) {
	s := newTestStorage(t)
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

	occs := []domain.TaskOccurrence{
		occ("t1-2024-01-08", day),
		occ("t2-2024-01-08", day),
		occ("t3-2024-01-08", day),
	}
	require.NoError(t, s.MarkNotified(occs[1]))

	fresh, err := s.FilterUnnotified(occs)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "t1-2024-01-08", fresh[0].ID)
	assert.Equal(t, "t3-2024-01-08", fresh[1].ID)
}

func TestStorage_OverdueAlertDedup(t *testing.T) {
	s := newTestStorage(t)
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

	alerted, err := s.WasAlerted("tk1", day)
	require.NoError(t, err)
	assert.False(t, alerted)

	require.NoError(t, s.MarkAlerted("tk1", day))

	alerted, err = s.WasAlerted("tk1", day)
	require.NoError(t, err)
	assert.True(t, alerted)

	// A new day alerts again.
	alerted, err = s.WasAlerted("tk1", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, alerted)
}

func TestStorage_Prune(t *testing.T) {
	s := newTestStorage(t)
	old := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.MarkNotified(occ("old-occ", old)))
	require.NoError(t, s.MarkNotified(occ("recent-occ", recent)))
	require.NoError(t, s.MarkAlerted("tk1", old))

	require.NoError(t, s.Prune(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))

	sent, err := s.WasNotified("old-occ")
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = s.WasNotified("recent-occ")
	require.NoError(t, err)
	assert.True(t, sent)

	alerted, err := s.WasAlerted("tk1", old)
	require.NoError(t, err)
	assert.False(t, alerted)
}
