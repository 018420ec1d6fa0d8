package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (f *fakeSnapshotter) SnapshotAll(_ context.Context, date time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	return len(f.dates), f.err
}

func TestNew(t *testing.T) {
	t.Run("accepts descriptors and cron expressions", func(t *testing.T) {
		for _, spec := range []string{"@daily", "@every 1h", "30 2 * * *"} {
			s, err := New(&fakeSnapshotter{}, spec)
			require.NoError(t, err, spec)
			assert.Len(t, s.cron.Entries(), 1)
		}
	})

	t.Run("rejects invalid schedule", func(t *testing.T) {
		_, err := New(&fakeSnapshotter{}, "every day")
		assert.Error(t, err)
	})
}

func TestRunSnapshot(t *testing.T) {
	t.Run("passes the current date", func(t *testing.T) {
		fake := &fakeSnapshotter{}
		s, err := New(fake, "@daily")
		require.NoError(t, err)
		day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return day }

		s.RunSnapshot()

		require.Len(t, fake.dates, 1)
		assert.Equal(t, day, fake.dates[0])
	})

	t.Run("survives job errors", func(t *testing.T) {
		fake := &fakeSnapshotter{err: errors.New("database is locked")}
		s, err := New(fake, "@daily")
		require.NoError(t, err)

		assert.NotPanics(t, s.RunSnapshot)
		assert.Len(t, fake.dates, 1)
	})
}

func TestStartStop(t *testing.T) {
	s, err := New(&fakeSnapshotter{}, "@daily")
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
