// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// Snapshotter writes the daily partnership snapshots.
type Snapshotter interface {
	SnapshotAll(ctx context.Context, date time.Time) (int, error)
}

// Scheduler runs the snapshot job on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	snapshotter Snapshotter
	now         func() time.Time
	log         *logrus.Entry
}

// New registers the snapshot job under spec, a standard five-field cron
// expression or descriptor such as "@daily".
func New(snapshotter Snapshotter, spec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		snapshotter: snapshotter,
		now:         time.Now,
		log:         logging.For("scheduler"),
	}

	if _, err := s.cron.AddFunc(spec, s.RunSnapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunSnapshot writes today's snapshots once.
func (s *Scheduler) RunSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.snapshotter.SnapshotAll(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("snapshot job failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"count":    count,
		"duration": time.Since(start).String(),
	}).Info("snapshot job finished")
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}
