package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// snapshotWorkers limits concurrent snapshot writes.
const snapshotWorkers = 4

// SnapshotService records and reads the daily capital recovery state of partnerships.
type SnapshotService struct {
	billboardRepo *repository.BillboardRepository
	shareRepo     *repository.PartnerShareRepository
	snapshotRepo  *repository.SnapshotRepository
	publisher     events.Publisher
	log           *logrus.Entry
}

// NewSnapshotService creates a new SnapshotService with the provided repository dependencies.
func NewSnapshotService(
	billboardRepo *repository.BillboardRepository,
	shareRepo *repository.PartnerShareRepository,
	snapshotRepo *repository.SnapshotRepository,
	publisher events.Publisher,
) *SnapshotService {
	return &SnapshotService{
		billboardRepo: billboardRepo,
		shareRepo:     shareRepo,
		snapshotRepo:  snapshotRepo,
		publisher:     publisher,
		log:           logging.For("snapshot"),
	}
}

// SnapshotAll writes one snapshot per partnership billboard for date, replacing
// snapshots already taken that day. Returns the number written.
func (s *SnapshotService) SnapshotAll(ctx context.Context, date time.Time) (int, error) {
	billboards, err := s.billboardRepo.GetBillboards(ctx, model.BillboardFilter{OnlyPartnerships: true})
	if err != nil {
		return 0, err
	}

	day := date.UTC().Format("2006-01-02")
	var written atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotWorkers)
	for _, b := range billboards {
		g.Go(func() error {
			shares, err := s.shareRepo.GetShares(gctx, b.ID)
			if err != nil {
				return err
			}

			account := b.CapitalAccount().Normalize()
			err = s.snapshotRepo.UpsertSnapshot(gctx, model.PartnershipSnapshot{
				BillboardID:      b.ID,
				Date:             day,
				TotalCapital:     account.TotalCapital,
				CapitalRemaining: account.CapitalRemaining,
				RecoveredPct:     account.RecoveredPct(),
				PartnerCount:     len(shares),
			})
			if err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}

	count := int(written.Load())
	s.log.WithFields(logrus.Fields{"date": day, "count": count}).Info("partnership snapshots written")
	events.Emit(ctx, s.publisher, events.SnapshotsWritten, map[string]any{"date": day, "count": count})
	return count, nil
}

// History returns a billboard's snapshots between start and end, oldest first.
// Returns ErrInvalidDateRange when start is after end and ErrBillboardNotFound
// for unknown billboards.
func (s *SnapshotService) History(ctx context.Context, billboardID string, start, end time.Time) ([]model.PartnershipSnapshot, error) {
	if start.After(end) {
		return nil, apperrors.ErrInvalidDateRange
	}
	if _, err := s.billboardRepo.GetBillboard(ctx, billboardID); err != nil {
		return nil, err
	}

	history := []model.PartnershipSnapshot{}
	err := s.snapshotRepo.GetSnapshots(ctx, billboardID, start, end, func(record model.PartnershipSnapshot) error {
		history = append(history, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
