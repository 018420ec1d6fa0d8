package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// CapitalObserver is told when posted revenue changes a billboard's remaining capital.
type CapitalObserver interface {
	SyncCapitalRemaining(billboardID string, remaining float64)
}

// RevenueService posts revenue against partnership billboards and recovers capital.
type RevenueService struct {
	db            *sql.DB
	billboardRepo *repository.BillboardRepository
	shareRepo     *repository.PartnerShareRepository
	revenueRepo   *repository.RevenueRepository
	publisher     events.Publisher
	observer      CapitalObserver
	log           *logrus.Entry
}

// NewRevenueService creates a new RevenueService. observer may be nil.
func NewRevenueService(
	db *sql.DB,
	billboardRepo *repository.BillboardRepository,
	shareRepo *repository.PartnerShareRepository,
	revenueRepo *repository.RevenueRepository,
	publisher events.Publisher,
	observer CapitalObserver,
) *RevenueService {
	return &RevenueService{
		db:            db,
		billboardRepo: billboardRepo,
		shareRepo:     shareRepo,
		revenueRepo:   revenueRepo,
		publisher:     publisher,
		observer:      observer,
		log:           logging.For("revenue"),
	}
}

// PostRevenue splits amount with the billboard's persisted allocation, stores the
// posting and lowers the remaining capital by the recovered part.
//
// Returns ErrNegativeAmount for negative amounts, ErrBillboardNotFound for unknown
// billboards and ErrNotAPartnership when no partnership is saved. A stored
// allocation without partners or with unbalanced regimes is refused with the
// allocation validation error.
func (s *RevenueService) PostRevenue(ctx context.Context, billboardID string, amount float64, postedOn time.Time) (model.RevenuePosting, error) {
	if amount < 0 {
		return model.RevenuePosting{}, apperrors.ErrNegativeAmount
	}

	var posting model.RevenuePosting
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		billboardRepo := s.billboardRepo.WithTx(tx)

		billboard, err := billboardRepo.GetBillboard(ctx, billboardID)
		if err != nil {
			return err
		}
		if !billboard.IsPartnership {
			return apperrors.ErrNotAPartnership
		}

		shares, err := s.shareRepo.WithTx(tx).GetShares(ctx, billboardID)
		if err != nil {
			return err
		}

		alloc := allocatorFor(billboard, shares)
		if err := alloc.Validate(); err != nil {
			return err
		}
		dist := alloc.Distribute(amount, billboard.CapitalAccount())

		posting = model.RevenuePosting{
			ID:                    uuid.New().String(),
			BillboardID:           billboardID,
			PostedOn:              postedOn.UTC().Truncate(24 * time.Hour),
			Amount:                dist.Revenue,
			Regime:                dist.Regime,
			CapitalAmount:         dist.CapitalAmount,
			CompanyAmount:         dist.CompanyAmount,
			PartnerAmounts:        dist.PartnerAmounts,
			CapitalRemainingAfter: dist.CapitalRemainingAfter,
			CreatedAt:             time.Now().UTC(),
		}

		if err := s.revenueRepo.WithTx(tx).InsertPosting(ctx, &posting); err != nil {
			return err
		}
		return billboardRepo.UpdateCapitalRemaining(ctx, billboardID, dist.CapitalRemainingAfter)
	})
	if err != nil {
		return model.RevenuePosting{}, err
	}

	if s.observer != nil {
		s.observer.SyncCapitalRemaining(billboardID, posting.CapitalRemainingAfter)
	}

	s.log.WithFields(logrus.Fields{
		"billboard_id":      billboardID,
		"amount":            posting.Amount,
		"regime":            posting.Regime,
		"capital_remaining": posting.CapitalRemainingAfter,
	}).Info("revenue posted")

	events.Emit(ctx, s.publisher, events.RevenuePosted, posting)
	return posting, nil
}

// ListPostings returns a billboard's revenue postings matching filters.
// Returns ErrBillboardNotFound if the billboard does not exist.
func (s *RevenueService) ListPostings(ctx context.Context, billboardID string, filters model.PostingFilters) ([]model.RevenuePosting, error) {
	if _, err := s.billboardRepo.GetBillboard(ctx, billboardID); err != nil {
		return nil, err
	}
	return s.revenueRepo.GetPostings(ctx, billboardID, filters)
}

// Summary reports the billboard's capital account next to the capital recovered
// through postings. Returns ErrBillboardNotFound if the billboard does not exist.
func (s *RevenueService) Summary(ctx context.Context, billboardID string) (model.RevenueSummary, error) {
	b, err := s.billboardRepo.GetBillboard(ctx, billboardID)
	if err != nil {
		return model.RevenueSummary{}, err
	}

	recovered, err := s.revenueRepo.SumCapitalRecovered(ctx, billboardID)
	if err != nil {
		return model.RevenueSummary{}, err
	}

	return model.RevenueSummary{
		BillboardID:         b.ID,
		TotalCapital:        b.TotalCapital,
		CapitalRemaining:    b.CapitalRemaining,
		RecoveredByPostings: round(recovered),
	}, nil
}
