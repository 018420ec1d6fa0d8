package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capitalCall struct {
	billboardID string
	remaining   float64
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []capitalCall
}

func (o *recordingObserver) SyncCapitalRemaining(billboardID string, remaining float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, capitalCall{billboardID, remaining})
}

// TestRevenueService_PostRevenue tests splitting and recording revenue.
func TestRevenueService_PostRevenue(t *testing.T) {
	ctx := context.Background()
	postedOn := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("pre-recovery posting deducts capital", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		observer := &recordingObserver{}
		svc := testutil.NewTestRevenueService(t, db, pub, observer)
		billboard, partners := testutil.CreatePartnership(t, db, 5000)

		// Execute
		posting, err := svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, allocation.RegimePreRecovery, posting.Regime)
		assert.Equal(t, 300.0, posting.CapitalAmount)
		assert.Equal(t, 350.0, posting.CompanyAmount)
		require.Len(t, posting.PartnerAmounts, 2)
		assert.Equal(t, partners[0].ID, posting.PartnerAmounts[0].PartnerID)
		assert.Equal(t, 175.0, posting.PartnerAmounts[0].Amount)
		assert.Equal(t, 175.0, posting.PartnerAmounts[1].Amount)
		assert.Equal(t, 4700.0, posting.CapitalRemainingAfter)
		assert.Equal(t, "2026-03-15", posting.PostedOn.Format("2006-01-02"))

		var remaining float64
		require.NoError(t, db.QueryRow(`SELECT capital_remaining FROM billboard WHERE id = ?`, billboard.ID).Scan(&remaining))
		assert.Equal(t, 4700.0, remaining)

		testutil.AssertRowCount(t, db, "revenue_posting", 1)
		assert.Equal(t, []capitalCall{{billboard.ID, 4700}}, observer.calls)
		assert.Equal(t, []string{events.RevenuePosted}, pub.Keys())
	})

	t.Run("deduction beyond remaining capital uses post-recovery shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		billboard, _ := testutil.CreatePartnership(t, db, 100)

		posting, err := svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)

		require.NoError(t, err)
		assert.Equal(t, 100.0, posting.CapitalAmount)
		assert.Equal(t, 430.0, posting.CompanyAmount)
		assert.Equal(t, 235.0, posting.PartnerAmounts[0].Amount)
		assert.Equal(t, 235.0, posting.PartnerAmounts[1].Amount)
		assert.Equal(t, 0.0, posting.CapitalRemainingAfter)
	})

	t.Run("recovered billboard uses post-recovery shares", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		billboard, _ := testutil.CreatePartnership(t, db, 0)

		posting, err := svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)

		require.NoError(t, err)
		assert.Equal(t, allocation.RegimePostRecovery, posting.Regime)
		assert.Equal(t, 0.0, posting.CapitalAmount)
		assert.Equal(t, 400.0, posting.CompanyAmount)
		assert.Equal(t, 300.0, posting.PartnerAmounts[0].Amount)
	})

	t.Run("negative amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.PostRevenue(ctx, billboard.ID, -1, postedOn)

		assert.ErrorIs(t, err, apperrors.ErrNegativeAmount)
		testutil.AssertRowCount(t, db, "revenue_posting", 0)
	})

	t.Run("billboard without partnership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		svc := testutil.NewTestRevenueService(t, db, pub, nil)
		billboard := testutil.NewBillboard().Build(t, db)

		_, err := svc.PostRevenue(ctx, billboard.ID, 100, postedOn)

		assert.ErrorIs(t, err, apperrors.ErrNotAPartnership)
		assert.Empty(t, pub.Keys())
	})

	t.Run("partnership flag without partners", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		svc := testutil.NewTestRevenueService(t, db, pub, nil)
		billboard := testutil.NewBillboard().WithCapital(5000, 5000).AsPartnership().Build(t, db)

		_, err := svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)

		assert.ErrorIs(t, err, allocation.ErrNoPartners)
		testutil.AssertRowCount(t, db, "revenue_posting", 0)
		assert.Empty(t, pub.Keys())
	})

	t.Run("unbalanced stored allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		alice := testutil.CreatePartner(t, db, "Alice")
		billboard := testutil.NewBillboard().WithCapital(5000, 5000).AsPartnership(alice.Name).Build(t, db)
		testutil.NewShare(billboard.ID, alice.ID).WithPcts(10, 60).Build(t, db)

		_, err := svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)

		var unbalanced *allocation.UnbalancedRegimeError
		require.ErrorAs(t, err, &unbalanced)
		assert.Equal(t, allocation.RegimePreRecovery, unbalanced.Regime)
		testutil.AssertRowCount(t, db, "revenue_posting", 0)
	})

	t.Run("unknown billboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)

		_, err := svc.PostRevenue(ctx, testutil.MakeID(), 100, postedOn)

		assert.ErrorIs(t, err, apperrors.ErrBillboardNotFound)
	})

	t.Run("open draft follows the new remaining capital", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		partnerships := testutil.NewTestPartnershipService(t, db, pub)
		svc := testutil.NewTestRevenueService(t, db, pub, partnerships)
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := partnerships.Draft(ctx, billboard.ID)
		require.NoError(t, err)

		_, err = svc.PostRevenue(ctx, billboard.ID, 1000, postedOn)
		require.NoError(t, err)

		d, err := partnerships.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 4700.0, d.CapitalRemaining)
	})
}

// TestRevenueService_ListPostings tests listing postings with filters.
func TestRevenueService_ListPostings(t *testing.T) {
	ctx := context.Background()

	t.Run("filters and sorts by posting date", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		for _, day := range []int{1, 10, 20} {
			_, err := svc.PostRevenue(ctx, billboard.ID, 100, time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
		}

		start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

		// Execute
		desc, err := svc.ListPostings(ctx, billboard.ID, model.PostingFilters{StartDate: &start, SortDir: "desc", PerPage: 50})
		require.NoError(t, err)
		asc, err := svc.ListPostings(ctx, billboard.ID, model.PostingFilters{SortDir: "asc", PerPage: 2})
		require.NoError(t, err)

		// Assert
		require.Len(t, desc, 2)
		assert.Equal(t, "2026-01-20", desc[0].PostedOn.Format("2006-01-02"))
		assert.Equal(t, "2026-01-10", desc[1].PostedOn.Format("2006-01-02"))

		require.Len(t, asc, 2)
		assert.Equal(t, "2026-01-01", asc[0].PostedOn.Format("2006-01-02"))
		assert.Equal(t, 5000.0-30, asc[0].CapitalRemainingAfter)
	})

	t.Run("unknown billboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)

		_, err := svc.ListPostings(ctx, testutil.MakeID(), model.PostingFilters{})

		assert.ErrorIs(t, err, apperrors.ErrBillboardNotFound)
	})
}

// TestRevenueService_Summary tests comparing the capital account with posted recoveries.
func TestRevenueService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("reports capital recovered by postings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		for range 2 {
			_, err := svc.PostRevenue(ctx, billboard.ID, 1000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
		}

		// Execute
		summary, err := svc.Summary(ctx, billboard.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 600.0, summary.RecoveredByPostings)
		assert.Equal(t, 4400.0, summary.CapitalRemaining)
		assert.Equal(t, billboard.TotalCapital, summary.TotalCapital)
	})

	t.Run("unknown billboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRevenueService(t, db, testutil.NewRecordingPublisher(), nil)

		_, err := svc.Summary(ctx, testutil.MakeID())

		assert.ErrorIs(t, err, apperrors.ErrBillboardNotFound)
	})
}
