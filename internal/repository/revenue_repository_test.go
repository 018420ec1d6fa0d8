package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewRevenueRepository(db)
	billboard, partners := testutil.CreatePartnership(t, db, 5000)

	for i, day := range []int{3, 1, 2} {
		require.NoError(t, repo.InsertPosting(ctx, &model.RevenuePosting{
			ID:            testutil.MakeID(),
			BillboardID:   billboard.ID,
			PostedOn:      time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC),
			Amount:        1000,
			Regime:        allocation.RegimePreRecovery,
			CapitalAmount: 300,
			CompanyAmount: 350,
			PartnerAmounts: []allocation.PartnerAmount{
				{PartnerID: partners[0].ID, Amount: 175},
				{PartnerID: partners[1].ID, Amount: 175},
			},
			CapitalRemainingAfter: 5000 - 300*float64(i+1),
			CreatedAt:             time.Now().UTC(),
		}))
	}

	t.Run("sorted descending by default", func(t *testing.T) {
		postings, err := repo.GetPostings(ctx, billboard.ID, model.PostingFilters{})
		require.NoError(t, err)
		require.Len(t, postings, 3)
		assert.Equal(t, 3, postings[0].PostedOn.Day())
		assert.Equal(t, 1, postings[2].PostedOn.Day())
		assert.Equal(t, allocation.RegimePreRecovery, postings[0].Regime)
		assert.Equal(t, partners[0].ID, postings[0].PartnerAmounts[0].PartnerID)
	})

	t.Run("date bounds and limit", func(t *testing.T) {
		end := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
		postings, err := repo.GetPostings(ctx, billboard.ID, model.PostingFilters{EndDate: &end, SortDir: "asc", PerPage: 1})
		require.NoError(t, err)
		require.Len(t, postings, 1)
		assert.Equal(t, 1, postings[0].PostedOn.Day())
	})

	t.Run("sum of recovered capital", func(t *testing.T) {
		sum, err := repo.SumCapitalRecovered(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 900.0, sum)

		none, err := repo.SumCapitalRecovered(ctx, testutil.MakeID())
		require.NoError(t, err)
		assert.Zero(t, none)
	})
}

func TestSnapshotRepository_UpsertSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSnapshotRepository(db)
	billboard := testutil.NewBillboard().Build(t, db)

	snap := model.PartnershipSnapshot{BillboardID: billboard.ID, Date: "2026-04-01", TotalCapital: 5000, CapitalRemaining: 5000}
	require.NoError(t, repo.UpsertSnapshot(ctx, snap))
	snap.CapitalRemaining = 1000
	snap.RecoveredPct = 80
	require.NoError(t, repo.UpsertSnapshot(ctx, snap))

	testutil.AssertRowCount(t, db, "partnership_snapshot", 1)

	var got []model.PartnershipSnapshot
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	err := repo.GetSnapshots(ctx, billboard.ID, day, day, func(s model.PartnershipSnapshot) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1000.0, got[0].CapitalRemaining)
	assert.Equal(t, 80.0, got[0].RecoveredPct)
	assert.False(t, got[0].CalculatedAt.IsZero())
}

func TestPricingRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPricingRepository(db)

	company := model.PricingCompany{ID: testutil.MakeID(), Name: "Libyana"}
	require.NoError(t, repo.InsertCompany(ctx, company))
	require.NoError(t, repo.InsertSizeGroup(ctx, company.ID, allocation.SizeGroup{ID: testutil.MakeID(), Size: "4x12", UnitCount: 2, PerUnitPrice: 100}))
	require.NoError(t, repo.InsertSizeGroup(ctx, company.ID, allocation.SizeGroup{ID: testutil.MakeID(), Size: "3x4", UnitCount: 3, PerUnitPrice: 50}))

	groups, err := repo.GetSizeGroups(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "3x4", groups[0].Size)

	groups[0].PerUnitPrice = 75
	require.NoError(t, repo.UpdateUnitPrices(ctx, groups))

	groups, err = repo.GetSizeGroups(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, groups[0].PerUnitPrice)

	_, err = repo.GetCompany(ctx, testutil.MakeID())
	assert.ErrorIs(t, err, apperrors.ErrPricingCompanyNotFound)
}

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewSettingRepository(db)

	require.NoError(t, repo.Upsert(ctx, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, repo.Upsert(ctx, map[string]string{"a": "3"}))

	settings, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, settings)
}
