package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("insert, update and delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPartnerRepository(db)

		p := &model.Partner{ID: testutil.MakeID(), Name: "Alice", Phone: "123", CreatedAt: time.Now().UTC()}
		require.NoError(t, repo.InsertPartner(ctx, p))

		p.Phone = "456"
		require.NoError(t, repo.UpdatePartner(ctx, p))

		got, err := repo.GetPartner(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "456", got.Phone)

		require.NoError(t, repo.DeletePartner(ctx, p.ID))
		_, err = repo.GetPartner(ctx, p.ID)
		assert.ErrorIs(t, err, apperrors.ErrPartnerNotFound)
		assert.ErrorIs(t, repo.DeletePartner(ctx, p.ID), apperrors.ErrPartnerNotFound)
	})

	t.Run("lookup by ids", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPartnerRepository(db)
		alice := testutil.CreatePartner(t, db, "Alice")
		bob := testutil.CreatePartner(t, db, "Bob")
		testutil.CreatePartner(t, db, "Carol")

		byID, err := repo.GetPartnersByIDs(ctx, []string{alice.ID, bob.ID, testutil.MakeID()})
		require.NoError(t, err)
		assert.Len(t, byID, 2)
		assert.Equal(t, "Bob", byID[bob.ID].Name)

		empty, err := repo.GetPartnersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestPartnerShareRepository_ReplaceShares(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPartnerShareRepository(db)
	billboard, partners := testutil.CreatePartnership(t, db, 5000)
	carol := testutil.CreatePartner(t, db, "Carol")

	err := repo.ReplaceShares(ctx, billboard.ID, []model.PartnerShare{
		{PartnerID: carol.ID, PrePct: 35, PostPct: 60},
		{PartnerID: partners[1].ID, PrePct: 0, PostPct: 0},
	})
	require.NoError(t, err)

	shares, err := repo.GetShares(ctx, billboard.ID)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "Carol", shares[0].PartnerName)
	assert.Equal(t, 35.0, shares[0].PrePct)
	assert.NotEmpty(t, shares[0].ID)
	assert.Equal(t, "Bob", shares[1].PartnerName)

	n, err := repo.CountSharesForPartner(ctx, partners[0].ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.DeleteShares(ctx, billboard.ID))
	testutil.AssertRowCount(t, db, "partner_share", 0)
}
