package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareCount(db *sql.DB, billboardID string) int {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM partner_share WHERE billboard_id = ?`, billboardID).Scan(&n); err != nil {
		return -1
	}
	return n
}

// TestPartnershipService_GetPartnership tests reading persisted partnerships.
func TestPartnershipService_GetPartnership(t *testing.T) {
	ctx := context.Background()

	t.Run("returns persisted shares in order", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, partners := testutil.CreatePartnership(t, db, 4000)

		// Execute
		p, err := svc.GetPartnership(ctx, billboard.ID)

		// Assert
		require.NoError(t, err)
		assert.True(t, p.IsPartnership)
		assert.Equal(t, 5000.0, p.TotalCapital)
		assert.Equal(t, 4000.0, p.CapitalRemaining)
		assert.Equal(t, 20.0, p.RecoveredPct)
		assert.Equal(t, allocation.RegimePreRecovery, p.ActiveRegime)
		require.Len(t, p.Partners, 2)
		assert.Equal(t, partners[0].ID, p.Partners[0].PartnerID)
		assert.Equal(t, "Alice", p.Partners[0].PartnerName)
		assert.NotEmpty(t, p.Partners[0].ID)
		assert.Equal(t, 100.0, p.PreSum)
		assert.Equal(t, 100.0, p.PostSum)
	})

	t.Run("unknown billboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())

		_, err := svc.GetPartnership(ctx, testutil.MakeID())

		assert.ErrorIs(t, err, apperrors.ErrBillboardNotFound)
	})
}

// TestPartnershipService_DraftEditing tests the draft editing operations and Save.
func TestPartnershipService_DraftEditing(t *testing.T) {
	ctx := context.Background()

	t.Run("adding partners splits remainders equally and save persists", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		svc := testutil.NewTestPartnershipService(t, db, pub)
		billboard := testutil.NewBillboard().Build(t, db)
		alice := testutil.CreatePartner(t, db, "Alice")
		bob := testutil.CreatePartner(t, db, "Bob")

		// Execute
		d, err := svc.AddPartner(ctx, billboard.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 35.0, d.Partners[0].PrePct)
		assert.Equal(t, 60.0, d.Partners[0].PostPct)

		d, err = svc.AddPartner(ctx, billboard.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, d.Dirty)

		_, err = svc.SetCapital(ctx, billboard.ID, 5000, 5000)
		require.NoError(t, err)

		saved, err := svc.Save(ctx, billboard.ID)

		// Assert
		require.NoError(t, err)
		assert.True(t, saved.IsPartnership)
		require.Len(t, saved.Partners, 2)
		for _, p := range saved.Partners {
			assert.Equal(t, 17.5, p.PrePct)
			assert.Equal(t, 30.0, p.PostPct)
		}
		assert.Equal(t, 5000.0, saved.CapitalRemaining)

		var names string
		require.NoError(t, db.QueryRow(`SELECT partner_names FROM billboard WHERE id = ?`, billboard.ID).Scan(&names))
		assert.JSONEq(t, `["Alice","Bob"]`, names)

		draft, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.False(t, draft.Dirty)
		assert.Contains(t, pub.Keys(), events.PartnershipSaved)
	})

	t.Run("knobs redistribute across partners", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		d, err := svc.SetCompanyPre(ctx, billboard.ID, 40)
		require.NoError(t, err)
		assert.Equal(t, 40.0, d.CompanyPrePct)
		assert.Equal(t, 15.0, d.Partners[0].PrePct)
		assert.Equal(t, 15.0, d.Partners[1].PrePct)

		d, err = svc.SetCapitalDeduction(ctx, billboard.ID, 90)
		require.NoError(t, err)
		assert.Equal(t, 60.0, d.CapitalDeductionPct)
		assert.Equal(t, 0.0, d.Partners[0].PrePct)

		d, err = svc.SetCompanyPost(ctx, billboard.ID, 50)
		require.NoError(t, err)
		assert.Equal(t, 25.0, d.Partners[1].PostPct)
		assert.Equal(t, 100.0, d.PreSum)
		assert.Equal(t, 100.0, d.PostSum)
	})

	t.Run("unknown and duplicate partners are refused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, partners := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.AddPartner(ctx, billboard.ID, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrPartnerNotFound)

		_, err = svc.AddPartner(ctx, billboard.ID, partners[0].ID)
		assert.ErrorIs(t, err, allocation.ErrDuplicatePartner)

		d, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Len(t, d.Partners, 2)
		assert.False(t, d.Dirty)
	})

	t.Run("save refuses a draft without partners and keeps it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, partners := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.RemovePartner(ctx, billboard.ID, partners[0].ID)
		require.NoError(t, err)
		_, err = svc.RemovePartner(ctx, billboard.ID, partners[1].ID)
		require.NoError(t, err)

		_, err = svc.Save(ctx, billboard.ID)

		assert.ErrorIs(t, err, allocation.ErrNoPartners)
		assert.Equal(t, 2, shareCount(db, billboard.ID))

		d, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.True(t, d.Dirty)
		assert.NotEmpty(t, d.LastError)
	})

	t.Run("save clamps remaining capital to the total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.SetCapital(ctx, billboard.ID, 1000, 5000)
		require.NoError(t, err)

		saved, err := svc.Save(ctx, billboard.ID)

		require.NoError(t, err)
		assert.Equal(t, 1000.0, saved.TotalCapital)
		assert.Equal(t, 1000.0, saved.CapitalRemaining)
	})

	t.Run("save picks up renamed and refuses deleted partners", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard := testutil.NewBillboard().WithCapital(5000, 5000).Build(t, db)
		alice := testutil.CreatePartner(t, db, "Alice")
		bob := testutil.CreatePartner(t, db, "Bob")

		_, err := svc.AddPartner(ctx, billboard.ID, alice.ID)
		require.NoError(t, err)
		_, err = svc.AddPartner(ctx, billboard.ID, bob.ID)
		require.NoError(t, err)

		_, err = db.Exec(`UPDATE partner SET name = 'Alicia' WHERE id = ?`, alice.ID)
		require.NoError(t, err)

		saved, err := svc.Save(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", saved.Partners[0].PartnerName)

		_, err = db.Exec(`DELETE FROM partner_share WHERE partner_id = ?`, bob.ID)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM partner WHERE id = ?`, bob.ID)
		require.NoError(t, err)

		_, err = svc.Save(ctx, billboard.ID)
		assert.ErrorIs(t, err, apperrors.ErrPartnerNotFound)
	})

	t.Run("save without draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.Save(ctx, billboard.ID)

		assert.ErrorIs(t, err, apperrors.ErrNoDraft)
	})
}

// TestPartnershipService_Autosave tests the debounced save of drafts.
func TestPartnershipService_Autosave(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft is saved after the edits settle", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard := testutil.NewBillboard().Build(t, db)
		alice := testutil.CreatePartner(t, db, "Alice")
		bob := testutil.CreatePartner(t, db, "Bob")

		// Execute
		_, err := svc.AddPartner(ctx, billboard.ID, alice.ID)
		require.NoError(t, err)
		_, err = svc.AddPartner(ctx, billboard.ID, bob.ID)
		require.NoError(t, err)

		// Assert
		assert.Eventually(t, func() bool {
			return shareCount(db, billboard.ID) == 2
		}, 2*time.Second, 10*time.Millisecond)

		assert.Eventually(t, func() bool {
			d, err := svc.Draft(ctx, billboard.ID)
			return err == nil && !d.Dirty
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("unbalanced draft is kept with the validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard := testutil.NewBillboard().Build(t, db)

		_, err := svc.SetCompanyPre(ctx, billboard.ID, 10)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			d, err := svc.Draft(ctx, billboard.ID)
			return err == nil && d.LastError != ""
		}, 2*time.Second, 10*time.Millisecond)

		d, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.True(t, d.Dirty)
		assert.Equal(t, 10.0, d.CompanyPrePct)
	})

	t.Run("flush persists pending edits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.SetCompanyPost(ctx, billboard.ID, 50)
		require.NoError(t, err)
		svc.Flush()

		assert.Eventually(t, func() bool {
			var post float64
			err := db.QueryRow(`SELECT company_post_pct FROM billboard WHERE id = ?`, billboard.ID).Scan(&post)
			return err == nil && post == 50
		}, 2*time.Second, 10*time.Millisecond)
	})
}

// TestPartnershipService_Discard tests dropping drafts.
func TestPartnershipService_Discard(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
	billboard := testutil.NewBillboard().Build(t, db)

	assert.ErrorIs(t, svc.Discard(billboard.ID), apperrors.ErrNoDraft)

	_, err := svc.SetCompanyPre(ctx, billboard.ID, 10)
	require.NoError(t, err)
	require.NoError(t, svc.Discard(billboard.ID))

	d, err := svc.Draft(ctx, billboard.ID)
	require.NoError(t, err)
	assert.Equal(t, 35.0, d.CompanyPrePct)
	assert.False(t, d.Dirty)
}

// TestPartnershipService_Deactivate tests turning a partnership off.
func TestPartnershipService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("removes shares and resets capital", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		svc := testutil.NewTestPartnershipService(t, db, pub)
		billboard, _ := testutil.CreatePartnership(t, db, 3000)

		require.NoError(t, svc.Deactivate(ctx, billboard.ID))

		p, err := svc.GetPartnership(ctx, billboard.ID)
		require.NoError(t, err)
		assert.False(t, p.IsPartnership)
		assert.Empty(t, p.Partners)
		assert.Zero(t, p.TotalCapital)
		assert.Zero(t, p.CapitalRemaining)
		assert.Equal(t, 0, shareCount(db, billboard.ID))
		assert.Equal(t, []string{events.PartnershipDeactivated}, pub.Keys())
	})

	t.Run("unknown billboard", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())

		assert.ErrorIs(t, svc.Deactivate(ctx, testutil.MakeID()), apperrors.ErrBillboardNotFound)
	})
}

// TestPartnershipService_SaveRaces tests saves that overlap edits and revenue.
func TestPartnershipService_SaveRaces(t *testing.T) {
	ctx := context.Background()

	t.Run("edit made during a blocked save is kept", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 4000)

		_, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)

		// hold the write lock so the save waits inside its transaction
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
		require.NoError(t, err)

		// Execute
		saveErr := make(chan error, 1)
		go func() {
			_, err := svc.Save(ctx, billboard.ID)
			saveErr <- err
		}()
		time.Sleep(100 * time.Millisecond)

		_, err = svc.SetCapital(ctx, billboard.ID, 9000, 9000)
		require.NoError(t, err)

		_, err = conn.ExecContext(ctx, "ROLLBACK")
		require.NoError(t, err)
		require.NoError(t, <-saveErr)

		// Assert
		d, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 9000.0, d.TotalCapital)
		assert.Equal(t, 9000.0, d.CapitalRemaining)

		assert.Eventually(t, func() bool {
			var total, remaining float64
			err := db.QueryRow(`SELECT total_capital, capital_remaining FROM billboard WHERE id = ?`, billboard.ID).
				Scan(&total, &remaining)
			return err == nil && total == 9000 && remaining == 9000
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("save does not restore capital recovered after the draft opened", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		pub := testutil.NewRecordingPublisher()
		svc := testutil.NewTestPartnershipService(t, db, pub)
		// no observer, so the open draft keeps the old remaining capital
		revenue := testutil.NewTestRevenueService(t, db, pub, nil)
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.Draft(ctx, billboard.ID)
		require.NoError(t, err)
		_, err = revenue.PostRevenue(ctx, billboard.ID, 1000, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		// Execute
		_, err = svc.SetCompanyPost(ctx, billboard.ID, 50)
		require.NoError(t, err)
		saved, err := svc.Save(ctx, billboard.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 50.0, saved.CompanyPostPct)
		assert.Equal(t, 4700.0, saved.CapitalRemaining)
		assert.Equal(t, 5000.0, saved.TotalCapital)
	})

	t.Run("concurrent saves leave the latest draft persisted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPartnershipService(t, db, testutil.NewRecordingPublisher())
		billboard, _ := testutil.CreatePartnership(t, db, 5000)

		_, err := svc.SetCompanyPost(ctx, billboard.ID, 50)
		require.NoError(t, err)

		errs := make(chan error, 4)
		for i := 0; i < 4; i++ {
			go func() {
				_, err := svc.Save(ctx, billboard.ID)
				errs <- err
			}()
		}
		for i := 0; i < 4; i++ {
			require.NoError(t, <-errs)
		}

		p, err := svc.GetPartnership(ctx, billboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, p.CompanyPostPct)
		require.Len(t, p.Partners, 2)
		assert.Equal(t, 25.0, p.Partners[0].PostPct)
		assert.Equal(t, 2, shareCount(db, billboard.ID))
	})
}
