package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/secret"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/service"
)

// TestSaveDebounce is the autosave delay used by test partnership services.
const TestSaveDebounce = 20 * time.Millisecond

// NewTestPartnershipService builds a PartnershipService publishing to pub.
func NewTestPartnershipService(t *testing.T, db *sql.DB, pub *RecordingPublisher) *service.PartnershipService {
	t.Helper()

	svc := service.NewPartnershipService(
		db,
		repository.NewBillboardRepository(db),
		repository.NewPartnerShareRepository(db),
		repository.NewPartnerRepository(db),
		pub,
		TestSaveDebounce,
	)
	t.Cleanup(svc.Flush)
	return svc
}

// NewTestRevenueService builds a RevenueService. observer may be nil.
func NewTestRevenueService(t *testing.T, db *sql.DB, pub *RecordingPublisher, observer service.CapitalObserver) *service.RevenueService {
	t.Helper()

	return service.NewRevenueService(
		db,
		repository.NewBillboardRepository(db),
		repository.NewPartnerShareRepository(db),
		repository.NewRevenueRepository(db),
		pub,
		observer,
	)
}

func NewTestPricingService(t *testing.T, db *sql.DB, pub *RecordingPublisher) *service.PricingService {
	t.Helper()

	return service.NewPricingService(db, repository.NewPricingRepository(db), pub)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB, pub *RecordingPublisher) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		repository.NewBillboardRepository(db),
		repository.NewPartnerShareRepository(db),
		repository.NewSnapshotRepository(db),
		pub,
	)
}

func NewTestBillboardService(t *testing.T, db *sql.DB) *service.BillboardService {
	t.Helper()

	return service.NewBillboardService(repository.NewBillboardRepository(db))
}

func NewTestImportService(t *testing.T, db *sql.DB, pub *RecordingPublisher) *service.ImportService {
	t.Helper()

	return service.NewImportService(db, repository.NewBillboardRepository(db), pub)
}

// NewTestPartnerService builds a PartnerService with a fresh secret key.
func NewTestPartnerService(t *testing.T, db *sql.DB) (*service.PartnerService, *secret.Box) {
	t.Helper()

	key, err := secret.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate secret key: %v", err)
	}
	box, err := secret.NewBox(key)
	if err != nil {
		t.Fatalf("Failed to create secret box: %v", err)
	}

	return service.NewPartnerService(
		repository.NewPartnerRepository(db),
		repository.NewPartnerShareRepository(db),
		box,
	), box
}

// NewTestStatementService builds a StatementService with English formatting and
// a one minute settings cache.
func NewTestStatementService(t *testing.T, db *sql.DB) *service.StatementService {
	t.Helper()

	pub := NewRecordingPublisher()
	partnerships := NewTestPartnershipService(t, db, pub)
	revenue := NewTestRevenueService(t, db, pub, partnerships)

	return service.NewStatementService(
		partnerships,
		revenue,
		repository.NewSettingRepository(db),
		format.New("en"),
		time.Minute,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"amqp": false, "secrets": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeBillboardName generates a unique billboard name for testing.
//
// Example usage:
//
//	name := testutil.MakeBillboardName("Airport Road")
//	// Returns: "Airport Road ABC123"
func MakeBillboardName(base string) string {
	if base == "" {
		base = "Billboard"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakePartnerName generates a unique partner name for testing.
func MakePartnerName(base string) string {
	if base == "" {
		base = "Partner"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
