package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// BillboardBuilder provides a fluent interface for creating test billboards.
//
// Example usage:
//
//	// Simple creation with defaults
//	billboard := testutil.NewBillboard().Build(t, db)
//
//	// Partnership billboard
//	billboard := testutil.NewBillboard().
//	    WithName("Airport Road").
//	    WithCapital(5000, 5000).
//	    AsPartnership("Alice", "Bob").
//	    Build(t, db)
type BillboardBuilder struct {
	b model.Billboard
}

// NewBillboard creates a BillboardBuilder with sensible defaults.
func NewBillboard() *BillboardBuilder {
	return &BillboardBuilder{b: model.Billboard{
		ID:                  MakeID(),
		Name:                MakeBillboardName("Billboard"),
		Size:                "4x12",
		Location:            "Main Road",
		Municipality:        "Tripoli",
		PartnerNames:        []string{},
		CompanyPrePct:       35,
		CapitalDeductionPct: 30,
		CompanyPostPct:      40,
		CreatedAt:           time.Now().UTC(),
	}}
}

// WithID sets a custom ID.
func (b *BillboardBuilder) WithID(id string) *BillboardBuilder {
	b.b.ID = id
	return b
}

// WithName sets a custom name.
func (b *BillboardBuilder) WithName(name string) *BillboardBuilder {
	b.b.Name = name
	return b
}

// WithMunicipality sets the municipality.
func (b *BillboardBuilder) WithMunicipality(m string) *BillboardBuilder {
	b.b.Municipality = m
	return b
}

// WithCapital sets the capital account.
func (b *BillboardBuilder) WithCapital(total, remaining float64) *BillboardBuilder {
	b.b.TotalCapital = total
	b.b.CapitalRemaining = remaining
	return b
}

// WithKnobs sets the company and capital deduction percentages.
func (b *BillboardBuilder) WithKnobs(companyPre, capitalDeduction, companyPost float64) *BillboardBuilder {
	b.b.CompanyPrePct = companyPre
	b.b.CapitalDeductionPct = capitalDeduction
	b.b.CompanyPostPct = companyPost
	return b
}

// AsPartnership marks the billboard as a partnership with the given partner names.
func (b *BillboardBuilder) AsPartnership(partnerNames ...string) *BillboardBuilder {
	b.b.IsPartnership = true
	b.b.PartnerNames = append([]string{}, partnerNames...)
	return b
}

// Build creates the billboard in the database and returns it.
func (b *BillboardBuilder) Build(t *testing.T, db *sql.DB) model.Billboard {
	t.Helper()

	names, err := json.Marshal(b.b.PartnerNames)
	if err != nil {
		t.Fatalf("Failed to encode partner names: %v", err)
	}

	query := `
		INSERT INTO billboard (
			id, name, size, location, municipality, is_partnership, partner_names,
			total_capital, capital_remaining, company_pre_pct, capital_deduction_pct,
			company_post_pct, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		b.b.ID, b.b.Name, b.b.Size, b.b.Location, b.b.Municipality, b.b.IsPartnership, string(names),
		b.b.TotalCapital, b.b.CapitalRemaining, b.b.CompanyPrePct, b.b.CapitalDeductionPct,
		b.b.CompanyPostPct, b.b.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create test billboard: %v", err)
	}

	return b.b
}

// PartnerBuilder provides a fluent interface for creating test partners.
type PartnerBuilder struct {
	p model.Partner
}

// NewPartner creates a PartnerBuilder with sensible defaults.
func NewPartner() *PartnerBuilder {
	return &PartnerBuilder{p: model.Partner{
		ID:        MakeID(),
		Name:      MakePartnerName("Partner"),
		Phone:     "+218 91 000 0000",
		CreatedAt: time.Now().UTC(),
	}}
}

// WithName sets a custom name.
func (b *PartnerBuilder) WithName(name string) *PartnerBuilder {
	b.p.Name = name
	return b
}

// WithBankAccountEnc sets the stored, already encrypted bank account.
func (b *PartnerBuilder) WithBankAccountEnc(enc string) *PartnerBuilder {
	b.p.BankAccountEnc = enc
	return b
}

// Build creates the partner in the database and returns it.
func (b *PartnerBuilder) Build(t *testing.T, db *sql.DB) model.Partner {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO partner (id, name, phone, bank_account_enc, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.p.ID, b.p.Name, b.p.Phone, b.p.BankAccountEnc, b.p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test partner: %v", err)
	}

	return b.p
}

// CreatePartner creates a partner with the given name.
func CreatePartner(t *testing.T, db *sql.DB, name string) model.Partner {
	t.Helper()
	return NewPartner().WithName(name).Build(t, db)
}

// ShareBuilder provides a fluent interface for attaching partners to billboards.
type ShareBuilder struct {
	s        model.PartnerShare
	position int
}

// NewShare creates a ShareBuilder for the given billboard and partner.
func NewShare(billboardID, partnerID string) *ShareBuilder {
	return &ShareBuilder{s: model.PartnerShare{
		ID:          MakeID(),
		BillboardID: billboardID,
		PartnerID:   partnerID,
	}}
}

// WithPcts sets the pre- and post-recovery percentages.
func (b *ShareBuilder) WithPcts(pre, post float64) *ShareBuilder {
	b.s.PrePct = pre
	b.s.PostPct = post
	return b
}

// WithPosition sets the display order.
func (b *ShareBuilder) WithPosition(position int) *ShareBuilder {
	b.position = position
	return b
}

// Build creates the share in the database and returns it.
func (b *ShareBuilder) Build(t *testing.T, db *sql.DB) model.PartnerShare {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO partner_share (id, billboard_id, partner_id, position, pre_pct, post_pct)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.s.ID, b.s.BillboardID, b.s.PartnerID, b.position, b.s.PrePct, b.s.PostPct)
	if err != nil {
		t.Fatalf("Failed to create test partner share: %v", err)
	}

	return b.s
}

// CreatePartnership creates a saved partnership billboard with knobs 35/30/40,
// capital 5000 of which remaining is still unrecovered, and two partners holding
// 17.5% before and 30% after recovery each.
//
// Example usage:
//
//	billboard, partners := testutil.CreatePartnership(t, db, 5000)
func CreatePartnership(t *testing.T, db *sql.DB, remaining float64) (model.Billboard, []model.Partner) {
	t.Helper()

	alice := CreatePartner(t, db, "Alice")
	bob := CreatePartner(t, db, "Bob")

	billboard := NewBillboard().
		WithCapital(5000, remaining).
		AsPartnership(alice.Name, bob.Name).
		Build(t, db)

	NewShare(billboard.ID, alice.ID).WithPcts(17.5, 30).WithPosition(0).Build(t, db)
	NewShare(billboard.ID, bob.ID).WithPcts(17.5, 30).WithPosition(1).Build(t, db)

	return billboard, []model.Partner{alice, bob}
}

// PricingCompanyBuilder provides a fluent interface for creating pricing companies
// with their size groups.
type PricingCompanyBuilder struct {
	company model.PricingCompany
	groups  []allocation.SizeGroup
}

// NewPricingCompany creates a PricingCompanyBuilder without size groups.
func NewPricingCompany() *PricingCompanyBuilder {
	return &PricingCompanyBuilder{company: model.PricingCompany{
		ID:   MakeID(),
		Name: MakeBillboardName("Company"),
	}}
}

// WithGroup adds a size group.
func (b *PricingCompanyBuilder) WithGroup(size string, units int, perUnitPrice float64) *PricingCompanyBuilder {
	b.groups = append(b.groups, allocation.SizeGroup{
		ID:           MakeID(),
		Size:         size,
		UnitCount:    units,
		PerUnitPrice: perUnitPrice,
	})
	return b
}

// Build creates the company and its groups in the database.
func (b *PricingCompanyBuilder) Build(t *testing.T, db *sql.DB) (model.PricingCompany, []allocation.SizeGroup) {
	t.Helper()

	if _, err := db.Exec(`INSERT INTO pricing_company (id, name) VALUES (?, ?)`, b.company.ID, b.company.Name); err != nil {
		t.Fatalf("Failed to create test pricing company: %v", err)
	}

	for _, g := range b.groups {
		_, err := db.Exec(`
			INSERT INTO size_price (id, company_id, size, unit_count, unit_price)
			VALUES (?, ?, ?, ?, ?)
		`, g.ID, b.company.ID, g.Size, g.UnitCount, g.PerUnitPrice)
		if err != nil {
			t.Fatalf("Failed to create test size group: %v", err)
		}
	}

	return b.company, b.groups
}

// SnapshotBuilder provides a fluent interface for creating partnership snapshots.
type SnapshotBuilder struct {
	s model.PartnershipSnapshot
}

// NewSnapshot creates a SnapshotBuilder for a billboard dated today.
func NewSnapshot(billboardID string) *SnapshotBuilder {
	return &SnapshotBuilder{s: model.PartnershipSnapshot{
		ID:           MakeID(),
		BillboardID:  billboardID,
		Date:         time.Now().UTC().Format("2006-01-02"),
		TotalCapital: 5000,
		CalculatedAt: time.Now().UTC(),
	}}
}

// WithDate sets the snapshot date (YYYY-MM-DD).
func (b *SnapshotBuilder) WithDate(date string) *SnapshotBuilder {
	b.s.Date = date
	return b
}

// WithRemaining sets the remaining capital and derives the recovered percentage.
func (b *SnapshotBuilder) WithRemaining(remaining float64) *SnapshotBuilder {
	b.s.CapitalRemaining = remaining
	b.s.RecoveredPct = allocation.CapitalAccount{TotalCapital: b.s.TotalCapital, CapitalRemaining: remaining}.RecoveredPct()
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.PartnershipSnapshot {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO partnership_snapshot (
			id, billboard_id, date, total_capital, capital_remaining, recovered_pct,
			partner_count, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.s.ID, b.s.BillboardID, b.s.Date, b.s.TotalCapital, b.s.CapitalRemaining,
		b.s.RecoveredPct, b.s.PartnerCount, b.s.CalculatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return b.s
}
