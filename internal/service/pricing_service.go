package service

import (
	"context"
	"database/sql"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
)

// PricingService handles rental pricing of companies renting billboards by size.
type PricingService struct {
	db          *sql.DB
	pricingRepo *repository.PricingRepository
	publisher   events.Publisher
}

// NewPricingService creates a new PricingService with the provided repository dependencies.
func NewPricingService(db *sql.DB, pricingRepo *repository.PricingRepository, publisher events.Publisher) *PricingService {
	return &PricingService{
		db:          db,
		pricingRepo: pricingRepo,
		publisher:   publisher,
	}
}

// GetCompanies returns every pricing company.
func (s *PricingService) GetCompanies(ctx context.Context) ([]model.PricingCompany, error) {
	return s.pricingRepo.GetCompanies(ctx)
}

// GetCompanyPricing returns a company's size groups with unit and value totals.
// Returns ErrPricingCompanyNotFound if the company does not exist.
func (s *PricingService) GetCompanyPricing(ctx context.Context, companyID string) (model.CompanyPricing, error) {
	company, err := s.pricingRepo.GetCompany(ctx, companyID)
	if err != nil {
		return model.CompanyPricing{}, err
	}

	groups, err := s.pricingRepo.GetSizeGroups(ctx, companyID)
	if err != nil {
		return model.CompanyPricing{}, err
	}

	return pricingOf(company, groups), nil
}

// ApplyManualTotal rescales the company's per-unit prices so their aggregate
// approximates targetTotal, and persists the new prices.
// The result reports the rounding drift between the new total and the target.
//
// Returns ErrInvalidTargetTotal when the target is not positive or the company has
// nothing to spread it over.
func (s *PricingService) ApplyManualTotal(ctx context.Context, companyID string, targetTotal float64) (model.ManualTotalResult, error) {
	company, err := s.pricingRepo.GetCompany(ctx, companyID)
	if err != nil {
		return model.ManualTotalResult{}, err
	}

	groups, err := s.pricingRepo.GetSizeGroups(ctx, companyID)
	if err != nil {
		return model.ManualTotalResult{}, err
	}

	if !allocation.ApplyManualTotal(groups, targetTotal) {
		return model.ManualTotalResult{}, apperrors.ErrInvalidTargetTotal
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.pricingRepo.WithTx(tx).UpdateUnitPrices(ctx, groups)
	})
	if err != nil {
		return model.ManualTotalResult{}, err
	}

	result := model.ManualTotalResult{
		CompanyPricing: pricingOf(company, groups),
		Target:         round(targetTotal),
	}
	result.Drift = round(result.Total - result.Target)

	events.Emit(ctx, s.publisher, events.PricingUpdated, result)
	return result, nil
}

func pricingOf(company model.PricingCompany, groups []allocation.SizeGroup) model.CompanyPricing {
	return model.CompanyPricing{
		Company: company,
		Groups:  groups,
		Units:   allocation.UnitsOf(groups),
		Total:   round(allocation.TotalOf(groups)),
	}
}
