package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
)

// BillboardService handles billboard inventory operations.
type BillboardService struct {
	billboardRepo *repository.BillboardRepository
}

// NewBillboardService creates a new BillboardService with the provided repository dependencies.
func NewBillboardService(billboardRepo *repository.BillboardRepository) *BillboardService {
	return &BillboardService{billboardRepo: billboardRepo}
}

// GetBillboards returns billboards matching filter.
func (s *BillboardService) GetBillboards(ctx context.Context, filter model.BillboardFilter) ([]model.Billboard, error) {
	return s.billboardRepo.GetBillboards(ctx, filter)
}

// GetBillboard returns a single billboard.
func (s *BillboardService) GetBillboard(ctx context.Context, billboardID string) (model.Billboard, error) {
	return s.billboardRepo.GetBillboard(ctx, billboardID)
}

// CreateBillboard adds a billboard with the default percentage knobs.
func (s *BillboardService) CreateBillboard(ctx context.Context, req request.CreateBillboardRequest) (*model.Billboard, error) {
	billboard := newBillboard(req.Name, req.Size, req.Location, req.Municipality)

	if err := s.billboardRepo.InsertBillboard(ctx, billboard); err != nil {
		return nil, err
	}
	return billboard, nil
}

func newBillboard(name, size, location, municipality string) *model.Billboard {
	return &model.Billboard{
		ID:                  uuid.New().String(),
		Name:                name,
		Size:                size,
		Location:            location,
		Municipality:        municipality,
		PartnerNames:        []string{},
		CompanyPrePct:       DefaultCompanyPrePct,
		CapitalDeductionPct: DefaultCapitalDeductionPct,
		CompanyPostPct:      DefaultCompanyPostPct,
		CreatedAt:           time.Now().UTC(),
	}
}
