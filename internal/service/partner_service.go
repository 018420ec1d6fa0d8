package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/api/request"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/secret"
)

// maskedUnreadable replaces bank details that cannot be decrypted with the current key.
const maskedUnreadable = "****"

// PartnerService handles partner registry operations.
// Bank account numbers are stored encrypted and only ever returned masked.
type PartnerService struct {
	partnerRepo *repository.PartnerRepository
	shareRepo   *repository.PartnerShareRepository
	box         *secret.Box
}

// NewPartnerService creates a new PartnerService. box may be nil, in which case
// bank details cannot be stored.
func NewPartnerService(
	partnerRepo *repository.PartnerRepository,
	shareRepo *repository.PartnerShareRepository,
	box *secret.Box,
) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		shareRepo:   shareRepo,
		box:         box,
	}
}

// GetPartners returns every partner.
func (s *PartnerService) GetPartners(ctx context.Context) ([]model.PartnerView, error) {
	partners, err := s.partnerRepo.GetPartners(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.PartnerView, 0, len(partners))
	for _, p := range partners {
		views = append(views, s.view(p))
	}
	return views, nil
}

// GetPartner returns a single partner.
func (s *PartnerService) GetPartner(ctx context.Context, partnerID string) (model.PartnerView, error) {
	p, err := s.partnerRepo.GetPartner(ctx, partnerID)
	if err != nil {
		return model.PartnerView{}, err
	}
	return s.view(p), nil
}

// CreatePartner registers a partner.
// Returns ErrSecretsDisabled when bank details are given without a configured key.
func (s *PartnerService) CreatePartner(ctx context.Context, req request.CreatePartnerRequest) (model.PartnerView, error) {
	enc, err := s.seal(req.BankAccount)
	if err != nil {
		return model.PartnerView{}, err
	}

	p := model.Partner{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Phone:          req.Phone,
		BankAccountEnc: enc,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.partnerRepo.InsertPartner(ctx, &p); err != nil {
		return model.PartnerView{}, err
	}
	return s.view(p), nil
}

// UpdatePartner applies the non-nil fields of req.
func (s *PartnerService) UpdatePartner(ctx context.Context, partnerID string, req request.UpdatePartnerRequest) (model.PartnerView, error) {
	p, err := s.partnerRepo.GetPartner(ctx, partnerID)
	if err != nil {
		return model.PartnerView{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.BankAccount != nil {
		enc, err := s.seal(*req.BankAccount)
		if err != nil {
			return model.PartnerView{}, err
		}
		p.BankAccountEnc = enc
	}

	if err := s.partnerRepo.UpdatePartner(ctx, &p); err != nil {
		return model.PartnerView{}, err
	}
	return s.view(p), nil
}

// DeletePartner removes a partner that holds no billboard shares.
// Returns ErrPartnerInUse otherwise.
func (s *PartnerService) DeletePartner(ctx context.Context, partnerID string) error {
	if _, err := s.partnerRepo.GetPartner(ctx, partnerID); err != nil {
		return err
	}

	n, err := s.shareRepo.CountSharesForPartner(ctx, partnerID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperrors.ErrPartnerInUse
	}
	return s.partnerRepo.DeletePartner(ctx, partnerID)
}

func (s *PartnerService) seal(bankAccount string) (string, error) {
	if bankAccount == "" {
		return "", nil
	}
	if s.box == nil {
		return "", apperrors.ErrSecretsDisabled
	}
	return s.box.Encrypt(bankAccount)
}

func (s *PartnerService) view(p model.Partner) model.PartnerView {
	v := model.PartnerView{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
	if p.BankAccountEnc == "" {
		return v
	}

	if s.box == nil {
		v.BankAccount = maskedUnreadable
		return v
	}
	plain, err := s.box.Decrypt(p.BankAccountEnc)
	if err != nil {
		logging.For("partner").WithField("partner_id", p.ID).WithError(err).Warn("stored bank account is unreadable")
		v.BankAccount = maskedUnreadable
		return v
	}
	v.BankAccount = secret.Mask(plain)
	return v
}
