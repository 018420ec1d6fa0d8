package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/debounce"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// autosaveTimeout bounds a single debounced save.
const autosaveTimeout = 30 * time.Second

// draft is the in-memory editing state of one billboard's partnership.
type draft struct {
	billboard model.Billboard
	alloc     *allocation.Allocator
	account   allocation.CapitalAccount
	names     map[string]string
	version   uint64
	dirty     bool
	lastErr   string

	// capitalEdited marks a capital account change not yet persisted. Saves
	// without it leave the stored capital to revenue postings.
	capitalEdited bool
	// capitalSyncs counts revenue updates applied to the open draft.
	capitalSyncs uint64
}

// PartnershipService handles partnership editing and persistence.
//
// Edits are applied to a per-billboard draft and saved after the draft has been
// quiet for the debounce delay. Save persists immediately.
type PartnershipService struct {
	db            *sql.DB
	billboardRepo *repository.BillboardRepository
	shareRepo     *repository.PartnerShareRepository
	partnerRepo   *repository.PartnerRepository
	publisher     events.Publisher
	debouncer     *debounce.Debouncer
	log           *logrus.Entry

	mu        sync.Mutex
	drafts    map[string]*draft
	saveLocks map[string]*sync.Mutex
}

// NewPartnershipService creates a new PartnershipService with the provided repository dependencies.
func NewPartnershipService(
	db *sql.DB,
	billboardRepo *repository.BillboardRepository,
	shareRepo *repository.PartnerShareRepository,
	partnerRepo *repository.PartnerRepository,
	publisher events.Publisher,
	saveDebounce time.Duration,
) *PartnershipService {
	return &PartnershipService{
		db:            db,
		billboardRepo: billboardRepo,
		shareRepo:     shareRepo,
		partnerRepo:   partnerRepo,
		publisher:     publisher,
		debouncer:     debounce.New(saveDebounce),
		log:           logging.For("partnership"),
		drafts:        make(map[string]*draft),
		saveLocks:     make(map[string]*sync.Mutex),
	}
}

// saveLock returns the mutex serializing writes of one billboard's partnership.
func (s *PartnershipService) saveLock(billboardID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.saveLocks[billboardID]
	if !ok {
		l = &sync.Mutex{}
		s.saveLocks[billboardID] = l
	}
	return l
}

// load reads a billboard and its shares concurrently.
func (s *PartnershipService) load(ctx context.Context, billboardID string) (model.Billboard, []model.PartnerShare, error) {
	var billboard model.Billboard
	var shares []model.PartnerShare

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		billboard, err = s.billboardRepo.GetBillboard(gctx, billboardID)
		return err
	})
	g.Go(func() error {
		var err error
		shares, err = s.shareRepo.GetShares(gctx, billboardID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Billboard{}, nil, err
	}
	return billboard, shares, nil
}

// GetPartnership returns the persisted partnership of a billboard.
// Returns ErrBillboardNotFound if the billboard does not exist.
func (s *PartnershipService) GetPartnership(ctx context.Context, billboardID string) (model.Partnership, error) {
	billboard, shares, err := s.load(ctx, billboardID)
	if err != nil {
		return model.Partnership{}, err
	}

	names := make(map[string]string, len(shares))
	for _, sh := range shares {
		names[sh.PartnerID] = sh.PartnerName
	}

	p := buildPartnership(billboard, allocatorFor(billboard, shares), billboard.CapitalAccount().Normalize(), names)
	for i := range p.Partners {
		p.Partners[i].ID = shares[i].ID
	}
	return p, nil
}

// getDraft returns the open draft for a billboard, opening one from the
// persisted state on first use. Callers must not hold s.mu.
func (s *PartnershipService) getDraft(ctx context.Context, billboardID string) (*draft, error) {
	s.mu.Lock()
	d, ok := s.drafts[billboardID]
	s.mu.Unlock()
	if ok {
		return d, nil
	}

	billboard, shares, err := s.load(ctx, billboardID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(shares))
	for _, sh := range shares {
		names[sh.PartnerID] = sh.PartnerName
	}

	fresh := &draft{
		billboard: billboard,
		alloc:     allocatorFor(billboard, shares),
		account:   billboard.CapitalAccount(),
		names:     names,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have opened it meanwhile
	if d, ok := s.drafts[billboardID]; ok {
		return d, nil
	}
	s.drafts[billboardID] = fresh
	return fresh, nil
}

// view renders a draft. Callers must hold s.mu.
func (d *draft) view() model.Draft {
	return model.Draft{
		Partnership: buildPartnership(d.billboard, d.alloc, d.account, d.names),
		Dirty:       d.dirty,
		LastError:   d.lastErr,
	}
}

// Draft returns the editing state of a billboard's partnership.
func (s *PartnershipService) Draft(ctx context.Context, billboardID string) (model.Draft, error) {
	d, err := s.getDraft(ctx, billboardID)
	if err != nil {
		return model.Draft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return d.view(), nil
}

// edit applies fn to the draft and schedules a debounced save.
func (s *PartnershipService) edit(ctx context.Context, billboardID string, fn func(d *draft) error) (model.Draft, error) {
	d, err := s.getDraft(ctx, billboardID)
	if err != nil {
		return model.Draft{}, err
	}

	s.mu.Lock()
	if err := fn(d); err != nil {
		s.mu.Unlock()
		return model.Draft{}, err
	}
	d.version++
	d.dirty = true
	view := d.view()
	s.mu.Unlock()

	s.debouncer.Trigger(billboardID, func() { s.autosave(billboardID) })
	return view, nil
}

// SetCompanyPre sets the company's pre-recovery percentage of the draft.
func (s *PartnershipService) SetCompanyPre(ctx context.Context, billboardID string, value float64) (model.Draft, error) {
	return s.edit(ctx, billboardID, func(d *draft) error {
		d.alloc.SetCompanyPrePct(value)
		return nil
	})
}

// SetCapitalDeduction sets the capital deduction percentage of the draft.
func (s *PartnershipService) SetCapitalDeduction(ctx context.Context, billboardID string, value float64) (model.Draft, error) {
	return s.edit(ctx, billboardID, func(d *draft) error {
		d.alloc.SetCapitalDeductionPct(value)
		return nil
	})
}

// SetCompanyPost sets the company's post-recovery percentage of the draft.
func (s *PartnershipService) SetCompanyPost(ctx context.Context, billboardID string, value float64) (model.Draft, error) {
	return s.edit(ctx, billboardID, func(d *draft) error {
		d.alloc.SetCompanyPostPct(value)
		return nil
	})
}

// SetCapital edits the draft's capital account. Negative input is floored at zero;
// the remaining amount is clamped to the total when saved.
func (s *PartnershipService) SetCapital(ctx context.Context, billboardID string, total, remaining float64) (model.Draft, error) {
	return s.edit(ctx, billboardID, func(d *draft) error {
		d.account = allocation.CapitalAccount{
			TotalCapital:     allocation.NonNegative(total),
			CapitalRemaining: allocation.NonNegative(remaining),
		}
		d.capitalEdited = true
		return nil
	})
}

// AddPartner attaches an existing partner to the draft.
// Returns ErrPartnerNotFound for unknown partners and allocation.ErrDuplicatePartner
// when the partner is already attached.
func (s *PartnershipService) AddPartner(ctx context.Context, billboardID, partnerID string) (model.Draft, error) {
	partner, err := s.partnerRepo.GetPartner(ctx, partnerID)
	if err != nil {
		return model.Draft{}, err
	}

	return s.edit(ctx, billboardID, func(d *draft) error {
		if err := d.alloc.AddPartner(partner.ID); err != nil {
			return err
		}
		d.names[partner.ID] = partner.Name
		return nil
	})
}

// RemovePartner detaches a partner from the draft. Unknown partners are ignored.
func (s *PartnershipService) RemovePartner(ctx context.Context, billboardID, partnerID string) (model.Draft, error) {
	return s.edit(ctx, billboardID, func(d *draft) error {
		d.alloc.RemovePartner(partnerID)
		delete(d.names, partnerID)
		return nil
	})
}

// Discard drops the draft and any pending save.
// Returns ErrNoDraft if no draft is open.
func (s *PartnershipService) Discard(billboardID string) error {
	s.debouncer.Cancel(billboardID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[billboardID]; !ok {
		return apperrors.ErrNoDraft
	}
	delete(s.drafts, billboardID)
	return nil
}

// Save validates and persists the draft immediately, cancelling any pending
// debounced save. The draft stays open and clean afterwards.
// Returns ErrNoDraft if no draft is open, and allocation validation errors
// when the draft cannot be persisted.
func (s *PartnershipService) Save(ctx context.Context, billboardID string) (model.Partnership, error) {
	s.debouncer.Cancel(billboardID)

	if err := s.persist(ctx, billboardID); err != nil {
		return model.Partnership{}, err
	}
	return s.GetPartnership(ctx, billboardID)
}

// Flush runs every pending debounced save. Used on shutdown.
func (s *PartnershipService) Flush() {
	s.debouncer.FlushAll()
}

// SyncCapitalRemaining updates an open draft after revenue changed the persisted
// capital, so a later save does not restore the old figure.
func (s *PartnershipService) SyncCapitalRemaining(billboardID string, remaining float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[billboardID]; ok {
		d.account.CapitalRemaining = remaining
		d.billboard.CapitalRemaining = remaining
		d.capitalSyncs++
	}
}

func (s *PartnershipService) autosave(billboardID string) {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	if err := s.persist(ctx, billboardID); err != nil {
		if errors.Is(err, apperrors.ErrNoDraft) {
			return
		}
		s.log.WithField("billboard_id", billboardID).WithError(err).Warn("autosave skipped, draft kept")
	}
}

// persist writes the draft as the billboard's partnership in one transaction.
// Writes of the same billboard run one at a time. The capital account is only
// written when it was edited in the draft.
func (s *PartnershipService) persist(ctx context.Context, billboardID string) error {
	lock := s.saveLock(billboardID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	d, ok := s.drafts[billboardID]
	if !ok {
		s.mu.Unlock()
		return apperrors.ErrNoDraft
	}
	alloc := d.alloc.Clone()
	account := d.account.Normalize()
	billboard := d.billboard
	version := d.version
	capitalEdited := d.capitalEdited
	syncs := d.capitalSyncs
	s.mu.Unlock()

	if err := alloc.Validate(); err != nil {
		s.recordError(billboardID, version, err)
		return err
	}

	// Partners may have been renamed or deleted since they were added to the draft.
	ids := make([]string, 0, len(alloc.Partners))
	for _, p := range alloc.Partners {
		ids = append(ids, p.PartnerID)
	}
	registry, err := s.partnerRepo.GetPartnersByIDs(ctx, ids)
	if err != nil {
		s.recordError(billboardID, version, err)
		return err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		partner, ok := registry[id]
		if !ok {
			err := fmt.Errorf("%w: %s", apperrors.ErrPartnerNotFound, id)
			s.recordError(billboardID, version, err)
			return err
		}
		names = append(names, partner.Name)
	}

	billboard.IsPartnership = true
	billboard.PartnerNames = names
	billboard.TotalCapital = account.TotalCapital
	billboard.CapitalRemaining = account.CapitalRemaining
	billboard.CompanyPrePct = alloc.CompanyPrePct
	billboard.CapitalDeductionPct = alloc.CapitalDeductionPct
	billboard.CompanyPostPct = alloc.CompanyPostPct

	shares := make([]model.PartnerShare, 0, len(alloc.Partners))
	for _, p := range alloc.Partners {
		shares = append(shares, model.PartnerShare{PartnerID: p.PartnerID, PrePct: p.PrePct, PostPct: p.PostPct})
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		billboardRepo := s.billboardRepo.WithTx(tx)
		update := billboardRepo.UpdatePartnershipTerms
		if capitalEdited {
			update = billboardRepo.UpdatePartnership
		}
		if err := update(ctx, billboard); err != nil {
			return err
		}
		return s.shareRepo.WithTx(tx).ReplaceShares(ctx, billboardID, shares)
	})
	if err != nil {
		s.recordError(billboardID, version, err)
		return fmt.Errorf("failed to persist partnership: %w", err)
	}

	s.mu.Lock()
	if d, ok := s.drafts[billboardID]; ok {
		for id, partner := range registry {
			if _, attached := d.names[id]; attached {
				d.names[id] = partner.Name
			}
		}
		d.billboard.IsPartnership = true
		// edits made during the write stay pending for the next save
		if d.version == version {
			if capitalEdited && d.capitalSyncs == syncs {
				d.account = account
			}
			d.billboard = billboard
			d.billboard.TotalCapital = d.account.TotalCapital
			d.billboard.CapitalRemaining = d.account.CapitalRemaining
			d.capitalEdited = false
			d.dirty = false
			d.lastErr = ""
		}
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"billboard_id": billboardID,
		"partners":     len(shares),
	}).Info("partnership saved")

	events.Emit(ctx, s.publisher, events.PartnershipSaved, map[string]any{
		"billboardId":  billboardID,
		"partnerNames": names,
	})
	return nil
}

func (s *PartnershipService) recordError(billboardID string, version uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[billboardID]; ok && d.version == version {
		d.lastErr = err.Error()
	}
}

// Deactivate removes every partner share, zeroes the capital account and clears
// the partnership flag. Any open draft is dropped.
// Returns ErrBillboardNotFound if the billboard does not exist.
func (s *PartnershipService) Deactivate(ctx context.Context, billboardID string) error {
	s.debouncer.Cancel(billboardID)

	lock := s.saveLock(billboardID)
	lock.Lock()
	defer lock.Unlock()

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		billboardRepo := s.billboardRepo.WithTx(tx)
		billboard, err := billboardRepo.GetBillboard(ctx, billboardID)
		if err != nil {
			return err
		}

		if err := s.shareRepo.WithTx(tx).DeleteShares(ctx, billboardID); err != nil {
			return err
		}

		billboard.IsPartnership = false
		billboard.PartnerNames = []string{}
		billboard.TotalCapital = 0
		billboard.CapitalRemaining = 0
		return billboardRepo.UpdatePartnership(ctx, billboard)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.drafts, billboardID)
	s.mu.Unlock()

	s.log.WithField("billboard_id", billboardID).Info("partnership deactivated")
	events.Emit(ctx, s.publisher, events.PartnershipDeactivated, map[string]string{"billboardId": billboardID})
	return nil
}
