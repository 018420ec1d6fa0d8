package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/cache"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/export"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
)

// statementPostings is how many recent postings a statement lists.
const statementPostings = 100

// Statement formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Document is a rendered file.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// StatementService renders partnership statements and manages their header settings.
type StatementService struct {
	partnerships *PartnershipService
	revenue      *RevenueService
	settingRepo  *repository.SettingRepository
	formatter    *format.Formatter
	settings     *cache.Value[model.StatementSettings]
	now          func() time.Time
}

// NewStatementService creates a new StatementService. Settings are read through a
// cache that expires after settingsTTL.
func NewStatementService(
	partnerships *PartnershipService,
	revenue *RevenueService,
	settingRepo *repository.SettingRepository,
	formatter *format.Formatter,
	settingsTTL time.Duration,
) *StatementService {
	s := &StatementService{
		partnerships: partnerships,
		revenue:      revenue,
		settingRepo:  settingRepo,
		formatter:    formatter,
		now:          time.Now,
	}
	s.settings = cache.NewValue(settingsTTL, s.loadSettings)
	return s
}

func (s *StatementService) loadSettings(ctx context.Context) (model.StatementSettings, error) {
	stored, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		return model.StatementSettings{}, err
	}
	return model.StatementSettings{
		CompanyName: stored[model.SettingStatementCompanyName],
		Title:       stored[model.SettingStatementTitle],
		Footer:      stored[model.SettingStatementFooter],
	}, nil
}

// GetSettings returns the current statement settings.
func (s *StatementService) GetSettings(ctx context.Context) (model.StatementSettings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings stores new statement settings and drops the cached copy.
func (s *StatementService) UpdateSettings(ctx context.Context, settings model.StatementSettings) (model.StatementSettings, error) {
	err := s.settingRepo.Upsert(ctx, map[string]string{
		model.SettingStatementCompanyName: strings.TrimSpace(settings.CompanyName),
		model.SettingStatementTitle:       strings.TrimSpace(settings.Title),
		model.SettingStatementFooter:      strings.TrimSpace(settings.Footer),
	})
	if err != nil {
		return model.StatementSettings{}, err
	}

	s.settings.Invalidate()
	return s.settings.Get(ctx)
}

// PartnershipStatement renders the persisted partnership of a billboard with its
// most recent revenue postings.
// Returns ErrUnsupportedFormat for formats other than pdf and xlsx, and
// ErrNotAPartnership when the billboard has no saved partnership.
func (s *StatementService) PartnershipStatement(ctx context.Context, billboardID, docFormat string) (Document, error) {
	docFormat = strings.ToLower(docFormat)
	if docFormat != FormatPDF && docFormat != FormatXLSX {
		return Document{}, apperrors.ErrUnsupportedFormat
	}

	partnership, err := s.partnerships.GetPartnership(ctx, billboardID)
	if err != nil {
		return Document{}, err
	}
	if !partnership.IsPartnership {
		return Document{}, apperrors.ErrNotAPartnership
	}

	postings, err := s.revenue.ListPostings(ctx, billboardID, model.PostingFilters{SortDir: "asc", PerPage: statementPostings})
	if err != nil {
		return Document{}, err
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return Document{}, err
	}

	statement := export.Statement{
		Settings:    settings,
		Partnership: partnership,
		Postings:    postings,
		GeneratedAt: s.now().UTC(),
	}

	doc := Document{Filename: fmt.Sprintf("statement-%s.%s", billboardID, docFormat)}
	switch docFormat {
	case FormatPDF:
		doc.ContentType = "application/pdf"
		doc.Body, err = export.RenderPDF(statement, s.formatter)
	case FormatXLSX:
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		doc.Body, err = export.RenderXLSX(statement, s.formatter)
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}
