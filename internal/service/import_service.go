package service

import (
	"context"
	"database/sql"
	"io"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/events"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/importer"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/logging"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// ImportService loads billboard inventories from spreadsheets.
type ImportService struct {
	db            *sql.DB
	billboardRepo *repository.BillboardRepository
	publisher     events.Publisher
}

// NewImportService creates a new ImportService with the provided repository dependencies.
func NewImportService(db *sql.DB, billboardRepo *repository.BillboardRepository, publisher events.Publisher) *ImportService {
	return &ImportService{
		db:            db,
		billboardRepo: billboardRepo,
		publisher:     publisher,
	}
}

// ImportBillboards inserts every named row of the first sheet in one transaction.
// Capital figures are kept. Rows marked as partnerships are imported as plain
// billboards and listed as pending, since a partnership needs partners before it
// can be persisted.
func (s *ImportService) ImportBillboards(ctx context.Context, r io.Reader) (model.ImportResult, error) {
	rows, skipped, err := importer.Parse(r)
	if err != nil {
		return model.ImportResult{}, err
	}

	imported := make([]model.Billboard, 0, len(rows))
	var pending []string
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.billboardRepo.WithTx(tx)
		for _, row := range rows {
			b := newBillboard(row.Name, row.Size, row.Location, row.Municipality)
			account := allocation.CapitalAccount{TotalCapital: row.TotalCapital, CapitalRemaining: row.CapitalRemaining}.Normalize()
			b.TotalCapital = account.TotalCapital
			b.CapitalRemaining = account.CapitalRemaining

			if err := repo.InsertBillboard(ctx, b); err != nil {
				return err
			}
			imported = append(imported, *b)
			if row.IsPartnership {
				pending = append(pending, b.ID)
			}
		}
		return nil
	})
	if err != nil {
		return model.ImportResult{}, err
	}

	logging.For("import").WithFields(logrus.Fields{
		"imported": len(imported),
		"skipped":  len(skipped),
		"pending":  len(pending),
	}).Info("billboards imported")
	events.Emit(ctx, s.publisher, events.BillboardsImported, map[string]int{
		"imported": len(imported),
		"skipped":  len(skipped),
	})

	return model.ImportResult{Imported: imported, Skipped: skipped, PendingPartnerships: pending}, nil
}
