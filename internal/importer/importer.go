// Package importer reads billboard inventories from spreadsheets whose column
// names differ between sources.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/fieldprobe"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrNoRows is returned for spreadsheets without a header and at least one data row.
var ErrNoRows = errors.New("file must contain a header row and at least one data row")

// Candidate column names per field, most specific first.
var (
	nameFields         = []string{"name", "billboard_name", "billboard", "title", "asset"}
	sizeFields         = []string{"size", "billboard_size", "dimensions", "format"}
	locationFields     = []string{"location", "address", "billboard_location", "site"}
	municipalityFields = []string{"municipality", "city", "district", "region"}
	capitalFields      = []string{"total_capital", "capital", "investment"}
	remainingFields    = []string{"capital_remaining", "remaining_capital", "remaining"}
	partnershipFields  = []string{"is_partnership", "partnership", "shared"}
)

// Row is a billboard read from a spreadsheet together with its 1-based row number.
type Row struct {
	Line             int
	Name             string
	Size             string
	Location         string
	Municipality     string
	IsPartnership    bool
	TotalCapital     float64
	CapitalRemaining float64
}

// Parse reads the first sheet of an xlsx file. Rows without a name are returned
// as skipped rather than failing the whole import.
func Parse(r io.Reader) ([]Row, []model.SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoRows
	}

	return FromRecords(rows[0], rows[1:])
}

// FromRecords maps raw header and data rows onto billboards.
func FromRecords(headers []string, data [][]string) ([]Row, []model.SkippedRow, error) {
	parsed := []Row{}
	skipped := []model.SkippedRow{}

	for i, values := range data {
		line := i + 2
		if isBlank(values) {
			continue
		}

		rec := fieldprobe.NewRecord(headers, values)
		name, ok := rec.String(nameFields...)
		if !ok {
			skipped = append(skipped, model.SkippedRow{Row: line, Reason: "missing billboard name"})
			continue
		}

		row := Row{Line: line, Name: name}
		row.Size, _ = rec.String(sizeFields...)
		row.Location, _ = rec.String(locationFields...)
		row.Municipality, _ = rec.String(municipalityFields...)
		row.TotalCapital, _ = rec.Float(capitalFields...)
		row.CapitalRemaining, _ = rec.Float(remainingFields...)
		row.IsPartnership, _ = rec.Bool(partnershipFields...)

		if row.TotalCapital < 0 || row.CapitalRemaining < 0 {
			skipped = append(skipped, model.SkippedRow{Row: line, Reason: "capital cannot be negative"})
			continue
		}

		parsed = append(parsed, row)
	}

	return parsed, skipped, nil
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
