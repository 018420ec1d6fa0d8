package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
	"github.com/xuri/excelize/v2"
)

// RenderXLSX renders the statement as a single-sheet workbook.
// Amounts are written as numbers; the formatter only shapes the header lines.
func RenderXLSX(s Statement, f *format.Formatter) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	sheetName := sheetNameFor(s.Partnership.BillboardName)
	if err := wb.SetSheetName(wb.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	for col, width := range map[string]float64{"A": 28, "B": 16, "C": 16, "D": 16, "E": 16} {
		if err := wb.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	p := s.Partnership
	r := 1
	set := func(cell string, v any) {
		_ = wb.SetCellValue(sheetName, cell, v)
	}
	at := func(col string) string { return col + strconv.Itoa(r) }

	set(at("A"), sanitizeCell(s.title()))
	_ = wb.MergeCell(sheetName, at("A"), at("E"))
	_ = wb.SetCellStyle(sheetName, at("A"), at("E"), titleStyle)
	r++
	set(at("A"), sanitizeCell(s.Settings.CompanyName))
	set(at("D"), f.Date(s.GeneratedAt))
	r++
	set(at("A"), sanitizeCell(p.BillboardName))
	r += 2

	for _, line := range [][2]any{
		{"Total capital", p.TotalCapital},
		{"Capital remaining", p.CapitalRemaining},
		{"Recovered %", p.RecoveredPct},
		{"Regime", regimeLabel(p.ActiveRegime)},
	} {
		set(at("A"), line[0])
		set(at("B"), line[1])
		r++
	}
	r++

	set(at("A"), "Party")
	set(at("B"), "Before recovery %")
	set(at("C"), "After recovery %")
	_ = wb.SetCellStyle(sheetName, at("A"), at("C"), headerStyle)
	r++
	set(at("A"), "Company")
	set(at("B"), p.CompanyPrePct)
	set(at("C"), p.CompanyPostPct)
	r++
	set(at("A"), "Capital deduction")
	set(at("B"), p.CapitalDeductionPct)
	r++
	for _, share := range p.Partners {
		set(at("A"), sanitizeCell(share.PartnerName))
		set(at("B"), share.PrePct)
		set(at("C"), share.PostPct)
		r++
	}
	r++

	set(at("A"), "Date")
	set(at("B"), "Revenue")
	set(at("C"), "Capital")
	set(at("D"), "Company")
	set(at("E"), "Partners")
	_ = wb.SetCellStyle(sheetName, at("A"), at("E"), headerStyle)
	r++
	for _, posting := range s.Postings {
		partners := 0.0
		for _, pa := range posting.PartnerAmounts {
			partners += pa.Amount
		}
		set(at("A"), posting.PostedOn.Format("2006-01-02"))
		set(at("B"), posting.Amount)
		set(at("C"), posting.CapitalAmount)
		set(at("D"), posting.CompanyAmount)
		set(at("E"), partners)
		r++
	}

	if s.Settings.Footer != "" {
		r++
		set(at("A"), sanitizeCell(s.Settings.Footer))
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetNameFor strips characters Excel forbids in sheet names and trims to its
// 31 character limit.
func sheetNameFor(name string) string {
	name = strings.TrimSpace(strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ").Replace(name))
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	if len(runes) == 0 {
		return "Statement"
	}
	return string(runes)
}

// sanitizeCell prevents formula injection by prefixing dangerous leading characters
// with a single quote.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
