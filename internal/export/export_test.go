package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleStatement() Statement {
	return Statement{
		Settings: model.StatementSettings{
			CompanyName: "Acme Outdoor",
			Title:       "Partner Statement",
			Footer:      "Thank you for your partnership",
		},
		Partnership: model.Partnership{
			BillboardID:         "bb-1",
			BillboardName:       "Airport Road 4x12",
			IsPartnership:       true,
			TotalCapital:        5000,
			CapitalRemaining:    4700,
			RecoveredPct:        6,
			ActiveRegime:        allocation.RegimePreRecovery,
			CompanyPrePct:       35,
			CapitalDeductionPct: 30,
			CompanyPostPct:      40,
			Partners: []model.PartnerShare{
				{PartnerID: "p-1", PartnerName: "Alice", PrePct: 17.5, PostPct: 30},
				{PartnerID: "p-2", PartnerName: "Bob", PrePct: 17.5, PostPct: 30},
			},
		},
		Postings: []model.RevenuePosting{
			{
				PostedOn:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				Amount:        1000,
				CapitalAmount: 300,
				CompanyAmount: 350,
				PartnerAmounts: []allocation.PartnerAmount{
					{PartnerID: "p-1", Amount: 175},
					{PartnerID: "p-2", Amount: 175},
				},
			},
			{
				PostedOn:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Amount:        200,
				CapitalAmount: 60,
				CompanyAmount: 70,
				PartnerAmounts: []allocation.PartnerAmount{
					{PartnerID: "p-1", Amount: 35},
					{PartnerID: "p-2", Amount: 35},
				},
			},
		},
		GeneratedAt: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderPDF(t *testing.T) {
	t.Run("renders a PDF document", func(t *testing.T) {
		result, err := RenderPDF(sampleStatement(), format.New("en"))
		require.NoError(t, err)
		require.Greater(t, len(result), 5)
		assert.Equal(t, "%PDF-", string(result[:5]))
	})

	t.Run("renders without postings or settings", func(t *testing.T) {
		s := sampleStatement()
		s.Postings = nil
		s.Settings = model.StatementSettings{}

		result, err := RenderPDF(s, format.New("en"))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-", string(result[:5]))
	})
}

func TestRenderXLSX(t *testing.T) {
	result, err := RenderXLSX(sampleStatement(), format.New("en"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "Airport Road 4x12", sheets[0])

	title, err := f.GetCellValue(sheets[0], "A1")
	require.NoError(t, err)
	assert.Equal(t, "Partner Statement", title)

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)

	var sawAlice, sawPosting bool
	for _, r := range rows {
		if len(r) > 0 && r[0] == "Alice" {
			sawAlice = true
		}
		if len(r) > 1 && r[0] == "2024-05-01" && r[1] == "1000" {
			sawPosting = true
		}
	}
	assert.True(t, sawAlice, "partner row missing")
	assert.True(t, sawPosting, "posting row missing")
}

func TestStatement_PartnerTotals(t *testing.T) {
	totals := sampleStatement().partnerTotals()

	require.Len(t, totals, 2)
	assert.Equal(t, allocation.PartnerAmount{PartnerID: "p-1", Amount: 210}, totals[0])
	assert.Equal(t, allocation.PartnerAmount{PartnerID: "p-2", Amount: 210}, totals[1])
}

func TestSheetNameFor(t *testing.T) {
	assert.Equal(t, "Statement", sheetNameFor(""))
	assert.Equal(t, "Main St  Exit 4", sheetNameFor("Main St/[Exit 4]"))
	assert.Len(t, []rune(sheetNameFor("A very long billboard name that exceeds the limit")), 31)
}

func TestSanitizeCell(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", sanitizeCell("=SUM(A1)"))
	assert.Equal(t, "Alice", sanitizeCell("Alice"))
	assert.Equal(t, "", sanitizeCell(""))
}
