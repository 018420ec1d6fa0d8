package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/format"
)

var (
	mutedColor  = &props.Color{Red: 100, Green: 100, Blue: 100}
	headerBg    = &props.Color{Red: 245, Green: 243, Blue: 239}
	headerCell  = &props.Cell{BackgroundColor: headerBg}
	labelStyle  = props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: mutedColor}
	valueStyle  = props.Text{Size: 8, Align: align.Left}
	numberStyle = props.Text{Size: 8, Align: align.Right}
)

// RenderPDF renders the statement as an A4 PDF.
func RenderPDF(s Statement, f *format.Formatter) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, s, f)
	addCapitalBlock(m, s, f)
	addSharesTable(m, s, f)
	addPostingsTable(m, s, f)
	addFooter(m, s)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate statement PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, s Statement, f *format.Formatter) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(s.Settings.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(s.title(), props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(s.Partnership.BillboardName, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
			),
			col.New(6).Add(
				text.New(f.Date(s.GeneratedAt), props.Text{Size: 8, Align: align.Right, Color: mutedColor}),
			),
		),
	)

	m.AddRows(row.New(3))
}

func addCapitalBlock(m core.Maroto, s Statement, f *format.Formatter) {
	p := s.Partnership

	m.AddRows(
		row.New(5).Add(
			col.New(3).Add(text.New("TOTAL CAPITAL", labelStyle)),
			col.New(3).Add(text.New("REMAINING", labelStyle)),
			col.New(3).Add(text.New("RECOVERED", labelStyle)),
			col.New(3).Add(text.New("REGIME", labelStyle)),
		),
		row.New(6).Add(
			col.New(3).Add(text.New(f.Money(p.TotalCapital), valueStyle)),
			col.New(3).Add(text.New(f.Money(p.CapitalRemaining), valueStyle)),
			col.New(3).Add(text.New(f.Percent(p.RecoveredPct), valueStyle)),
			col.New(3).Add(text.New(regimeLabel(p.ActiveRegime), valueStyle)),
		),
	)

	m.AddRows(row.New(3))
}

func addSharesTable(m core.Maroto, s Statement, f *format.Formatter) {
	p := s.Partnership
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	headerTextLeft := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("Party", headerTextLeft)).WithStyle(headerCell),
			col.New(3).Add(text.New("Before recovery", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("After recovery", headerText)).WithStyle(headerCell),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Company", valueStyle)),
			col.New(3).Add(text.New(f.Percent(p.CompanyPrePct), numberStyle)),
			col.New(3).Add(text.New(f.Percent(p.CompanyPostPct), numberStyle)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Capital deduction", valueStyle)),
			col.New(3).Add(text.New(f.Percent(p.CapitalDeductionPct), numberStyle)),
			col.New(3).Add(text.New("-", numberStyle)),
		),
	)

	for _, share := range p.Partners {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(text.New(share.PartnerName, valueStyle)),
				col.New(3).Add(text.New(f.Percent(share.PrePct), numberStyle)),
				col.New(3).Add(text.New(f.Percent(share.PostPct), numberStyle)),
			),
		)
	}

	m.AddRows(row.New(3))
}

func addPostingsTable(m core.Maroto, s Statement, f *format.Formatter) {
	if len(s.Postings) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("No revenue posted.", valueStyle))))
		return
	}

	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	headerTextLeft := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}

	m.AddRows(
		row.New(7).Add(
			col.New(3).Add(text.New("Date", headerTextLeft)).WithStyle(headerCell),
			col.New(3).Add(text.New("Revenue", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Capital", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Company", headerText)).WithStyle(headerCell),
		),
	)

	for _, posting := range s.Postings {
		m.AddRows(
			row.New(6).Add(
				col.New(3).Add(text.New(f.Date(posting.PostedOn), valueStyle)),
				col.New(3).Add(text.New(f.Money(posting.Amount), numberStyle)),
				col.New(3).Add(text.New(f.Money(posting.CapitalAmount), numberStyle)),
				col.New(3).Add(text.New(f.Money(posting.CompanyAmount), numberStyle)),
			),
		)
	}

	m.AddRows(row.New(3))
	for _, total := range s.partnerTotals() {
		m.AddRows(
			row.New(6).Add(
				col.New(9).Add(text.New(s.partnerName(total.PartnerID), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
				col.New(3).Add(text.New(f.Money(total.Amount), numberStyle)),
			),
		)
	}
}

func addFooter(m core.Maroto, s Statement) {
	if s.Settings.Footer == "" {
		return
	}
	m.AddRows(row.New(5))
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New(s.Settings.Footer, props.Text{Size: 7, Align: align.Center, Color: mutedColor}))))
}
