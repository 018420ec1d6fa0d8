// Package export renders partnership statements as PDF and XLSX documents.
package export

import (
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// Statement is everything printed on a partnership statement.
type Statement struct {
	Settings    model.StatementSettings
	Partnership model.Partnership
	Postings    []model.RevenuePosting
	GeneratedAt time.Time
}

// title returns the configured statement title or a default.
func (s Statement) title() string {
	if s.Settings.Title != "" {
		return s.Settings.Title
	}
	return "Partnership Statement"
}

// partnerName resolves a partner ID to the name shown on the statement.
func (s Statement) partnerName(partnerID string) string {
	for _, p := range s.Partnership.Partners {
		if p.PartnerID == partnerID {
			return p.PartnerName
		}
	}
	return partnerID
}

// partnerTotals sums each partner's revenue across all postings, in partner order.
func (s Statement) partnerTotals() []allocation.PartnerAmount {
	totals := make([]allocation.PartnerAmount, len(s.Partnership.Partners))
	index := make(map[string]int, len(totals))
	for i, p := range s.Partnership.Partners {
		totals[i].PartnerID = p.PartnerID
		index[p.PartnerID] = i
	}
	for _, posting := range s.Postings {
		for _, pa := range posting.PartnerAmounts {
			if i, ok := index[pa.PartnerID]; ok {
				totals[i].Amount = allocation.Round(totals[i].Amount+pa.Amount, 2)
			}
		}
	}
	return totals
}

func regimeLabel(r allocation.Regime) string {
	if r == allocation.RegimePostRecovery {
		return "Post-recovery"
	}
	return "Pre-recovery"
}
