package directory

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fiberflow/opsdash/models"
)

// Aggregates contains the totals shown above the NAP table.
type Aggregates struct {
	Count              int `json:"count"`
	TotalPorts         int `json:"totalPorts"`
	ActivePorts        int `json:"activePorts"`
	AvailablePorts     int `json:"availablePorts"`
	UtilisationPercent int `json:"utilisationPercent"`
}

// Aggregate computes totals over a set of NAPs, usually the visible set.
func Aggregate(naps []models.NAP) Aggregates {
	agg := Aggregates{
		Count:          len(naps),
		TotalPorts:     lo.SumBy(naps, func(n models.NAP) int { return n.TotalPorts }),
		ActivePorts:    lo.SumBy(naps, func(n models.NAP) int { return n.ActivePorts }),
		AvailablePorts: lo.SumBy(naps, func(n models.NAP) int { return n.Available() }),
	}
	agg.UtilisationPercent = utilisation(agg.ActivePorts, agg.TotalPorts)
	return agg
}

// utilisation returns round(100 * active / total), half rounded up, and 0
// when there are no ports at all.
func utilisation(active, total int) int {
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(active)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return int(pct.Round(0).IntPart())
}
