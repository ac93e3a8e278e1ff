package finance

import "github.com/shopspring/decimal"

// Totals are the job- or matrix-level sums over a collection of computed
// pricing results.
type Totals struct {
	TotalMaterials   Money           `json:"total_materials"`
	TotalRevenue     Money           `json:"total_revenue"`
	TotalProfit      Money           `json:"total_profit"`
	TotalLaborHours  decimal.Decimal `json:"total_labor_hours"`
	OverallMarginPct decimal.Decimal `json:"overall_margin_pct"`
	ItemCount        int             `json:"item_count"`
}

// Aggregate folds computed pricing results into collection totals in a single
// deterministic pass. The collection is homogeneous in practice (all
// job-costing or all matrix results); each result contributes through
// whichever variant fields it carries.
func Aggregate(results []PricingResult) Totals {
	totalMaterials := decimal.Zero
	totalRevenue := decimal.Zero
	totalProfit := decimal.Zero
	totalLaborHours := decimal.Zero

	for _, r := range results {
		quantity := decimal.NewFromInt(1)
		if r.Quantity != nil {
			quantity = *r.Quantity
		}

		switch {
		case r.LineTotal != nil:
			totalRevenue = totalRevenue.Add(r.LineTotal.Decimal)
			totalMaterials = totalMaterials.Add(r.LineCost.Decimal)
			totalProfit = totalProfit.Add(r.LineProfit.Decimal)
		case r.TotalPrice != nil:
			totalRevenue = totalRevenue.Add(r.TotalPrice.Decimal)
			totalMaterials = totalMaterials.Add(r.MaterialCost)
			totalProfit = totalProfit.Add(r.GrossProfit.Decimal)
		}

		totalLaborHours = totalLaborHours.Add(r.LaborHours.Mul(quantity))
	}

	overallMarginPct := decimal.Zero
	if !totalRevenue.IsZero() {
		overallMarginPct = ToPercentage(totalProfit, totalRevenue)
	}

	return Totals{
		TotalMaterials:   NewMoney(totalMaterials),
		TotalRevenue:     NewMoney(totalRevenue),
		TotalProfit:      NewMoney(totalProfit),
		TotalLaborHours:  RoundToCents(totalLaborHours),
		OverallMarginPct: overallMarginPct,
		ItemCount:        len(results),
	}
}
