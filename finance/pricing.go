package finance

import "github.com/shopspring/decimal"

// PricingItem is one priced unit of work or material. The same shape backs
// both pricing-matrix services and job-costing line items; Quantity is set
// only on job-costing items.
type PricingItem struct {
	Name        string
	Category    string
	Description string

	MaterialCost       decimal.Decimal
	MaterialMarkupPct  decimal.Decimal
	LaborHours         decimal.Decimal
	HourlyRateOverride *decimal.Decimal

	// nil for pricing-matrix services (no quantity concept).
	Quantity *decimal.Decimal
}

// PricingResult carries the item's inputs back alongside the derived figures.
// The quantity-bearing fields (line_*) appear only for job-costing items; the
// total_price/gross_profit pair only for pricing-matrix services.
type PricingResult struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`

	MaterialCost       decimal.Decimal `json:"material_cost"`
	MaterialMarkupPct  decimal.Decimal `json:"material_markup_pct"`
	LaborHours         decimal.Decimal `json:"labor_hours"`
	HourlyRateOverride *Money          `json:"hourly_rate_override"`

	HourlyRateUsed Money `json:"hourly_rate_used"`
	MaterialPrice  Money `json:"material_price"`
	LaborPrice     Money `json:"labor_price"`
	UnitPrice      Money `json:"unit_price"`

	// Job-costing variant
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	LineTotal  *Money           `json:"line_total,omitempty"`
	LineCost   *Money           `json:"line_cost,omitempty"`
	LineProfit *Money           `json:"line_profit,omitempty"`

	// Pricing-matrix variant
	TotalPrice  *Money `json:"total_price,omitempty"`
	GrossProfit *Money `json:"gross_profit,omitempty"`

	MarginPct decimal.Decimal `json:"margin_pct"`
}

// ComputePricingResult prices a single item against the supplied hourly rate.
// A per-item override supersedes the fallback rate. The rate is rounded to
// cents before the labor multiply; every other intermediate stays unrounded
// until it is exposed on the result.
func ComputePricingResult(item PricingItem, fallbackHourlyRate decimal.Decimal) PricingResult {
	rate := fallbackHourlyRate
	if item.HourlyRateOverride != nil {
		rate = *item.HourlyRateOverride
	}
	rateUsed := RoundToCents(rate)

	materialPrice := item.MaterialCost.Mul(decimal.NewFromInt(1).Add(item.MaterialMarkupPct.Div(oneHundred)))
	laborPrice := item.LaborHours.Mul(rateUsed)
	unitPrice := materialPrice.Add(laborPrice)

	result := PricingResult{
		Name:              item.Name,
		Category:          item.Category,
		Description:       item.Description,
		MaterialCost:      RoundToCents(item.MaterialCost),
		MaterialMarkupPct: RoundToCents(item.MaterialMarkupPct),
		LaborHours:        RoundToCents(item.LaborHours),
		HourlyRateUsed:    NewMoney(rateUsed),
		MaterialPrice:     NewMoney(materialPrice),
		LaborPrice:        NewMoney(laborPrice),
		UnitPrice:         NewMoney(unitPrice),
	}
	if item.HourlyRateOverride != nil {
		result.HourlyRateOverride = moneyPtr(*item.HourlyRateOverride)
	}

	if item.Quantity != nil {
		quantity := *item.Quantity
		lineTotal := unitPrice.Mul(quantity)
		lineCost := item.MaterialCost.Mul(quantity)
		lineProfit := lineTotal.Sub(lineCost)

		marginPct := decimal.Zero
		if !lineTotal.IsZero() {
			// Job-costing margin rounds to one decimal place.
			marginPct = lineProfit.Div(lineTotal).Mul(oneHundred).Round(1)
		}

		result.Quantity = &quantity
		result.LineTotal = moneyPtr(lineTotal)
		result.LineCost = moneyPtr(lineCost)
		result.LineProfit = moneyPtr(lineProfit)
		result.MarginPct = marginPct
		return result
	}

	// Pricing-matrix services have no quantity; the unit price is the total.
	grossProfit := unitPrice.Sub(item.MaterialCost)
	marginPct := decimal.Zero
	if !unitPrice.IsZero() {
		marginPct = ToPercentage(grossProfit, unitPrice)
	}

	result.TotalPrice = moneyPtr(unitPrice)
	result.GrossProfit = moneyPtr(grossProfit)
	result.MarginPct = marginPct
	return result
}
