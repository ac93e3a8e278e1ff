package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func standardItem() PricingItem {
	return PricingItem{
		Name:              "Condenser swap",
		Category:          "hvac",
		MaterialCost:      d("100"),
		MaterialMarkupPct: d("25"),
		LaborHours:        d("2"),
	}
}

func TestComputePricingResultMatrixService(t *testing.T) {
	res := ComputePricingResult(standardItem(), d("50"))

	assertMoney(t, "hourly_rate_used", res.HourlyRateUsed, "50.00")
	assertMoney(t, "material_price", res.MaterialPrice, "125.00")
	assertMoney(t, "labor_price", res.LaborPrice, "100.00")
	assertMoney(t, "unit_price", res.UnitPrice, "225.00")
	if res.TotalPrice == nil || res.GrossProfit == nil {
		t.Fatal("matrix service missing total_price/gross_profit")
	}
	assertMoney(t, "total_price", *res.TotalPrice, "225.00")
	assertMoney(t, "gross_profit", *res.GrossProfit, "125.00")
	if !res.MarginPct.Equal(d("55.56")) {
		t.Errorf("margin_pct = %s, want 55.56", res.MarginPct)
	}
	if res.Quantity != nil || res.LineTotal != nil {
		t.Error("matrix service must not carry quantity fields")
	}
}

func TestComputePricingResultJobLineItem(t *testing.T) {
	item := standardItem()
	item.Quantity = dPtr("3")
	res := ComputePricingResult(item, d("50"))

	assertMoney(t, "unit_price", res.UnitPrice, "225.00")
	if res.LineTotal == nil || res.LineCost == nil || res.LineProfit == nil {
		t.Fatal("job line item missing line fields")
	}
	assertMoney(t, "line_total", *res.LineTotal, "675.00")
	assertMoney(t, "line_cost", *res.LineCost, "300.00")
	assertMoney(t, "line_profit", *res.LineProfit, "375.00")
	// Job-costing margin convention is one decimal place.
	if !res.MarginPct.Equal(d("55.6")) {
		t.Errorf("margin_pct = %s, want 55.6", res.MarginPct)
	}
	if res.TotalPrice != nil || res.GrossProfit != nil {
		t.Error("job line item must not carry matrix fields")
	}
}

func TestHourlyRateOverrideSupersedesFallback(t *testing.T) {
	item := standardItem()
	item.HourlyRateOverride = dPtr("75")
	res := ComputePricingResult(item, d("50"))

	assertMoney(t, "hourly_rate_used", res.HourlyRateUsed, "75.00")
	assertMoney(t, "labor_price", res.LaborPrice, "150.00")
	if res.HourlyRateOverride == nil {
		t.Fatal("override not echoed on result")
	}
	assertMoney(t, "hourly_rate_override", *res.HourlyRateOverride, "75.00")
}

func TestRateRoundedBeforeLaborMultiply(t *testing.T) {
	item := PricingItem{Name: "Labor only", LaborHours: d("100")}
	res := ComputePricingResult(item, d("33.333"))

	// 33.333 rounds to 33.33 first, then multiplies: 3333.00, not 3333.30.
	assertMoney(t, "labor_price", res.LaborPrice, "3333.00")
}

func TestZeroItemHasZeroMargin(t *testing.T) {
	res := ComputePricingResult(PricingItem{Name: "Empty"}, decimal.Zero)
	if !res.MarginPct.IsZero() {
		t.Errorf("margin_pct on zero-priced item = %s, want 0", res.MarginPct)
	}

	qty := PricingItem{Name: "Empty", Quantity: dPtr("2")}
	if got := ComputePricingResult(qty, decimal.Zero); !got.MarginPct.IsZero() {
		t.Errorf("job margin_pct on zero-priced item = %s, want 0", got.MarginPct)
	}
}
