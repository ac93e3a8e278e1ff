package finance

import "testing"

func TestAggregateJobLineItems(t *testing.T) {
	single := standardItem()
	single.Quantity = dPtr("1")
	tripled := standardItem()
	tripled.Quantity = dPtr("3")

	results := []PricingResult{
		ComputePricingResult(single, d("50")),
		ComputePricingResult(tripled, d("50")),
	}
	totals := Aggregate(results)

	assertMoney(t, "total_revenue", totals.TotalRevenue, "900.00")
	assertMoney(t, "total_materials", totals.TotalMaterials, "400.00")
	assertMoney(t, "total_profit", totals.TotalProfit, "500.00")
	if !totals.TotalLaborHours.Equal(d("8")) {
		t.Errorf("total_labor_hours = %s, want 8", totals.TotalLaborHours)
	}
	if !totals.OverallMarginPct.Equal(d("55.56")) {
		t.Errorf("overall_margin_pct = %s, want 55.56", totals.OverallMarginPct)
	}
	if totals.ItemCount != 2 {
		t.Errorf("item_count = %d, want 2", totals.ItemCount)
	}
}

func TestAggregateMatrixServices(t *testing.T) {
	results := []PricingResult{
		ComputePricingResult(standardItem(), d("50")),
		ComputePricingResult(standardItem(), d("50")),
	}
	totals := Aggregate(results)

	assertMoney(t, "total_revenue", totals.TotalRevenue, "450.00")
	assertMoney(t, "total_materials", totals.TotalMaterials, "200.00")
	assertMoney(t, "total_profit", totals.TotalProfit, "250.00")
	if !totals.TotalLaborHours.Equal(d("4")) {
		t.Errorf("total_labor_hours = %s, want 4", totals.TotalLaborHours)
	}
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	if totals.ItemCount != 0 {
		t.Errorf("item_count = %d, want 0", totals.ItemCount)
	}
	if !totals.TotalRevenue.IsZero() || !totals.OverallMarginPct.IsZero() {
		t.Errorf("empty aggregate not zero: %+v", totals)
	}
}
