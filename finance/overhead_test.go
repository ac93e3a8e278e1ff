package finance

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertMoney(t *testing.T, field string, got Money, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s = %s, want %s", field, got.StringFixed(2), want)
	}
}

func shopInputs() OverheadInputs {
	return OverheadInputs{
		OwnerSalary:          d("50000"),
		ShopRent:             d("24000"),
		Fuel:                 d("6000"),
		HighestTechSalary:    d("60000"),
		HelperSalary:         d("30000"),
		NumTrucks:            d("2"),
		WorkingDaysPerYear:   d("250"),
		AvgHoursPerDay:       d("8"),
		TotalRevenueLastYear: d("200000"),
	}
}

func TestComputeOverheadResults(t *testing.T) {
	res := ComputeOverheadResults(shopInputs())

	assertMoney(t, "total_annual_overhead", res.TotalAnnualOverhead, "80000.00")
	assertMoney(t, "total_billable_hours", res.TotalBillableHours, "4000.00")
	assertMoney(t, "billable_hours_per_truck", res.BillableHoursPerTruck, "2000.00")
	assertMoney(t, "revenue_target", res.RevenueTarget, "160000.00")
	assertMoney(t, "overhead_hourly_rate", res.OverheadHourlyRate, "40.00")
	assertMoney(t, "tech_hourly_addon", res.TechHourlyAddon, "30.00")
	assertMoney(t, "helper_hourly_addon", res.HelperHourlyAddon, "15.00")
	assertMoney(t, "final_billable_hourly_rate", res.FinalBillableHourlyRate, "85.00")
	assertMoney(t, "est_yearly_gross_revenue", res.EstYearlyGrossRevenue, "340000.00")
	assertMoney(t, "annual_per_truck", res.AnnualPerTruck, "170000.00")
	assertMoney(t, "daily_revenue_total", res.DailyRevenueTotal, "1360.00")
	assertMoney(t, "daily_revenue_per_truck", res.DailyRevenuePerTruck, "680.00")
	if !res.OverheadPercentOfLastYear.Equal(d("40")) {
		t.Errorf("overhead_percent_of_last_year = %s, want 40", res.OverheadPercentOfLastYear)
	}
}

func TestOverheadSumExcludesTechSalaries(t *testing.T) {
	in := shopInputs()
	in.HighestTechSalary = d("999999")
	in.HelperSalary = d("888888")

	res := ComputeOverheadResults(in)
	assertMoney(t, "total_annual_overhead", res.TotalAnnualOverhead, "80000.00")
}

func TestOverheadZeroOperationalInputs(t *testing.T) {
	for _, zeroed := range []string{"trucks", "days", "hours"} {
		in := shopInputs()
		switch zeroed {
		case "trucks":
			in.NumTrucks = decimal.Zero
		case "days":
			in.WorkingDaysPerYear = decimal.Zero
		case "hours":
			in.AvgHoursPerDay = decimal.Zero
		}

		res := ComputeOverheadResults(in)
		for field, got := range map[string]Money{
			"overhead_hourly_rate":       res.OverheadHourlyRate,
			"tech_hourly_addon":          res.TechHourlyAddon,
			"helper_hourly_addon":        res.HelperHourlyAddon,
			"final_billable_hourly_rate": res.FinalBillableHourlyRate,
			"est_yearly_gross_revenue":   res.EstYearlyGrossRevenue,
			"annual_per_truck":           res.AnnualPerTruck,
			"daily_revenue_total":        res.DailyRevenueTotal,
			"daily_revenue_per_truck":    res.DailyRevenuePerTruck,
		} {
			if !got.IsZero() {
				t.Errorf("zero %s: %s = %s, want 0", zeroed, field, got)
			}
		}
	}
}

func TestHelperAddonExactlyZeroWhenUnset(t *testing.T) {
	in := shopInputs()
	in.HelperSalary = decimal.Zero
	res := ComputeOverheadResults(in)
	if !res.HelperHourlyAddon.IsZero() {
		t.Errorf("helper_hourly_addon = %s, want exactly 0", res.HelperHourlyAddon)
	}

	// Both zero-rules at once: unset helper salary and zero billable hours.
	in.WorkingDaysPerYear = decimal.Zero
	res = ComputeOverheadResults(in)
	if !res.HelperHourlyAddon.IsZero() {
		t.Errorf("helper_hourly_addon with zero hours = %s, want 0", res.HelperHourlyAddon)
	}
}

func TestOverheadPercentZeroWithoutLastYearRevenue(t *testing.T) {
	in := shopInputs()
	in.TotalRevenueLastYear = decimal.Zero
	res := ComputeOverheadResults(in)
	if !res.OverheadPercentOfLastYear.IsZero() {
		t.Errorf("overhead_percent_of_last_year = %s, want 0", res.OverheadPercentOfLastYear)
	}
}

func TestComputeOverheadResultsIsIdempotent(t *testing.T) {
	in := shopInputs()
	first := ComputeOverheadResults(in)
	second := ComputeOverheadResults(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs produced different results:\n%+v\n%+v", first, second)
	}
}
