package finance

import "github.com/shopspring/decimal"

// OverheadInputs are a company's annual cost line items plus operational
// settings. Technician and helper salaries are held apart from the overhead
// sum; they feed the per-hour add-ons instead.
type OverheadInputs struct {
	// Personnel
	OwnerSalary  decimal.Decimal
	OfficeStaff1 decimal.Decimal
	OfficeStaff2 decimal.Decimal
	OfficeStaff3 decimal.Decimal

	// Vehicle & equipment
	Fuel               decimal.Decimal
	VehicleMaintenance decimal.Decimal
	Truck1             decimal.Decimal
	Truck2             decimal.Decimal
	Truck3             decimal.Decimal

	// Insurance & financial
	LoanPayments       decimal.Decimal
	WorkersComp        decimal.Decimal
	LiabilityInsurance decimal.Decimal
	MerchantFees       decimal.Decimal
	AutoInsurance      decimal.Decimal

	// Facilities & operations
	ShopRent     decimal.Decimal
	Cellular     decimal.Decimal
	Accounting   decimal.Decimal
	SoftwareSubs decimal.Decimal

	// Growth & maintenance
	Marketing         decimal.Decimal
	Training          decimal.Decimal
	Uniforms          decimal.Decimal
	Tools             decimal.Decimal
	PayrollProcessing decimal.Decimal
	Licenses          decimal.Decimal
	Misc              decimal.Decimal

	// Excluded from the overhead sum.
	HighestTechSalary decimal.Decimal
	HelperSalary      decimal.Decimal

	// Operational settings
	NumTrucks          decimal.Decimal
	WorkingDaysPerYear decimal.Decimal
	AvgHoursPerDay     decimal.Decimal

	// Benchmark
	TotalRevenueLastYear decimal.Decimal
}

// OverheadResults is the full derived output of the overhead pipeline.
// It is recomputed on every read and never persisted.
type OverheadResults struct {
	TotalAnnualOverhead       Money           `json:"total_annual_overhead"`
	TotalBillableHours        Money           `json:"total_billable_hours"`
	BillableHoursPerTruck     Money           `json:"billable_hours_per_truck"`
	RevenueTarget             Money           `json:"revenue_target"`
	OverheadHourlyRate        Money           `json:"overhead_hourly_rate"`
	TechHourlyAddon           Money           `json:"tech_hourly_addon"`
	HelperHourlyAddon         Money           `json:"helper_hourly_addon"`
	FinalBillableHourlyRate   Money           `json:"final_billable_hourly_rate"`
	EstYearlyGrossRevenue     Money           `json:"est_yearly_gross_revenue"`
	AnnualPerTruck            Money           `json:"annual_per_truck"`
	DailyRevenueTotal         Money           `json:"daily_revenue_total"`
	DailyRevenuePerTruck      Money           `json:"daily_revenue_per_truck"`
	OverheadPercentOfLastYear decimal.Decimal `json:"overhead_percent_of_last_year"`
}

// targetMarginDivisor encodes the fixed 50%-target-margin policy:
// revenue target = overhead / 0.50.
var targetMarginDivisor = decimal.RequireFromString("0.50")

// ComputeOverheadResults turns annual overhead inputs into a billable hourly
// rate and the revenue targets derived from it. Pure function: no I/O, no
// state, identical inputs give identical outputs. Degenerate inputs (zero
// trucks, days or hours) degrade to zero outputs instead of erroring.
func ComputeOverheadResults(in OverheadInputs) OverheadResults {
	totalAnnualOverhead := SumValues(
		in.OwnerSalary, in.OfficeStaff1, in.OfficeStaff2, in.OfficeStaff3,
		in.Fuel, in.VehicleMaintenance, in.Truck1, in.Truck2, in.Truck3,
		in.LoanPayments, in.WorkersComp, in.LiabilityInsurance,
		in.MerchantFees, in.ShopRent, in.Cellular, in.Accounting,
		in.SoftwareSubs, in.Marketing, in.Training, in.Uniforms,
		in.Tools, in.PayrollProcessing, in.AutoInsurance, in.Licenses, in.Misc,
	)

	totalBillableHours := in.NumTrucks.Mul(in.WorkingDaysPerYear).Mul(in.AvgHoursPerDay)
	billableHoursPerTruck := in.WorkingDaysPerYear.Mul(in.AvgHoursPerDay)

	// With zero billable hours there is nothing to spread the target over,
	// so the target itself is reported as zero.
	revenueTarget := decimal.Zero
	if !totalBillableHours.IsZero() {
		revenueTarget = totalAnnualOverhead.Div(targetMarginDivisor)
	}

	overheadHourlyRate := SafeDivide(revenueTarget, totalBillableHours)

	// The add-ons are gated on total billable hours, not the per-truck hours:
	// with zero trucks the per-truck divisor is still nonzero, but nothing is
	// billable, so every rate component must collapse to zero. The helper
	// add-on additionally skips when the salary is unset, so a zero numerator
	// never contributes rounding noise.
	techHourlyAddon := decimal.Zero
	helperHourlyAddon := decimal.Zero
	if !totalBillableHours.IsZero() {
		techHourlyAddon = SafeDivide(in.HighestTechSalary, billableHoursPerTruck)
		if in.HelperSalary.IsPositive() {
			helperHourlyAddon = SafeDivide(in.HelperSalary, billableHoursPerTruck)
		}
	}

	// The final rate is rounded to cents before anything downstream uses it;
	// this is the one number the rest of the system calls "the hourly rate".
	finalBillableHourlyRate := RoundToCents(overheadHourlyRate.Add(techHourlyAddon).Add(helperHourlyAddon))

	estYearlyGrossRevenue := RoundToCents(finalBillableHourlyRate.Mul(totalBillableHours))
	annualPerTruck := SafeDivide(estYearlyGrossRevenue, in.NumTrucks)
	dailyRevenueTotal := SafeDivide(estYearlyGrossRevenue, in.WorkingDaysPerYear)
	dailyRevenuePerTruck := SafeDivide(dailyRevenueTotal, in.NumTrucks)

	overheadPercentOfLastYear := decimal.Zero
	if !in.TotalRevenueLastYear.IsZero() {
		overheadPercentOfLastYear = ToPercentage(totalAnnualOverhead, in.TotalRevenueLastYear)
	}

	return OverheadResults{
		TotalAnnualOverhead:       NewMoney(totalAnnualOverhead),
		TotalBillableHours:        NewMoney(totalBillableHours),
		BillableHoursPerTruck:     NewMoney(billableHoursPerTruck),
		RevenueTarget:             NewMoney(revenueTarget),
		OverheadHourlyRate:        NewMoney(overheadHourlyRate),
		TechHourlyAddon:           NewMoney(techHourlyAddon),
		HelperHourlyAddon:         NewMoney(helperHourlyAddon),
		FinalBillableHourlyRate:   NewMoney(finalBillableHourlyRate),
		EstYearlyGrossRevenue:     NewMoney(estYearlyGrossRevenue),
		AnnualPerTruck:            NewMoney(annualPerTruck),
		DailyRevenueTotal:         NewMoney(dailyRevenueTotal),
		DailyRevenuePerTruck:      NewMoney(dailyRevenuePerTruck),
		OverheadPercentOfLastYear: overheadPercentOfLastYear,
	}
}
