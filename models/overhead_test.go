package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(n int) *int { return &n }

func TestSaveOverheadCreatesAndRecomputes(t *testing.T) {
	userId, companyId := seedAccount(t, "overhead-create")
	ctx := sessionContext(userId, companyId)

	input := &NewOverheadInput{
		OwnerSalary:        decimal.NewFromInt(80000),
		HighestTechSalary:  decimal.NewFromInt(50000),
		HelperSalary:       decimal.NewFromInt(20000),
		NumTrucks:          intPtr(2),
		WorkingDaysPerYear: intPtr(250),
	}

	resp, err := SaveOverhead(ctx, input)
	if err != nil {
		t.Fatalf("SaveOverhead: %v", err)
	}
	if resp.Inputs == nil || resp.Calculations == nil {
		t.Fatal("expected inputs and calculations")
	}
	if resp.Inputs.UserId != userId {
		t.Fatalf("user id = %d, want %d", resp.Inputs.UserId, userId)
	}
	// defaults applied for omitted operational fields
	if !resp.Inputs.AvgHoursPerDay.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("avg_hours_per_day = %s, want 8", resp.Inputs.AvgHoursPerDay)
	}

	// overhead 80000, 2 trucks x 250 days x 8 hrs, tech 50000, helper 20000:
	// 160000/4000 + 50000/2000 + 20000/2000 = 75
	if got := resp.Calculations.FinalBillableHourlyRate.StringFixed(2); got != "75.00" {
		t.Fatalf("final rate = %s, want 75.00", got)
	}
	if got := resp.Calculations.EstYearlyGrossRevenue.StringFixed(2); got != "300000.00" {
		t.Fatalf("estimated yearly revenue = %s, want 300000.00", got)
	}
}

func TestSaveOverheadUpsertsWholesale(t *testing.T) {
	userId, companyId := seedAccount(t, "overhead-upsert")
	ctx := sessionContext(userId, companyId)

	first := &NewOverheadInput{
		OwnerSalary: decimal.NewFromInt(60000),
		ShopRent:    decimal.NewFromInt(12000),
		NumTrucks:   intPtr(3),
	}
	if _, err := SaveOverhead(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// second save omits shop_rent; it must reset to zero, not persist
	second := &NewOverheadInput{
		OwnerSalary: decimal.NewFromInt(90000),
	}
	resp, err := SaveOverhead(ctx, second)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if !resp.Inputs.ShopRent.IsZero() {
		t.Fatalf("shop_rent = %s after wholesale save, want 0", resp.Inputs.ShopRent)
	}
	if resp.Inputs.NumTrucks != 1 {
		t.Fatalf("num_trucks = %d, want default 1", resp.Inputs.NumTrucks)
	}

	// still exactly one row per user
	var count int64
	if err := testDBCount(&OverheadInput{}, "user_id = ?", userId, &count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("overhead rows = %d, want 1", count)
	}
}

func TestSaveOverheadRejectsNegativeCost(t *testing.T) {
	userId, companyId := seedAccount(t, "overhead-negative")
	ctx := sessionContext(userId, companyId)

	input := &NewOverheadInput{Fuel: decimal.NewFromInt(-5)}
	if _, err := SaveOverhead(ctx, input); err == nil {
		t.Fatal("expected error for negative cost")
	}
}

func TestGetOverheadEmptyWhenUnsaved(t *testing.T) {
	userId, companyId := seedAccount(t, "overhead-empty")
	ctx := sessionContext(userId, companyId)

	resp, err := GetOverhead(ctx)
	if err != nil {
		t.Fatalf("GetOverhead: %v", err)
	}
	if resp.Inputs != nil || resp.Calculations != nil {
		t.Fatal("expected empty response before first save")
	}
}

func TestGetHourlyRateZeroWithoutRecord(t *testing.T) {
	userId, companyId := seedAccount(t, "rate-missing")
	ctx := sessionContext(userId, companyId)

	if rate := GetHourlyRate(ctx, userId); !rate.IsZero() {
		t.Fatalf("rate = %s without record, want 0", rate)
	}
}
