package models

import (
	"errors"
	"testing"

	"github.com/fieldworkslab/ratebook_backend/utils"
)

func TestCreateJobComputesTotals(t *testing.T) {
	userId, companyId := seedAccount(t, "job-create")
	ctx := sessionContext(userId, companyId)

	input := &NewJob{
		JobName:      "Smith repipe",
		CustomerName: "Smith",
		LineItems: []NewJobLineItem{
			{
				Name:               "Copper run",
				Category:           ItemCategoryPlumbing,
				MaterialCost:       dec("100"),
				MaterialMarkupPct:  dec("25"),
				LaborHours:         dec("2"),
				HourlyRateOverride: decPtr("100"),
				Quantity:           intPtr(3),
			},
		},
	}

	resp, err := CreateJob(ctx, input)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if resp.Job.Status != JobStatusDraft {
		t.Fatalf("status = %s, want draft default", resp.Job.Status)
	}

	calc := resp.Calculations[0]
	// unit: 100*1.25 + 2*100 = 325; x3 total 975, cost 300, profit 675
	if got := calc.LineTotal.StringFixed(2); got != "975.00" {
		t.Fatalf("line total = %s, want 975.00", got)
	}
	if got := calc.LineProfit.StringFixed(2); got != "675.00" {
		t.Fatalf("line profit = %s, want 675.00", got)
	}
	// job-costing margin rounds to one decimal place
	if got := calc.MarginPct.String(); got != "69.2" {
		t.Fatalf("margin = %s, want 69.2", got)
	}
	if got := resp.Totals.TotalLaborHours.StringFixed(2); got != "6.00" {
		t.Fatalf("total labor hours = %s, want 6.00", got)
	}
}

func TestJobsAreCompanyScoped(t *testing.T) {
	userA, companyA := seedAccount(t, "job-scope-a")
	userB, companyB := seedAccount(t, "job-scope-b")
	ctxA := sessionContext(userA, companyA)
	ctxB := sessionContext(userB, companyB)

	created, err := CreateJob(ctxA, &NewJob{JobName: "Scoped job"})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if _, err := GetJobById(ctxB, created.Job.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("cross-company fetch err = %v, want record not found", err)
	}

	jobs, err := GetJobs(ctxB)
	if err != nil {
		t.Fatalf("GetJobs: %v", err)
	}
	for _, j := range jobs {
		if j.Job.ID == created.Job.ID {
			t.Fatal("other company's job leaked into listing")
		}
	}
}

func TestUpdateJobReplacesLineItems(t *testing.T) {
	userId, companyId := seedAccount(t, "job-update")
	ctx := sessionContext(userId, companyId)

	created, err := CreateJob(ctx, &NewJob{
		JobName: "Before",
		LineItems: []NewJobLineItem{
			{Name: "Old A"},
			{Name: "Old B"},
		},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	updated, err := UpdateJob(ctx, created.Job.ID, &NewJob{
		JobName: "After",
		Status:  JobStatusSent,
		LineItems: []NewJobLineItem{
			{Name: "New only", LaborHours: dec("1"), HourlyRateOverride: decPtr("50")},
		},
	})
	if err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if updated.Job.JobName != "After" || updated.Job.Status != JobStatusSent {
		t.Fatalf("header not updated: %+v", updated.Job)
	}
	if len(updated.Job.LineItems) != 1 || updated.Job.LineItems[0].Name != "New only" {
		t.Fatalf("line items not replaced: %+v", updated.Job.LineItems)
	}

	var count int64
	if err := testDBCount(&JobLineItem{}, "job_id = ?", created.Job.ID, &count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("line item rows = %d, want 1", count)
	}
}

func TestDeleteJobRemovesLineItems(t *testing.T) {
	userId, companyId := seedAccount(t, "job-delete")
	ctx := sessionContext(userId, companyId)

	created, err := CreateJob(ctx, &NewJob{
		JobName:   "Doomed",
		LineItems: []NewJobLineItem{{Name: "Line"}},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	ok, err := DeleteJob(ctx, created.Job.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteJob: ok=%v err=%v", ok, err)
	}

	if _, err := GetJobById(ctx, created.Job.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("fetch after delete err = %v, want record not found", err)
	}
	var count int64
	if err := testDBCount(&JobLineItem{}, "job_id = ?", created.Job.ID, &count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("line item rows = %d, want 0", count)
	}
}

func TestJobPricedAtOwnersRate(t *testing.T) {
	userId, companyId := seedAccount(t, "job-rate")
	ctx := sessionContext(userId, companyId)

	// 160000 / (1 truck x 250 days x 8 hrs) = 80/hr
	if _, err := SaveOverhead(ctx, &NewOverheadInput{
		OwnerSalary:        dec("80000"),
		WorkingDaysPerYear: intPtr(250),
	}); err != nil {
		t.Fatalf("SaveOverhead: %v", err)
	}

	resp, err := CreateJob(ctx, &NewJob{
		JobName:   "Rated job",
		LineItems: []NewJobLineItem{{Name: "Labor only", LaborHours: dec("2")}},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if got := resp.HourlyRate.StringFixed(2); got != "80.00" {
		t.Fatalf("hourly rate = %s, want 80.00", got)
	}
	if got := resp.Calculations[0].LaborPrice.StringFixed(2); got != "160.00" {
		t.Fatalf("labor price = %s, want 160.00", got)
	}
}
