package models

import (
	"context"
	"errors"
	"time"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/finance"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job is a costed estimate or invoice. Jobs are company-scoped so every user
// in the company sees the same job list.
type Job struct {
	ID        int `gorm:"primary_key" json:"id"`
	CompanyId int `gorm:"index:idx_jobs_company_created,priority:1;not null" json:"company_id"`
	UserId    int `gorm:"index" json:"user_id"`

	JobName      string    `gorm:"size:255;not null" json:"job_name"`
	CustomerName string    `gorm:"size:255" json:"customer_name"`
	Status       JobStatus `gorm:"size:20;not null;default:draft" json:"status"`
	Notes        string    `gorm:"size:2000" json:"notes"`

	LineItems []JobLineItem `gorm:"foreignKey:JobId" json:"line_items"`

	CreatedAt time.Time `gorm:"index:idx_jobs_company_created,priority:2;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type JobLineItem struct {
	ID    int `gorm:"primary_key" json:"id"`
	JobId int `gorm:"index;not null" json:"job_id"`

	Name        string       `gorm:"size:255;not null" json:"name"`
	Category    ItemCategory `gorm:"size:20;not null;default:general" json:"category"`
	Description string       `gorm:"size:1000" json:"description"`

	MaterialCost       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"material_cost"`
	MaterialMarkupPct  decimal.Decimal  `gorm:"type:decimal(10,4);default:0" json:"material_markup_pct"`
	LaborHours         decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"labor_hours"`
	HourlyRateOverride *decimal.Decimal `gorm:"type:decimal(20,4)" json:"hourly_rate_override"`
	Quantity           int              `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJob struct {
	JobName      string           `json:"job_name" binding:"required"`
	CustomerName string           `json:"customer_name"`
	Status       JobStatus        `json:"status"`
	Notes        string           `json:"notes"`
	LineItems    []NewJobLineItem `json:"line_items" binding:"dive"`
}

type NewJobLineItem struct {
	Name        string       `json:"name" binding:"required"`
	Category    ItemCategory `json:"category"`
	Description string       `json:"description"`

	MaterialCost       decimal.Decimal  `json:"material_cost"`
	MaterialMarkupPct  decimal.Decimal  `json:"material_markup_pct"`
	LaborHours         decimal.Decimal  `json:"labor_hours"`
	HourlyRateOverride *decimal.Decimal `json:"hourly_rate_override"`
	Quantity           *int             `json:"quantity" binding:"omitempty,gte=1"`
}

type JobResponse struct {
	Job          *Job                    `json:"job"`
	Calculations []finance.PricingResult `json:"calculations"`
	Totals       *finance.Totals         `json:"totals"`
	HourlyRate   finance.Money           `json:"hourly_rate"`
}

// PricingItem maps a stored line onto the pure calculation input, quantity
// included.
func (l *JobLineItem) PricingItem() finance.PricingItem {
	quantity := decimal.NewFromInt(int64(l.Quantity))
	return finance.PricingItem{
		Name:               l.Name,
		Category:           string(l.Category),
		Description:        l.Description,
		MaterialCost:       l.MaterialCost,
		MaterialMarkupPct:  l.MaterialMarkupPct,
		LaborHours:         l.LaborHours,
		HourlyRateOverride: l.HourlyRateOverride,
		Quantity:           &quantity,
	}
}

func (input *NewJobLineItem) validate() error {
	if input.MaterialCost.IsNegative() {
		return errors.New("material_cost must not be negative")
	}
	if input.MaterialMarkupPct.IsNegative() {
		return errors.New("material_markup_pct must not be negative")
	}
	if input.LaborHours.IsNegative() {
		return errors.New("labor_hours must not be negative")
	}
	if input.HourlyRateOverride != nil && input.HourlyRateOverride.IsNegative() {
		return errors.New("hourly_rate_override must not be negative")
	}
	return nil
}

func (input *NewJobLineItem) toRow(jobId int) JobLineItem {
	category := input.Category
	if category == "" {
		category = ItemCategoryGeneral
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	return JobLineItem{
		JobId:              jobId,
		Name:               input.Name,
		Category:           category,
		Description:        input.Description,
		MaterialCost:       input.MaterialCost,
		MaterialMarkupPct:  input.MaterialMarkupPct,
		LaborHours:         input.LaborHours,
		HourlyRateOverride: input.HourlyRateOverride,
		Quantity:           quantity,
	}
}

func CreateJob(ctx context.Context, input *NewJob) (*JobResponse, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}
	companyId, _ := utils.GetCompanyIdFromContext(ctx)

	for i := range input.LineItems {
		if err := input.LineItems[i].validate(); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = JobStatusDraft
	}

	job := Job{
		CompanyId:    companyId,
		UserId:       userId,
		JobName:      input.JobName,
		CustomerName: input.CustomerName,
		Status:       status,
		Notes:        input.Notes,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		for i := range input.LineItems {
			row := input.LineItems[i].toRow(job.ID)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			job.LineItems = append(job.LineItems, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return jobResponse(ctx, &job), nil
}

// GetJobs lists the company's jobs newest first, each with recomputed totals.
func GetJobs(ctx context.Context) ([]JobResponse, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	var jobs []Job
	err := db.WithContext(ctx).Preload("LineItems").
		Where("company_id = ?", companyId).
		Order("created_at desc").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}

	responses := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, *jobResponse(ctx, &jobs[i]))
	}
	return responses, nil
}

func GetJobById(ctx context.Context, jobId int) (*JobResponse, error) {
	job, err := findCompanyJob(ctx, jobId)
	if err != nil {
		return nil, err
	}
	return jobResponse(ctx, job), nil
}

// UpdateJob overwrites the job header and replaces its line items wholesale.
func UpdateJob(ctx context.Context, jobId int, input *NewJob) (*JobResponse, error) {
	job, err := findCompanyJob(ctx, jobId)
	if err != nil {
		return nil, err
	}

	for i := range input.LineItems {
		if err := input.LineItems[i].validate(); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = JobStatusDraft
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job.JobName = input.JobName
		job.CustomerName = input.CustomerName
		job.Status = status
		job.Notes = input.Notes
		job.LineItems = nil
		if err := tx.Omit("LineItems").Save(job).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&JobLineItem{}).Error; err != nil {
			return err
		}
		for i := range input.LineItems {
			row := input.LineItems[i].toRow(job.ID)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			job.LineItems = append(job.LineItems, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return jobResponse(ctx, job), nil
}

func DeleteJob(ctx context.Context, jobId int) (bool, error) {
	job, err := findCompanyJob(ctx, jobId)
	if err != nil {
		return false, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&JobLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Job{}, job.ID).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func findCompanyJob(ctx context.Context, jobId int) (*Job, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	var job Job
	err := db.WithContext(ctx).Preload("LineItems").
		Where("id = ? AND company_id = ?", jobId, companyId).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Line items are priced at the job owner's rate so a colleague viewing the
// job sees the same numbers the owner quoted.
func jobResponse(ctx context.Context, job *Job) *JobResponse {
	hourlyRate := GetHourlyRate(ctx, job.UserId)

	calculations := make([]finance.PricingResult, 0, len(job.LineItems))
	for i := range job.LineItems {
		calculations = append(calculations, finance.ComputePricingResult(job.LineItems[i].PricingItem(), hourlyRate))
	}
	totals := finance.Aggregate(calculations)

	return &JobResponse{
		Job:          job,
		Calculations: calculations,
		Totals:       &totals,
		HourlyRate:   finance.NewMoney(finance.RoundToCents(hourlyRate)),
	}
}
