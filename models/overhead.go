package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/finance"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OverheadInput is one user's annual overhead worksheet: exactly one row per
// user, replaced wholesale on every save. Derived figures are never stored;
// see Results().
type OverheadInput struct {
	ID        int `gorm:"primary_key" json:"id"`
	UserId    int `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyId int `gorm:"index" json:"company_id"`

	// Personnel
	OwnerSalary  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"owner_salary"`
	OfficeStaff1 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"office_staff_1"`
	OfficeStaff2 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"office_staff_2"`
	OfficeStaff3 decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"office_staff_3"`

	// Vehicle & equipment
	Fuel               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"fuel"`
	VehicleMaintenance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"vehicle_maintenance"`
	Truck1             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"truck_1"`
	Truck2             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"truck_2"`
	Truck3             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"truck_3"`

	// Insurance & financial
	LoanPayments       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"loan_payments"`
	WorkersComp        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"workers_comp"`
	LiabilityInsurance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"liability_insurance"`
	MerchantFees       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"merchant_fees"`
	AutoInsurance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"auto_insurance"`

	// Facilities & operations
	ShopRent     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"shop_rent"`
	Cellular     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cellular"`
	Accounting   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"accounting"`
	SoftwareSubs decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"software_subs"`

	// Growth & maintenance
	Marketing         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"marketing"`
	Training          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"training"`
	Uniforms          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"uniforms"`
	Tools             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tools"`
	PayrollProcessing decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"payroll_processing"`
	Licenses          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"licenses"`
	Misc              decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"misc"`

	// Tech salaries, kept out of the overhead sum.
	HighestTechSalary decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"highest_tech_salary"`
	HelperSalary      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"helper_salary"`

	// Operational settings
	NumTrucks          int             `gorm:"not null;default:1" json:"num_trucks"`
	WorkingDaysPerYear int             `gorm:"not null;default:125" json:"working_days_per_year"`
	AvgHoursPerDay     decimal.Decimal `gorm:"type:decimal(10,2);default:8" json:"avg_hours_per_day"`

	// Benchmark
	TotalRevenueLastYear decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_revenue_last_year"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewOverheadInput is the save payload. The three operational fields are
// pointers so an omitted field falls back to its default while an explicit
// zero stays zero.
type NewOverheadInput struct {
	OwnerSalary  decimal.Decimal `json:"owner_salary"`
	OfficeStaff1 decimal.Decimal `json:"office_staff_1"`
	OfficeStaff2 decimal.Decimal `json:"office_staff_2"`
	OfficeStaff3 decimal.Decimal `json:"office_staff_3"`

	Fuel               decimal.Decimal `json:"fuel"`
	VehicleMaintenance decimal.Decimal `json:"vehicle_maintenance"`
	Truck1             decimal.Decimal `json:"truck_1"`
	Truck2             decimal.Decimal `json:"truck_2"`
	Truck3             decimal.Decimal `json:"truck_3"`

	LoanPayments       decimal.Decimal `json:"loan_payments"`
	WorkersComp        decimal.Decimal `json:"workers_comp"`
	LiabilityInsurance decimal.Decimal `json:"liability_insurance"`
	MerchantFees       decimal.Decimal `json:"merchant_fees"`
	AutoInsurance      decimal.Decimal `json:"auto_insurance"`

	ShopRent     decimal.Decimal `json:"shop_rent"`
	Cellular     decimal.Decimal `json:"cellular"`
	Accounting   decimal.Decimal `json:"accounting"`
	SoftwareSubs decimal.Decimal `json:"software_subs"`

	Marketing         decimal.Decimal `json:"marketing"`
	Training          decimal.Decimal `json:"training"`
	Uniforms          decimal.Decimal `json:"uniforms"`
	Tools             decimal.Decimal `json:"tools"`
	PayrollProcessing decimal.Decimal `json:"payroll_processing"`
	Licenses          decimal.Decimal `json:"licenses"`
	Misc              decimal.Decimal `json:"misc"`

	HighestTechSalary decimal.Decimal `json:"highest_tech_salary"`
	HelperSalary      decimal.Decimal `json:"helper_salary"`

	NumTrucks          *int             `json:"num_trucks" binding:"omitempty,gte=1"`
	WorkingDaysPerYear *int             `json:"working_days_per_year" binding:"omitempty,gte=0"`
	AvgHoursPerDay     *decimal.Decimal `json:"avg_hours_per_day"`

	TotalRevenueLastYear decimal.Decimal `json:"total_revenue_last_year"`
}

type OverheadResponse struct {
	Inputs       *OverheadInput           `json:"inputs"`
	Calculations *finance.OverheadResults `json:"calculations"`
}

// CalcInputs maps the stored record onto the pure calculation inputs.
func (o *OverheadInput) CalcInputs() finance.OverheadInputs {
	return finance.OverheadInputs{
		OwnerSalary:  o.OwnerSalary,
		OfficeStaff1: o.OfficeStaff1,
		OfficeStaff2: o.OfficeStaff2,
		OfficeStaff3: o.OfficeStaff3,

		Fuel:               o.Fuel,
		VehicleMaintenance: o.VehicleMaintenance,
		Truck1:             o.Truck1,
		Truck2:             o.Truck2,
		Truck3:             o.Truck3,

		LoanPayments:       o.LoanPayments,
		WorkersComp:        o.WorkersComp,
		LiabilityInsurance: o.LiabilityInsurance,
		MerchantFees:       o.MerchantFees,
		AutoInsurance:      o.AutoInsurance,

		ShopRent:     o.ShopRent,
		Cellular:     o.Cellular,
		Accounting:   o.Accounting,
		SoftwareSubs: o.SoftwareSubs,

		Marketing:         o.Marketing,
		Training:          o.Training,
		Uniforms:          o.Uniforms,
		Tools:             o.Tools,
		PayrollProcessing: o.PayrollProcessing,
		Licenses:          o.Licenses,
		Misc:              o.Misc,

		HighestTechSalary: o.HighestTechSalary,
		HelperSalary:      o.HelperSalary,

		NumTrucks:          decimal.NewFromInt(int64(o.NumTrucks)),
		WorkingDaysPerYear: decimal.NewFromInt(int64(o.WorkingDaysPerYear)),
		AvgHoursPerDay:     o.AvgHoursPerDay,

		TotalRevenueLastYear: o.TotalRevenueLastYear,
	}
}

// Results recomputes the derived figures from the stored inputs.
func (o *OverheadInput) Results() finance.OverheadResults {
	return finance.ComputeOverheadResults(o.CalcInputs())
}

func (input *NewOverheadInput) validate() error {
	fields := map[string]decimal.Decimal{
		"owner_salary":            input.OwnerSalary,
		"office_staff_1":          input.OfficeStaff1,
		"office_staff_2":          input.OfficeStaff2,
		"office_staff_3":          input.OfficeStaff3,
		"fuel":                    input.Fuel,
		"vehicle_maintenance":     input.VehicleMaintenance,
		"truck_1":                 input.Truck1,
		"truck_2":                 input.Truck2,
		"truck_3":                 input.Truck3,
		"loan_payments":           input.LoanPayments,
		"workers_comp":            input.WorkersComp,
		"liability_insurance":     input.LiabilityInsurance,
		"merchant_fees":           input.MerchantFees,
		"auto_insurance":          input.AutoInsurance,
		"shop_rent":               input.ShopRent,
		"cellular":                input.Cellular,
		"accounting":              input.Accounting,
		"software_subs":           input.SoftwareSubs,
		"marketing":               input.Marketing,
		"training":                input.Training,
		"uniforms":                input.Uniforms,
		"tools":                   input.Tools,
		"payroll_processing":      input.PayrollProcessing,
		"licenses":                input.Licenses,
		"misc":                    input.Misc,
		"highest_tech_salary":     input.HighestTechSalary,
		"helper_salary":           input.HelperSalary,
		"total_revenue_last_year": input.TotalRevenueLastYear,
	}
	for name, value := range fields {
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if input.AvgHoursPerDay != nil && input.AvgHoursPerDay.IsNegative() {
		return errors.New("avg_hours_per_day must not be negative")
	}
	return nil
}

// apply overwrites the record wholesale; a save replaces every field.
func (input *NewOverheadInput) apply(record *OverheadInput) {
	record.OwnerSalary = input.OwnerSalary
	record.OfficeStaff1 = input.OfficeStaff1
	record.OfficeStaff2 = input.OfficeStaff2
	record.OfficeStaff3 = input.OfficeStaff3

	record.Fuel = input.Fuel
	record.VehicleMaintenance = input.VehicleMaintenance
	record.Truck1 = input.Truck1
	record.Truck2 = input.Truck2
	record.Truck3 = input.Truck3

	record.LoanPayments = input.LoanPayments
	record.WorkersComp = input.WorkersComp
	record.LiabilityInsurance = input.LiabilityInsurance
	record.MerchantFees = input.MerchantFees
	record.AutoInsurance = input.AutoInsurance

	record.ShopRent = input.ShopRent
	record.Cellular = input.Cellular
	record.Accounting = input.Accounting
	record.SoftwareSubs = input.SoftwareSubs

	record.Marketing = input.Marketing
	record.Training = input.Training
	record.Uniforms = input.Uniforms
	record.Tools = input.Tools
	record.PayrollProcessing = input.PayrollProcessing
	record.Licenses = input.Licenses
	record.Misc = input.Misc

	record.HighestTechSalary = input.HighestTechSalary
	record.HelperSalary = input.HelperSalary

	record.NumTrucks = 1
	if input.NumTrucks != nil {
		record.NumTrucks = *input.NumTrucks
	}
	record.WorkingDaysPerYear = 125
	if input.WorkingDaysPerYear != nil {
		record.WorkingDaysPerYear = *input.WorkingDaysPerYear
	}
	record.AvgHoursPerDay = decimal.NewFromInt(8)
	if input.AvgHoursPerDay != nil {
		record.AvgHoursPerDay = *input.AvgHoursPerDay
	}

	record.TotalRevenueLastYear = input.TotalRevenueLastYear
}

// SaveOverhead upserts the caller's overhead record and returns the freshly
// recomputed calculations. Saves for the same user are serialized through a
// best-effort redis lock; the upsert itself runs in a transaction either way.
func SaveOverhead(ctx context.Context, input *NewOverheadInput) (*OverheadResponse, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}
	companyId, _ := utils.GetCompanyIdFromContext(ctx)

	if err := input.validate(); err != nil {
		return nil, err
	}

	if lock := obtainOverheadLock(ctx, userId); lock != nil {
		defer func() {
			if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
				config.GetLogger().WithFields(logrus.Fields{
					"module":  "overhead",
					"user_id": userId,
				}).Warn("failed to release overhead save lock: " + err.Error())
			}
		}()
	}

	db := config.GetDB()
	var record OverheadInput

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userId).First(&record).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record = OverheadInput{UserId: userId, CompanyId: companyId}
		}
		input.apply(&record)
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}

	results := record.Results()
	return &OverheadResponse{Inputs: &record, Calculations: &results}, nil
}

// GetOverhead returns the caller's overhead record with recomputed
// calculations, or empty inputs when nothing has been saved yet.
func GetOverhead(ctx context.Context) (*OverheadResponse, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	var record OverheadInput
	err := db.WithContext(ctx).Where("user_id = ?", userId).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &OverheadResponse{}, nil
		}
		return nil, err
	}

	results := record.Results()
	return &OverheadResponse{Inputs: &record, Calculations: &results}, nil
}

// GetHourlyRate returns the user's current billable hourly rate, or zero when
// no overhead record exists. It never fails; pricing flows always get a number.
func GetHourlyRate(ctx context.Context, userId int) decimal.Decimal {
	db := config.GetDB()
	var record OverheadInput
	if err := db.WithContext(ctx).Where("user_id = ?", userId).First(&record).Error; err != nil {
		return decimal.Zero
	}
	return record.Results().FinalBillableHourlyRate.Decimal
}

// Best-effort: saving still proceeds when redis is down or the lock is busy;
// the transaction keeps the upsert consistent.
func obtainOverheadLock(ctx context.Context, userId int) *redislock.Lock {
	if config.OverheadSaveLockDisabled() {
		return nil
	}
	locker := config.GetRedisLock()
	if locker == nil {
		return nil
	}
	lock, err := locker.Obtain(ctx, fmt.Sprintf("lock:overhead:%d", userId), 10*time.Second, nil)
	if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"module":  "overhead",
			"user_id": userId,
		}).Warn("could not obtain overhead save lock; proceeding: " + err.Error())
		return nil
	}
	return lock
}
