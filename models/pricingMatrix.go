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

// PricingMatrix is a user's flat-rate service book: one row per user,
// replaced wholesale on save together with its service items.
type PricingMatrix struct {
	ID               int             `gorm:"primary_key" json:"id"`
	UserId           int             `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyId        int             `gorm:"index" json:"company_id"`
	DefaultMarkupPct decimal.Decimal `gorm:"type:decimal(10,4);default:25" json:"default_markup_pct"`
	Services         []ServiceItem   `gorm:"foreignKey:MatrixId" json:"services"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type ServiceItem struct {
	ID       int `gorm:"primary_key" json:"id"`
	MatrixId int `gorm:"index;not null" json:"matrix_id"`

	Name        string       `gorm:"size:255;not null" json:"name"`
	Category    ItemCategory `gorm:"size:20;not null;default:general" json:"category"`
	Description string       `gorm:"size:1000" json:"description"`

	MaterialCost       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"material_cost"`
	MaterialMarkupPct  decimal.Decimal  `gorm:"type:decimal(10,4);default:0" json:"material_markup_pct"`
	LaborHours         decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"labor_hours"`
	HourlyRateOverride *decimal.Decimal `gorm:"type:decimal(20,4)" json:"hourly_rate_override"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPricingMatrix is the save payload. Omitting an item's markup falls back
// to the matrix default.
type NewPricingMatrix struct {
	DefaultMarkupPct *decimal.Decimal `json:"default_markup_pct"`
	Services         []NewServiceItem `json:"services" binding:"dive"`
}

type NewServiceItem struct {
	Name        string       `json:"name" binding:"required"`
	Category    ItemCategory `json:"category"`
	Description string       `json:"description"`

	MaterialCost       decimal.Decimal  `json:"material_cost"`
	MaterialMarkupPct  *decimal.Decimal `json:"material_markup_pct"`
	LaborHours         decimal.Decimal  `json:"labor_hours"`
	HourlyRateOverride *decimal.Decimal `json:"hourly_rate_override"`
}

type PricingMatrixResponse struct {
	Inputs       *PricingMatrix          `json:"inputs"`
	Calculations []finance.PricingResult `json:"calculations"`
	Totals       *finance.Totals         `json:"totals"`
	HourlyRate   finance.Money           `json:"hourly_rate"`
}

// PricingItem maps a stored service onto the pure calculation input. No
// Quantity: matrix services are unit-priced.
func (s *ServiceItem) PricingItem() finance.PricingItem {
	return finance.PricingItem{
		Name:               s.Name,
		Category:           string(s.Category),
		Description:        s.Description,
		MaterialCost:       s.MaterialCost,
		MaterialMarkupPct:  s.MaterialMarkupPct,
		LaborHours:         s.LaborHours,
		HourlyRateOverride: s.HourlyRateOverride,
	}
}

func (input *NewServiceItem) validate() error {
	if input.MaterialCost.IsNegative() {
		return errors.New("material_cost must not be negative")
	}
	if input.MaterialMarkupPct != nil && input.MaterialMarkupPct.IsNegative() {
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

// SavePricingMatrix replaces the caller's matrix wholesale: the matrix row is
// upserted and its service items deleted and reinserted in one transaction.
func SavePricingMatrix(ctx context.Context, input *NewPricingMatrix) (*PricingMatrixResponse, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}
	companyId, _ := utils.GetCompanyIdFromContext(ctx)

	defaultMarkup := decimal.NewFromInt(25)
	if input.DefaultMarkupPct != nil {
		if input.DefaultMarkupPct.IsNegative() {
			return nil, errors.New("default_markup_pct must not be negative")
		}
		defaultMarkup = *input.DefaultMarkupPct
	}
	for i := range input.Services {
		if err := input.Services[i].validate(); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	var matrix PricingMatrix

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userId).First(&matrix).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			matrix = PricingMatrix{UserId: userId, CompanyId: companyId}
		}
		matrix.DefaultMarkupPct = defaultMarkup
		matrix.Services = nil
		if err := tx.Save(&matrix).Error; err != nil {
			return err
		}
		if err := tx.Where("matrix_id = ?", matrix.ID).Delete(&ServiceItem{}).Error; err != nil {
			return err
		}

		for _, item := range input.Services {
			markup := defaultMarkup
			if item.MaterialMarkupPct != nil {
				markup = *item.MaterialMarkupPct
			}
			category := item.Category
			if category == "" {
				category = ItemCategoryGeneral
			}
			row := ServiceItem{
				MatrixId:           matrix.ID,
				Name:               item.Name,
				Category:           category,
				Description:        item.Description,
				MaterialCost:       item.MaterialCost,
				MaterialMarkupPct:  markup,
				LaborHours:         item.LaborHours,
				HourlyRateOverride: item.HourlyRateOverride,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			matrix.Services = append(matrix.Services, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matrixResponse(ctx, &matrix, userId), nil
}

// GetPricingMatrix returns the caller's matrix with calculations priced at
// the current billable hourly rate, or empty inputs when nothing is saved.
func GetPricingMatrix(ctx context.Context) (*PricingMatrixResponse, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	var matrix PricingMatrix
	err := db.WithContext(ctx).Preload("Services").Where("user_id = ?", userId).First(&matrix).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hourlyRate := GetHourlyRate(ctx, userId)
			return &PricingMatrixResponse{HourlyRate: finance.NewMoney(hourlyRate)}, nil
		}
		return nil, err
	}

	return matrixResponse(ctx, &matrix, userId), nil
}

func matrixResponse(ctx context.Context, matrix *PricingMatrix, userId int) *PricingMatrixResponse {
	hourlyRate := GetHourlyRate(ctx, userId)

	calculations := make([]finance.PricingResult, 0, len(matrix.Services))
	for i := range matrix.Services {
		calculations = append(calculations, finance.ComputePricingResult(matrix.Services[i].PricingItem(), hourlyRate))
	}
	totals := finance.Aggregate(calculations)

	return &PricingMatrixResponse{
		Inputs:       matrix,
		Calculations: calculations,
		Totals:       &totals,
		HourlyRate:   finance.NewMoney(finance.RoundToCents(hourlyRate)),
	}
}
