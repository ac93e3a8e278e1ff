package models

import (
	"context"
	"time"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/utils"
)

type Company struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetCompany(ctx context.Context) (*Company, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	var company Company
	if err := db.WithContext(ctx).First(&company, companyId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &company, nil
}
