package models

import (
	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/utils"
)

// MigrateTable creates or updates every table. Call it from main() once the
// database connection is up.
func MigrateTable() {
	db := config.GetDB()
	utils.ErrorPanic(db.AutoMigrate(&Company{}))
	utils.ErrorPanic(db.AutoMigrate(&User{}))
	utils.ErrorPanic(db.AutoMigrate(&OverheadInput{}))
	utils.ErrorPanic(db.AutoMigrate(&PricingMatrix{}))
	utils.ErrorPanic(db.AutoMigrate(&ServiceItem{}))
	utils.ErrorPanic(db.AutoMigrate(&Job{}))
	utils.ErrorPanic(db.AutoMigrate(&JobLineItem{}))
}
