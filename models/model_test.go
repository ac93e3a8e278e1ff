package models

import (
	"context"
	"os"
	"testing"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("DB_NAME", "file::memory:?cache=shared")
	os.Setenv("OVERHEAD_SAVE_LOCK_DISABLED", "true")

	config.ConnectDatabaseWithRetry()
	MigrateTable()

	os.Exit(m.Run())
}

// sessionContext builds a request context the way the auth middleware does.
func sessionContext(userId int, companyId int) context.Context {
	ctx := utils.SetUserIdInContext(context.Background(), userId)
	return utils.SetCompanyIdInContext(ctx, companyId)
}

func testDBCount(model interface{}, query string, arg interface{}, count *int64) error {
	return config.GetDB().Model(model).Where(query, arg).Count(count).Error
}

// seedAccount inserts a company and user directly, bypassing registration.
func seedAccount(t *testing.T, name string) (userId int, companyId int) {
	t.Helper()
	db := config.GetDB()

	company := Company{Name: name + " LLC"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	user := User{
		CompanyId: company.ID,
		Email:     name + "@example.com",
		Name:      name,
		Password:  "x",
		IsActive:  utils.NewTrue(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID, company.ID
}
