package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId int       `gorm:"index;not null" json:"company_id"`
	Email     string    `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewAccount registers a company together with its owner user.
type NewAccount struct {
	CompanyName string `json:"company_name" binding:"required"`
	Phone       string `json:"phone"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginInfo struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyId   int    `json:"company_id"`
	CompanyName string `json:"company_name"`
}

/*
caches:
	User:$email
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Email)
}

// CreateAccount registers the company and its first user, then opens a session.
func CreateAccount(ctx context.Context, input *NewAccount) (*LoginInfo, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("email is already registered")
	}

	company := Company{Name: input.CompanyName, Phone: input.Phone}
	user := User{
		Email:    email,
		Name:     input.Name,
		Password: string(hashed),
		IsActive: utils.NewTrue(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		user.CompanyId = company.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return openSession(ctx, &user, &company)
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	db := config.GetDB()
	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+email, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
		if err != nil {
			return nil, errors.New("invalid email or password")
		}
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("account is disabled")
	}

	var company Company
	if err := db.WithContext(ctx).First(&company, user.CompanyId).Error; err != nil {
		return nil, err
	}

	if err := config.SetRedisObject("User:"+email, &user, 0); err != nil {
		return nil, err
	}

	return openSession(ctx, &user, &company)
}

func openSession(ctx context.Context, user *User, company *Company) (*LoginInfo, error) {
	token, err := utils.JwtGenerate(user.ID, user.CompanyId)
	if err != nil {
		return nil, err
	}

	// register the token so logout can revoke it
	lifespan := 24 * time.Hour
	if err := config.SetRedisValue("Token:"+token, user.Email, lifespan); err != nil {
		return nil, err
	}
	if err := config.AddRedisSet("Tokens:"+user.Email, token); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:       token,
		Name:        user.Name,
		Email:       user.Email,
		CompanyId:   company.ID,
		CompanyName: company.Name,
	}, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + fmt.Sprint(token)); err != nil {
		return false, nil
	}
	// remove current token from tokens list
	username, ok := utils.GetUsernameFromContext(ctx)
	if ok && username != "" {
		if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
			return false, err
		}
	}
	return true, nil
}

// GetSessionUser resolves the authenticated user from the request context.
func GetSessionUser(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("unauthorized")
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, errors.New("unauthorized")
	}
	user.PrepareGive()
	return &user, nil
}

func (result *User) PrepareGive() {
	result.Password = ""
}
