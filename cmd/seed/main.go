// Package main seeds the database with the admin account and the initial
// product catalog. Safe to run repeatedly; existing rows are left alone.
package main

import (
	"context"
	"errors"
	"os"

	"lipa/internal/config"
	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		logrus.WithError(err).Fatal("database initialization failed")
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	if err := seedAdmin(); err != nil {
		logrus.WithError(err).Fatal("admin seed failed")
	}
	if err := seedProducts(); err != nil {
		logrus.WithError(err).Fatal("product seed failed")
	}
}

func seedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	phone := os.Getenv("ADMIN_PHONE")
	if email == "" || password == "" || phone == "" {
		return errors.New("ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_PHONE must be set")
	}

	var existing models.User
	err := repositories.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logrus.Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := utils.GenerateReferralCode(8)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		Phone:        phone,
		Password:     string(hashed),
		Role:         models.RoleAdmin,
		KYCStatus:    models.KYCStatusVerified,
		ReferralCode: &code,
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", email).Info("admin account created")
	return nil
}

func seedProducts() error {
	repo := repositories.NewProductRepository(repositories.DB, nil)
	ctx := context.Background()

	products := []models.Product{
		{
			SKU:      "AIRTIME-SAF-100",
			Name:     "Safaricom Airtime 100",
			Kind:     models.ProductKindAirtime,
			Provider: "safaricom",
			Price:    decimal.RequireFromString("100.00"),
			Tags:     pq.StringArray{"airtime", "safaricom"},
		},
		{
			SKU:      "AIRTIME-AIR-100",
			Name:     "Airtel Airtime 100",
			Kind:     models.ProductKindAirtime,
			Provider: "airtel",
			Price:    decimal.RequireFromString("100.00"),
			Tags:     pq.StringArray{"airtime", "airtel"},
		},
		{
			SKU:      "DATA-SAF-1GB",
			Name:     "Safaricom Data 1GB",
			Kind:     models.ProductKindData,
			Provider: "safaricom",
			Price:    decimal.RequireFromString("250.00"),
			Tags:     pq.StringArray{"data", "safaricom"},
		},
		{
			SKU:      "UTIL-KPLC-500",
			Name:     "KPLC Prepaid Tokens 500",
			Kind:     models.ProductKindUtility,
			Provider: "kplc",
			Price:    decimal.RequireFromString("500.00"),
			Tags:     pq.StringArray{"utility", "electricity"},
		},
		{
			SKU:      "VOUCHER-SHOP-1000",
			Name:     "Shopping Voucher 1000",
			Kind:     models.ProductKindVoucher,
			Provider: "vouchers",
			Price:    decimal.RequireFromString("1000.00"),
			Tags:     pq.StringArray{"voucher", "retail"},
		},
	}

	created := 0
	for i := range products {
		products[i].IsActive = true
		products[i].Currency = "KES"

		v := validation.New()
		v.Product(&products[i])
		if !v.Valid() {
			return errors.New("invalid seed product " + products[i].SKU + ": " + v.FirstError())
		}

		if _, err := repo.GetBySKU(ctx, products[i].SKU); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrProductNotFound) {
			return err
		}
		if err := repo.Create(ctx, &products[i]); err != nil {
			return err
		}
		created++
	}

	logrus.WithField("products", created).Info("catalog seeded")
	return nil
}
