package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account row. The wallet lives on the row itself: Balance and
// Coins are only ever written inside a ledger transaction that also creates
// or settles a movement record.
type User struct {
	gorm.Model
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string          `gorm:"uniqueIndex;not null" json:"phone"`
	Password     string          `gorm:"not null" json:"-"`
	Name         string          `gorm:"not null" json:"name"`
	Role         string          `gorm:"not null;default:'user'" json:"role"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0;check:balance >= 0" json:"balance"`
	Coins        int64           `gorm:"not null;default:0;check:coins >= 0" json:"coins"`
	KYCStatus    string          `gorm:"not null;default:'pending'" json:"kyc_status"`
	Blocked      bool            `gorm:"not null;default:false" json:"blocked"`
	ReferralCode *string         `gorm:"uniqueIndex;default:null" json:"referral_code,omitempty"`
	TokenVersion int             `gorm:"not null;default:1" json:"-"`
}

// KYCVerified reports whether the account has passed identity review.
func (u *User) KYCVerified() bool {
	return u.KYCStatus == KYCStatusVerified
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
