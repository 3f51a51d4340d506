package models

import "time"

// ReferralReward records a redeemed referral code and the coins granted to
// both sides. The unique index on RedeemerID enforces one redemption per
// account at the store level.
type ReferralReward struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ReferrerID    uint      `gorm:"not null;index" json:"referrer_id"`
	RedeemerID    uint      `gorm:"uniqueIndex;not null" json:"redeemer_id"`
	Code          string    `gorm:"not null" json:"code"`
	ReferrerCoins int64     `gorm:"not null" json:"referrer_coins"`
	RedeemerCoins int64     `gorm:"not null" json:"redeemer_coins"`
	CreatedAt     time.Time `json:"created_at"`
}
