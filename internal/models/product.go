package models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductKindAirtime = "airtime"
	ProductKindData    = "data"
	ProductKindUtility = "utility"
	ProductKindVoucher = "voucher"
)

// Product is a digital good sold through the storefront. Price is the amount
// debited from the buyer's wallet; fulfilment happens asynchronously against
// the named provider.
type Product struct {
	gorm.Model
	SKU      string          `gorm:"uniqueIndex;not null" json:"sku"`
	Name     string          `gorm:"not null" json:"name"`
	Kind     string          `gorm:"not null;index" json:"kind"`
	Provider string          `gorm:"not null" json:"provider"`
	Price    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"price"`
	Currency string          `gorm:"not null;default:'KES'" json:"currency"`
	Tags     pq.StringArray  `gorm:"type:text[]" json:"tags"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`
}

// ValidProductKind reports whether kind names a sellable product category.
func ValidProductKind(kind string) bool {
	switch kind {
	case ProductKindAirtime, ProductKindData, ProductKindUtility, ProductKindVoucher:
		return true
	}
	return false
}
