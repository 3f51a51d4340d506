package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DocumentTypeNationalID = "national_id"
	DocumentTypePassport   = "passport"
	DocumentTypeLicense    = "drivers_license"
)

// KYCVerification is an identity review request. ReviewedAt and ReviewedBy
// are written once when an admin decides the case and are immutable after
// that; a second review attempt fails.
type KYCVerification struct {
	gorm.Model
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	DocumentType string     `gorm:"not null" json:"document_type"`
	DocumentID   string     `gorm:"not null" json:"document_id"`
	ScanURL      string     `json:"scan_url,omitempty"`
	Status       string     `gorm:"not null;default:'pending'" json:"status"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"`
}

// Reviewed reports whether the case has already been decided.
func (k *KYCVerification) Reviewed() bool {
	return k.ReviewedAt != nil
}

// ValidDocumentType reports whether docType names an accepted identity document.
func ValidDocumentType(docType string) bool {
	switch docType {
	case DocumentTypeNationalID, DocumentTypePassport, DocumentTypeLicense:
		return true
	}
	return false
}
