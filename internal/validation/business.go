package validation

import (
	"lipa/internal/models"
)

// Registration validates a signup request.
func (v *Validator) Registration(name, email, phone, password string) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	v.Email("email", email)
	v.Phone("phone", phone)
	v.Password("password", password)
}

// Product validates a catalog entry before it is created or updated.
func (v *Validator) Product(p *models.Product) {
	v.Required("sku", p.SKU)
	v.Required("name", p.Name)
	v.Check(models.ValidProductKind(p.Kind), "kind", "must be a known product kind")
	v.Required("provider", p.Provider)
	v.Amount("price", p.Price)
}

// DepositMethod validates the funding channel of a deposit.
func (v *Validator) DepositMethod(field, method string) {
	v.Check(models.ValidDepositMethod(method), field, "must be a supported deposit method")
}

// DocumentType validates the identity document of a verification request.
func (v *Validator) DocumentType(field, documentType string) {
	v.Check(models.ValidDocumentType(documentType), field, "must be a supported document type")
}

// BankDetails validates a payout destination.
func (v *Validator) BankDetails(bankName, accountNumber, accountName string) {
	v.Required("bank_name", bankName)
	v.Required("account_number", accountNumber)
	v.MinLength("account_number", accountNumber, 6)
	v.Required("account_name", accountName)
}
