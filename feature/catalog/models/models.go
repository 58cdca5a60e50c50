package models

import "time"

// Product represents one row of the persisted catalog ('products' table).
// ExternalID is the feed-supplied identifier and the stable join key
// between offers and catalog rows; at most one row carries a given value.
type Product struct {
	ID          uint       `gorm:"column:id;primaryKey"`
	ExternalID  string     `gorm:"column:external_id;uniqueIndex;size:64"`
	CategoryID  int        `gorm:"column:category_id"`
	Name        string     `gorm:"column:name;size:255"`
	Price       float64    `gorm:"column:price"`
	OldPrice    *float64   `gorm:"column:old_price"`
	Currency    *string    `gorm:"column:currency;size:3"`
	Available   *bool      `gorm:"column:available"`
	Description *string    `gorm:"column:description"`
	Vendor      *string    `gorm:"column:vendor;size:255"`
	VendorCode  *string    `gorm:"column:vendor_code;size:64"`
	RenewedAt   *time.Time `gorm:"column:renewed_at"`
	NeedsRenew  bool       `gorm:"column:needs_renew"`
}

// TableName overrides the table name used by gorm.
func (Product) TableName() string {
	return "products"
}

// ProductRef is the id/external-id projection the missing sweep pages over.
type ProductRef struct {
	ID         uint   `gorm:"column:id"`
	ExternalID string `gorm:"column:external_id"`
}

// Candidate is a validated feed offer ready for reconciliation.
// It is never constructed unless name, category id and price are present;
// the validator enforces that.
type Candidate struct {
	ExternalID  string
	Available   *bool // nil when the feed did not specify availability
	CategoryID  int
	Name        string
	Price       float64
	OldPrice    *float64
	Currency    *string
	Description *string
	Vendor      *string
	VendorCode  *string
}

// Product converts the candidate into a row for insertion.
func (c Candidate) Product(renewedAt time.Time) Product {
	return Product{
		ExternalID:  c.ExternalID,
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Price:       c.Price,
		OldPrice:    c.OldPrice,
		Currency:    c.Currency,
		Available:   c.Available,
		Description: c.Description,
		Vendor:      c.Vendor,
		VendorCode:  c.VendorCode,
		RenewedAt:   &renewedAt,
	}
}
