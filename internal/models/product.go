package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is created and updated only by the spreadsheet import; there is
// no UI mutation path for it.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"product_id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
