package models

import "time"

// Sale references exactly one partner and one product. Created only by the
// spreadsheet import.
type Sale struct {
	ID        uint    `gorm:"primaryKey" json:"sale_id"`
	PartnerID uint    `gorm:"index;not null" json:"partner_id"`
	Partner   Partner `gorm:"foreignKey:PartnerID" json:"-"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	SaleDate  time.Time `gorm:"type:date;index;not null" json:"sale_date"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
