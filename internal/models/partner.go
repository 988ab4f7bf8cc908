package models

import "time"

// Partner is an external sales channel tracked by the system.
// Rows come either from the add/edit forms or from the spreadsheet import
// (which sets the ID explicitly). Partners are never deleted.
type Partner struct {
	ID           uint   `gorm:"primaryKey" json:"partner_id"`
	Name         string `gorm:"size:200;not null" json:"name"`
	Type         string `gorm:"size:100" json:"type"`
	Rating       int    `gorm:"not null;default:0;check:rating >= 0" json:"rating"`
	DirectorName string `gorm:"size:200" json:"director_name"`
	Phone        string `gorm:"size:50" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`
	Address      string `gorm:"size:255" json:"address"`

	// Assigned at creation, never touched by the edit form.
	RegistrationDate time.Time `gorm:"type:date;not null" json:"registration_date"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
