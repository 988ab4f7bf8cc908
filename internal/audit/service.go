package audit

import (
	"encoding/json"
	"fmt"

	"partnerdesk-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write records one audit entry. Before/After snapshots are serialized to
// JSON; a nil snapshot is stored as the JSON null (jsonb rejects the empty
// string).
func Write(db *gorm.DB, entry Entry) error {
	beforeStr := "null"
	afterStr := "null"

	if entry.Before != nil {
		if b, err := json.Marshal(entry.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if entry.After != nil {
		if b, err := json.Marshal(entry.After); err == nil {
			afterStr = string(b)
		}
	}

	row := models.AuditLog{
		UserID:      entry.UserID,
		UserName:    entry.UserName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      entry.Action,
		Description: entry.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}
