package audit

import (
	"strconv"

	"partnerdesk-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/admin/audit-logs?entity_type=partner&entity_id=3&limit=50
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Model(&models.AuditLog{}).Order("created_at desc")

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			entityID, err := strconv.ParseUint(entityIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid entity_id")
			}
			q = q.Where("entity_id = ?", uint(entityID))
		}

		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			n, err := strconv.Atoi(limitStr)
			if err != nil || n < 1 || n > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
			}
			limit = n
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}

		return c.JSON(logs)
	}
}
