package importer

import (
	"log"

	"partnerdesk-backend/internal/config"
	"partnerdesk-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// RunImportHandler re-runs the spreadsheet import against the configured
// import directory and returns the per-table summary.
// POST /api/admin/import/run (admin only)
func RunImportHandler(st *store.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log.Printf("Import: manual run requested from %s", cfg.ImportDir)
		summary := ImportAll(st, cfg.ImportDir)
		return c.JSON(summary)
	}
}
