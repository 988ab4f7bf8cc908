package server

import (
	"errors"
	"log"
	"strings"

	"partnerdesk-backend/internal/audit"
	"partnerdesk-backend/internal/auth"
	"partnerdesk-backend/internal/config"
	"partnerdesk-backend/internal/importer"
	"partnerdesk-backend/internal/models"
	"partnerdesk-backend/internal/partner"
	"partnerdesk-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

// New builds the Fiber app with all routes wired to the given database
// handle. main calls it once; tests call it against an in-memory store.
func New(db *gorm.DB, cfg *config.Config) *fiber.App {
	st := store.New(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Partner-facing surface. The rendering layer depends on these exact
	// paths, including the listing on both / and /ee.
	app.Get("/", partner.ListPartnersHandler(st))
	app.Get("/ee", partner.ListPartnersHandler(st))
	app.Get("/add_partner_form", partner.AddPartnerFormHandler())
	app.Post("/add_partner_form", partner.AddPartnerHandler(st))
	app.Get("/edit_partner_form/:partner_id", partner.EditPartnerFormHandler(st))
	app.Post("/edit_partner_form/:partner_id", partner.EditPartnerHandler(st))
	app.Get("/partner_sales/:partner_id", partner.PartnerSalesHandler(st))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/import/run", importer.RunImportHandler(st, cfg))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	return app
}

// errorHandler maps typed outcomes to responses: validation failures render
// inline with a 400, missing records are a 404, anything unexpected is a
// generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var vErr *partner.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Message,
			"field": vErr.Field,
		})
	}

	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	log.Println("Unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}
