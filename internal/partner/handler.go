package partner

import (
	"log"
	"strconv"
	"strings"
	"time"

	"partnerdesk-backend/internal/audit"
	"partnerdesk-backend/internal/auth"
	"partnerdesk-backend/internal/discount"
	"partnerdesk-backend/internal/models"
	"partnerdesk-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// PartnerForm carries the add/edit form fields. Rating arrives as text and
// is validated separately: it must parse as an integer >= 0.
type PartnerForm struct {
	Name         string `json:"name" form:"name"`
	Type         string `json:"type" form:"type"`
	Rating       string `json:"rating" form:"rating"`
	Address      string `json:"address" form:"address"`
	DirectorName string `json:"director_name" form:"director_name"`
	Phone        string `json:"phone" form:"phone"`
	Email        string `json:"email" form:"email"`
}

// PartnerWithDiscount is one row of the partner listing: the partner plus
// its cumulative sale quantity and the discount derived from it.
type PartnerWithDiscount struct {
	models.Partner
	TotalQuantity int64 `json:"total_quantity"`
	Discount      int   `json:"discount"`
}

// GET /ee
// Lists every partner with the discount computed from the live sum of its
// sale quantities. Partners without sales show a total of 0.
func ListPartnersHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		partners, err := st.ListPartners()
		if err != nil {
			return err
		}
		totals, err := st.SaleTotals()
		if err != nil {
			return err
		}

		res := make([]PartnerWithDiscount, 0, len(partners))
		for _, p := range partners {
			total := totals[p.ID] // missing key reads as 0
			res = append(res, PartnerWithDiscount{
				Partner:       p,
				TotalQuantity: total,
				Discount:      discount.Compute(total),
			})
		}
		return c.JSON(res)
	}
}

// GET /add_partner_form
// Returns the empty form skeleton for the rendering layer.
func AddPartnerFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(PartnerForm{})
	}
}

// POST /add_partner_form
// Validates the submission, assigns the registration date server-side and
// redirects to the listing.
func AddPartnerHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form PartnerForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form data")
		}

		rating, err := validateRating(form.Rating)
		if err != nil {
			return err
		}

		p := models.Partner{
			Name:             form.Name,
			Type:             form.Type,
			Rating:           rating,
			Address:          form.Address,
			DirectorName:     form.DirectorName,
			Phone:            form.Phone,
			Email:            form.Email,
			RegistrationDate: time.Now(),
		}
		if err := st.CreatePartner(&p); err != nil {
			return err
		}

		if err := audit.Write(st.DB(), audit.Entry{
			UserID:      actorID(c),
			UserName:    actorName(c),
			EntityType:  "partner",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "partner registered: " + p.Name,
			After:       p,
		}); err != nil {
			log.Printf("audit write failed: %v", err)
		}

		return c.Redirect("/ee", fiber.StatusSeeOther)
	}
}

// GET /edit_partner_form/:partner_id
// Returns the existing record for pre-filling the form. Unknown ids are a
// hard 404.
func EditPartnerFormHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parsePartnerID(c)
		if err != nil {
			return err
		}
		p, err := st.GetPartner(id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// POST /edit_partner_form/:partner_id
// Same validation as add. The registration date is never part of the
// update. Redirects to the listing on success.
func EditPartnerHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parsePartnerID(c)
		if err != nil {
			return err
		}
		before, err := st.GetPartner(id)
		if err != nil {
			return err
		}

		var form PartnerForm
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form data")
		}

		rating, err := validateRating(form.Rating)
		if err != nil {
			return err
		}

		p := models.Partner{
			ID:           id,
			Name:         form.Name,
			Type:         form.Type,
			Rating:       rating,
			Address:      form.Address,
			DirectorName: form.DirectorName,
			Phone:        form.Phone,
			Email:        form.Email,
		}
		if err := st.UpdatePartner(&p); err != nil {
			return err
		}

		if err := audit.Write(st.DB(), audit.Entry{
			UserID:      actorID(c),
			UserName:    actorName(c),
			EntityType:  "partner",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "partner edited: " + p.Name,
			Before:      before,
			After:       p,
		}); err != nil {
			log.Printf("audit write failed: %v", err)
		}

		return c.Redirect("/ee", fiber.StatusSeeOther)
	}
}

// GET /partner_sales/:partner_id
// The partner's sales joined with product names, ordered by sale date.
func PartnerSalesHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parsePartnerID(c)
		if err != nil {
			return err
		}
		if _, err := st.GetPartner(id); err != nil {
			return err
		}
		sales, err := st.PartnerSales(id)
		if err != nil {
			return err
		}
		return c.JSON(sales)
	}
}

func validateRating(raw string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: "rating", Message: "rating must be an integer"}
	}
	if rating < 0 {
		return 0, &ValidationError{Field: "rating", Message: "rating must be a non-negative integer"}
	}
	return rating, nil
}

func parsePartnerID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("partner_id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid partner id")
	}
	return uint(id), nil
}

// actorID / actorName read the authenticated user when the auth middleware
// ran; the public form routes record the zero actor.
func actorID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}

func actorName(c *fiber.Ctx) string {
	if name, ok := c.Locals(auth.CtxUserNameKey).(string); ok {
		return name
	}
	return "web form"
}
