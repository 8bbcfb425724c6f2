package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/service"
)

// TaxonomyHandler manages the craft and specialty catalogs.
type TaxonomyHandler struct {
	taxonomy *service.TaxonomyService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomy *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

type craftRequest struct {
	Name string `json:"name"`
}

type specialtyRequest struct {
	CraftID int64  `json:"craft_id"`
	Name    string `json:"name"`
}

// ListCrafts handles GET /crafts.
func (h *TaxonomyHandler) ListCrafts(c *fiber.Ctx) error {
	crafts, err := h.taxonomy.ListCrafts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": crafts})
}

// CreateCraft handles POST /crafts.
func (h *TaxonomyHandler) CreateCraft(c *fiber.Ctx) error {
	var req craftRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	craft, err := h.taxonomy.CreateCraft(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": craft})
}

// ListSpecialties handles GET /specialties with an optional craft_id query.
func (h *TaxonomyHandler) ListSpecialties(c *fiber.Ctx) error {
	craftID := int64(c.QueryInt("craft_id", 0))
	specialties, err := h.taxonomy.ListSpecialties(c.UserContext(), craftID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": specialties})
}

// CreateSpecialty handles POST /specialties.
func (h *TaxonomyHandler) CreateSpecialty(c *fiber.Ctx) error {
	var req specialtyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	specialty, err := h.taxonomy.CreateSpecialty(c.UserContext(), req.CraftID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": specialty})
}
