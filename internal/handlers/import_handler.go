package handlers

import (
	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ImportHandler struct {
	resourceService *services.ResourceService
	importService   *services.ImportService
}

func NewImportHandler(resourceService *services.ResourceService, importService *services.ImportService) *ImportHandler {
	return &ImportHandler{resourceService: resourceService, importService: importService}
}

// Import bulk-creates pre-extracted candidate records. Partial failure
// is the contract: per-item errors come back beside the created count.
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Resources) == 0 {
		return badRequest(c, "invalid request: resources must be a non-empty array")
	}

	result := h.resourceService.BulkCreate(req.Resources)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Scrape runs the extraction heuristic, either over pasted HTML or over
// a freshly fetched directory search page.
func (h *ImportHandler) Scrape(c *fiber.Ctx) error {
	var req dto.ScrapeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var (
		result *dto.ImportResult
		err    error
	)
	if req.HTML != "" {
		// The zipcode stands in for the city default; see ImportRemote.
		result, err = h.importService.ImportHTML(req.HTML, req.Category, req.Zipcode)
	} else {
		result, err = h.importService.ImportRemote(c.UserContext(), req.Category, req.Zipcode)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
