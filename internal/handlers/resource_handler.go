package handlers

import (
	"time"

	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/models"
	"github.com/casesync/casesync/internal/services"
	"github.com/casesync/casesync/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ResourceHandler struct {
	resourceService *services.ResourceService
}

func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

func (h *ResourceHandler) List(c *fiber.Ctx) error {
	filters := dto.ListFilters{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Zipcode:  c.Query("zipcode"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	clampPaging(&filters.Page, &filters.Limit)

	if filters.Status != "" && !models.ValidStatus(filters.Status) {
		return badRequest(c, "invalid status value")
	}

	resources, total, err := h.resourceService.List(filters)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(listEnvelope(resources, total, filters.Page, filters.Limit))
}

func (h *ResourceHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return badRequest(c, "search query is required")
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	clampPaging(&page, &limit)

	resources, total, err := h.resourceService.Search(query, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(listEnvelope(resources, total, page, limit))
}

func (h *ResourceHandler) Updates(c *fiber.Ctx) error {
	raw := c.Query("since")
	if raw == "" {
		return badRequest(c, `the "since" query parameter (ISO8601 timestamp) is required`)
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return badRequest(c, `invalid timestamp format for "since" parameter (ISO8601 expected)`)
	}

	resources, err := h.resourceService.UpdatedSince(since)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resources)
}

func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "resource ID must be an integer")
	}

	resource, err := h.resourceService.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resource)
}

func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resource, err := h.resourceService.Create(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Resource created successfully",
		"resource": resource,
	})
}

// Update is the combined mutation endpoint: status transition,
// contactDetails merge, and note append in one call.
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "resource ID must be an integer")
	}

	var req dto.UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resource, err := h.resourceService.ApplyUpdate(c.UserContext(), uint(id), &req, actor)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.UpdateResourceResponse{
		Message:  "Resource update submitted successfully",
		Resource: resource,
	})
}

func (h *ResourceHandler) AddNote(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "resource ID must be an integer")
	}

	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	notes, err := h.resourceService.AddNote(c.UserContext(), uint(id), req.Content, actor)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AddNoteResponse{
		Message: "Note added successfully",
		Notes:   notes,
	})
}

// NormalizeCategories is admin housekeeping: title-case every stored
// category and report the distinct renames.
func (h *ResourceHandler) NormalizeCategories(c *fiber.Ctx) error {
	renamed, err := h.resourceService.NormalizeCategories(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.NormalizeCategoriesResponse{
		Message: "Categories normalized",
		Renamed: renamed,
	})
}

func listEnvelope(resources []models.Resource, total int64, page, limit int) dto.ListResponse {
	if resources == nil {
		resources = []models.Resource{}
	}
	return dto.ListResponse{
		CurrentPage:    page,
		TotalPages:     (total + int64(limit) - 1) / int64(limit),
		TotalResources: total,
		Resources:      resources,
	}
}

func clampPaging(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 || *limit > 100 {
		*limit = 10
	}
}
