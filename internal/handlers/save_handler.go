package handlers

import (
	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/services"
	"github.com/casesync/casesync/internal/session"
	"github.com/gofiber/fiber/v2"
)

type SaveHandler struct {
	saveService *services.SaveService
}

func NewSaveHandler(saveService *services.SaveService) *SaveHandler {
	return &SaveHandler{saveService: saveService}
}

func (h *SaveHandler) Save(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "resource ID must be an integer")
	}

	alreadySaved, err := h.saveService.Save(c.UserContext(), actor.ID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	if alreadySaved {
		return c.JSON(dto.SaveResponse{Message: "Resource already saved", AlreadySaved: true})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaveResponse{Message: "Resource saved successfully"})
}

func (h *SaveHandler) Unsave(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "resource ID must be an integer")
	}

	resource, err := h.saveService.Unsave(c.UserContext(), actor.ID, uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.UnsaveResponse{Message: "Resource unsaved successfully", Resource: resource})
}

func (h *SaveHandler) ListSaved(c *fiber.Ctx) error {
	actor, err := session.CurrentActor(c)
	if err != nil {
		return unauthorized(c)
	}

	resources, err := h.saveService.ListSaved(c.UserContext(), actor.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resources)
}
