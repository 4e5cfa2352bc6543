package handlers

import (
	"errors"
	"log/slog"

	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors become an opaque 500; the cause is logged, never
// returned to the client.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case services.IsValidation(err):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrResourceNotFound),
		errors.Is(err, services.ErrSaveNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrVersionConflict):
		return respondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoResourcesFound):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return respondError(c, fiber.StatusUnauthorized, err.Error())
	}

	slog.Error("unhandled service error", "method", c.Method(), "path", c.Path(), "error", err)
	return respondError(c, fiber.StatusInternalServerError, "Internal server error")
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusBadRequest, message)
}

func unauthorized(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
}
