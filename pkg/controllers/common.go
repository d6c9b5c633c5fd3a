package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/miniclay/miniclay-server/pkg/models"
)

// sendError writes the JSON error body used by every endpoint.
func sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// errStatus maps a model error to its HTTP status.
func errStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingSessionIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrSessionNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
