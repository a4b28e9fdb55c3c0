package controllers

import (
	"errors"

	"trf-app/services"

	"github.com/gofiber/fiber/v2"
)

// actorID pulls the authenticated user out of Locals. JWT numeric claims
// arrive as float64.
func actorID(ctx *fiber.Ctx) int {
	if v, ok := ctx.Locals("userID").(float64); ok {
		return int(v)
	}
	return 0
}

// serviceError maps the domain error taxonomy onto HTTP responses.
// Anything unrecognized is a storage failure.
func serviceError(ctx *fiber.Ctx, err error) error {
	var assigned *services.AlreadyAssignedError
	if errors.As(err, &assigned) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      assigned.Error(),
			"trf_number": assigned.TRFNumber,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrEmptyBarcode),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrExpiredDate):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBarcodeInUse),
		errors.Is(err, services.ErrDuplicateTRF):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTRFNotFound),
		errors.Is(err, services.ErrBatchNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
