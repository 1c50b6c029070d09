package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/models"
)

// respondError maps domain errors onto HTTP statuses. Anything outside the
// taxonomy surfaces as a 500 with the underlying message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return respondMessage(c, fiber.StatusNotFound, err)
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidStatus):
		return respondMessage(c, fiber.StatusBadRequest, err)
	case errors.Is(err, models.ErrDuplicateEmail):
		return respondMessage(c, fiber.StatusConflict, err)
	case errors.Is(err, models.ErrInvalidCredentials):
		return respondMessage(c, fiber.StatusUnauthorized, err)
	}
	log.Printf("Unhandled error: %v", err)
	return respondMessage(c, fiber.StatusInternalServerError, err)
}

func respondMessage(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// respondValidation reports per-field validation failures.
func respondValidation(c *fiber.Ctx, err error) error {
	fieldErrors := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fieldErrors[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}
