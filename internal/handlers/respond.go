package handlers

import (
	"errors"
	"fmt"
	"log"

	"pasar/internal/apperrors"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to an HTTP response. Sentinel
// errors decide the status; anything unrecognized is a 500 with the
// detail logged rather than leaked.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrAuthenticationRequired):
		status = fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAccountBanned),
		errors.Is(err, apperrors.ErrNotOwner),
		errors.Is(err, apperrors.ErrVerificationRequired):
		status = fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadySeller):
		status = fiber.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidCode),
		errors.Is(err, apperrors.ErrAlreadyVerified),
		errors.Is(err, apperrors.ErrValidationFailed):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// respondBadBody is the shared reply for an unparseable request body.
func respondBadBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondValidation renders validator failures as a field -> message map.
func respondValidation(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return respondBadBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// requestOrigin captures where the request came from, for the activity
// trail.
func requestOrigin(c *fiber.Ctx) services.Origin {
	return services.Origin{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}
