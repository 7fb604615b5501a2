package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/domain"
)

func respondOK(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// respondError maps an error kind to its status code. Unclassified errors are
// logged under tag and reported as a generic 500.
func respondError(c *fiber.Ctx, tag string, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrArchiveNotConfigured):
		status = fiber.StatusServiceUnavailable
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", tag, c.Method(), c.Path(), err)
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// parseBody decodes the JSON body, reporting malformed input as a 400.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewRuleError(domain.ErrValidation, "Invalid request body")
	}
	return nil
}
