package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"mailbox/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates request bodies by route, storing
// the result in Locals for the handler
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := strings.TrimSuffix(c.Path(), "/")
	var requestType any

	switch {
	case strings.HasSuffix(path, "/positions") && method == fiber.MethodPost:
		requestType = &core.CreatePositionRequest{}
	case strings.HasSuffix(path, "/turn") && method == fiber.MethodPut:
		requestType = &core.TurnRequest{}
	case strings.HasSuffix(path, "/analyze/batch") && method == fiber.MethodPost:
		requestType = &core.BatchAnalyzeRequest{}
	case strings.HasSuffix(path, "/analyze") && method == fiber.MethodPost:
		requestType = &core.AnalyzeRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// describeValidation renders validator errors as "; "-joined sentences
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	var details strings.Builder
	for _, fe := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}

		// drop the root struct name, keep slice indices for batch entries
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i != -1 {
			field = field[i+1:]
		}

		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", field))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min":
			if fe.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
			}
		case "max":
			if fe.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must have at most %s entries", field, fe.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return details.String()
}

// validatedBody returns the body stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (*T, bool) {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return nil, false
	}
	body, ok := c.Locals("validatedBody").(*T)
	return body, ok && body != nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
