package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator builds the request validator shared by the handlers: error
// keys use JSON tag names, and the wholenum rule rejects fractional values
// on numeric fields that must be integers (qty arrives as a JSON number).
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("wholenum", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
	return validate
}

// validationErrors flattens validator output into a field-keyed message map.
// prefix lets bulk payloads key errors per item ("items[2].qty").
func validationErrors(err error, prefix string) map[string]string {
	messages := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		messages[prefix+"body"] = err.Error()
		return messages
	}
	for _, e := range verrs {
		messages[prefix+e.Field()] = validationMessage(e)
	}
	return messages
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", e.Field(), e.Param())
	case "wholenum":
		return fmt.Sprintf("%s must be an integer", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", e.Field(), e.Tag())
	}
}

// serverError logs the underlying failure and returns the generic 500 body.
// Store failures are never retried here and never leak details to callers.
func serverError(c *fiber.Ctx, err error, context string) error {
	log.Printf("%s: %v", context, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
