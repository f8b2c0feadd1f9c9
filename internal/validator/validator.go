package validator

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Expose decimal.Decimal fields as float64 so numeric tags (gt, gte)
	// work on money amounts.
	validate.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})

	return validate
}

func decimalToFloat(field reflect.Value) interface{} {
	if value, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := value.Float64()
		return f
	}

	return nil
}

// ValidationMessage converts validator errors into readable messages.
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s items", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "dive":
		return "contains an invalid item"
	default:
		return "is invalid"
	}
}
