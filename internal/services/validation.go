package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paydown/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper. Decimal amounts
// validate as numbers and dates as time values, and errors are reported
// under the JSON field names clients send.
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(dateValue, models.Date{})
	v.RegisterValidation("decimals", maxDecimals)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &ValidationHelper{
		validator: v,
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func dateValue(field reflect.Value) any {
	if d, ok := field.Interface().(models.Date); ok && !d.IsZero() {
		return d.Time
	}
	return nil
}

// maxDecimals rejects decimal fields carrying more fractional digits than
// the param allows. The custom type func has already turned the field into
// a float64, so the original decimal is read back from the parent struct.
func maxDecimals(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}

	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	field := parent.FieldByName(fl.StructFieldName())
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}

	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return models.HasPlaces(d, int32(places))
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var fieldErrs validator.ValidationErrors
	if errors.As(validationErr, &fieldErrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range fieldErrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}
