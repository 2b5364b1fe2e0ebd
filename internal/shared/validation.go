package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/paulpark6/salesvision/internal/platform/httpx"
)

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match validation failures with httpx.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return httpx.ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RecordError ties an error to one record of a batch.
type RecordError struct {
	Index int
	Key   string
	Err   error
}

func (e RecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("record %d (%s): %v", e.Index, e.Key, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

type recordErrorJSON struct {
	Index   int    `json:"index"`
	Key     string `json:"key,omitempty"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// MarshalJSON renders the error with its message so batch errors survive the
// report cache and reach API clients.
func (e RecordError) MarshalJSON() ([]byte, error) {
	out := recordErrorJSON{Index: e.Index, Key: e.Key}
	if e.Err != nil {
		out.Message = e.Err.Error()
	}
	var verr *ValidationError
	if errors.As(e.Err, &verr) {
		out.Field = verr.Field
		out.Reason = verr.Reason
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a RecordError written by MarshalJSON.
func (e *RecordError) UnmarshalJSON(data []byte) error {
	var in recordErrorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Index = in.Index
	e.Key = in.Key
	switch {
	case in.Field != "":
		e.Err = NewValidationError(in.Field, in.Reason)
	case in.Message != "":
		e.Err = errors.New(in.Message)
	default:
		e.Err = nil
	}
	return nil
}

// Field returns the offending field when the cause is a ValidationError.
func (e RecordError) Field() string {
	var verr *ValidationError
	if errors.As(e.Err, &verr) {
		return verr.Field
	}
	return ""
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. decimal.Decimal fields reach tag
// validation as their exact string form; use the nonneg tag on them.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = validate.RegisterValidation("nonneg", validateNonNegative)
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateNonNegative accepts decimal values, in their string form, that are
// zero or positive.
func validateNonNegative(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// ValidateStruct runs struct validation and converts the first failure into a
// ValidationError naming the field.
func ValidateStruct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(fe.Field(), describeTag(fe))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "nonneg":
		return "must not be negative"
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// ParseAmount parses a non-negative money amount. Blank, non-numeric and
// negative input is rejected rather than coerced to zero.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, NewValidationError(field, "is required")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, NewValidationError(field, "must be numeric")
	}
	if value.IsNegative() {
		return decimal.Zero, NewValidationError(field, "must not be negative")
	}
	return value, nil
}

// ParseQuantity parses a non-negative integer quantity.
func ParseQuantity(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, NewValidationError(field, "is required")
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError(field, "must be an integer")
	}
	if value < 0 {
		return 0, NewValidationError(field, "must not be negative")
	}
	return value, nil
}
