package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"dog-grooming-booking/internal/domain/booking"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^09\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("ph_phone", validatePhone)
	_ = validate.RegisterValidation("strict_email", validateEmail)
	_ = validate.RegisterValidation("booking_status", validateBookingStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return booking.Status(fl.Field().String()).Valid()
}

// FormatValidationErrors turns validator output into messages keyed by JSON field name.
func FormatValidationErrors(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "ph_phone":
			messages = append(messages, fmt.Sprintf("%s must be 11 digits starting with 09", field))
		case "strict_email", "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "booking_status":
			messages = append(messages, fmt.Sprintf("%s must be one of %s", field, statusList()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}

func statusList() string {
	names := make([]string, len(booking.Statuses))
	for i, s := range booking.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
