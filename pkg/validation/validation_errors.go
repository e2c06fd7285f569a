package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps json field names to user-friendly labels
var FieldLabels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"subject": "Subject",
	"message": "Message",
}

// MissingFields returns the labels of fields that failed a presence rule.
// Submitted values are never included.
func MissingFields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var fields []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required", "not_blank":
			fields = append(fields, getFieldLabel(e.Field()))
		}
	}
	return fields
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
