package service

import (
	"time"

	"fleetledger-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// validDate checks a YYYY-MM-DD field, returning a ValidationError that names
// the offending field.
func validDate(field, value string) error {
	if value == "" {
		return &domain.ValidationError{Field: field, Message: "required"}
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &domain.ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return nil
}
