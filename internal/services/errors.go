package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors shared across services. Handlers translate these into
// HTTP statuses; anything unrecognized becomes a generic 500.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("field key already exists")
	ErrImmutableKey       = errors.New("field key cannot be changed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError lists every unsatisfied field of a request at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(key, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{key: message}}
}

// storageErr normalizes gorm/driver errors into the service taxonomy.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, gorm.ErrInvalidDB) {
		return ErrStorageUnavailable
	}
	return err
}
