package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification. Callers match them with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrUnsupportedZoneType   = errors.New("unsupported zone type")
	ErrUnsupportedRecordType = errors.New("unsupported record type")
	ErrDuplicateZone         = errors.New("zone already exists")
)

// FieldError attributes a validation failure to a single input field.
// Field uses the persisted field name (e.g. "soa_serial"), so a form can
// highlight the offending input directly.
type FieldError struct {
	Field  string
	Reason string
	Err    error // optional sentinel cause, e.g. ErrUnsupportedZoneType
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every field-level failure found for one entity.
// It matches ErrValidation and any sentinel carried by its fields.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

// NewValidationError returns an empty ValidationError for the named entity kind.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity}
}

// Add appends a field failure.
func (e *ValidationError) Add(field, reason string, cause error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason, Err: cause})
}

// Merge appends all field failures from other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
}

// Field returns the first failure recorded for the named field.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// OrNil returns nil when no failures were recorded. It keeps callers from
// returning a typed nil pointer inside a non-nil error interface.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Fields)+1)
	errs = append(errs, ErrValidation)
	for _, f := range e.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// NotFoundError reports an entity id that is absent from storage.
type NotFoundError struct {
	Kind string // "zone" or "record"
	ID   string
}

// NewNotFound builds a NotFoundError for the given entity kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
