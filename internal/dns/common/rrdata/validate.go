package rrdata

import (
	"errors"
	"fmt"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

type codec struct {
	validate func(string) error
	present  func(string) string
}

// codecs is the dispatch table from record type to its value rules.
var codecs = map[domain.RRType]codec{
	domain.RRTypeA:     {validate: validateAData, present: verbatim},
	domain.RRTypeCNAME: {validate: validateCNAMEData, present: presentTarget},
	domain.RRTypePTR:   {validate: validatePTRData, present: presentTarget},
	domain.RRTypeTXT:   {validate: validateTXTData, present: presentTXTData},
	domain.RRTypeAAAA:  {validate: validateAAAAData, present: presentAAAAData},
	domain.RRTypeSRV:   {validate: validateSRVData, present: presentSRVData},
}

// Validate checks value against the syntax of record type t.
// Types without an entry fail with domain.ErrUnsupportedRecordType.
func Validate(t domain.RRType, value string) error {
	c, ok := codecs[t]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedRecordType, t)
	}
	return c.validate(value)
}

// Present returns value in zone-file presentation form for record type t.
// Values of unknown types are returned unchanged.
func Present(t domain.RRType, value string) string {
	c, ok := codecs[t]
	if !ok {
		return value
	}
	return c.present(value)
}

// ValidateRecord runs the record's field rules and the type-specific value
// syntax, reporting every failure in one *domain.ValidationError.
func ValidateRecord(r domain.Record) error {
	ve := domain.NewValidationError("record")
	if err := r.Validate(); err != nil {
		var fields *domain.ValidationError
		if !errors.As(err, &fields) {
			return err
		}
		ve.Merge(fields)
	}

	// value syntax only makes sense once the type is known and the value itself passed
	_, typeFailed := ve.Field("type")
	_, valueFailed := ve.Field("value")
	if !typeFailed && !valueFailed {
		if err := Validate(r.Type, r.Value); err != nil {
			ve.Add("value", err.Error(), nil)
		}
	}
	return ve.OrNil()
}
