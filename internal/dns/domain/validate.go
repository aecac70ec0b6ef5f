package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/haukened/zonekeeper/internal/dns/common/utils"
)

// validate is shared by Zone and Record; a configured validator.Validate is safe
// for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their persisted (json) name so errors line up with form inputs
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "dns_name", func(fl validator.FieldLevel) bool {
		return utils.IsDomainName(fl.Field().String())
	})
	mustRegister(v, "dns_mailbox", func(fl validator.FieldLevel) bool {
		return utils.IsMailbox(fl.Field().String())
	})
	mustRegister(v, "record_name", func(fl validator.FieldLevel) bool {
		return utils.IsOwnerName(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct runs the struct tag rules and converts failures into field errors.
func validateStruct(entity string, s any) *ValidationError {
	ve := NewValidationError(entity)
	err := validate.Struct(s)
	if err == nil {
		return ve
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.Add("", err.Error(), nil)
		return ve
	}
	for _, fe := range verrs {
		ve.Add(fieldName(fe), reason(fe), nil)
	}
	return ve
}

// fieldName flattens a validator namespace ("Zone.soa.serial") into the
// persisted field name ("soa_serial").
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	return strings.ReplaceAll(ns, ".", "_")
}

func reason(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "dns_name":
		return "must be a valid domain name"
	case "dns_mailbox":
		return "must be a valid domain name or mailbox"
	case "record_name":
		return "must be @ or a valid domain name"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
