// Package rrdata validates and formats the presentation-form value of each
// supported record type. Every type is served by one entry in a dispatch table
// so callers never switch on the type themselves.
package rrdata

import (
	"fmt"

	"github.com/haukened/zonekeeper/internal/dns/common/utils"
)

// maxTargetLength bounds domain-name values (CNAME, PTR, SRV target).
const maxTargetLength = 255

// validateTarget checks a domain name used as a record value.
func validateTarget(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s target must not be empty", kind)
	}
	if len(name) > maxTargetLength {
		return fmt.Errorf("%s target longer than %d characters", kind, maxTargetLength)
	}
	if !utils.IsDomainName(name) {
		return fmt.Errorf("invalid %s target: %s", kind, name)
	}
	return nil
}

// verbatim presents a value exactly as stored.
func verbatim(value string) string {
	return value
}

// presentTarget writes a domain-name value with internationalized labels in
// ASCII form.
func presentTarget(name string) string {
	return utils.ToASCIIName(name)
}
