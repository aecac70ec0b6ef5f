package rrdata

import (
	"fmt"
	"strconv"
	"strings"
)

var srvFieldNames = [3]string{"priority", "weight", "port"}

// validateSRVData accepts "priority weight port target".
func validateSRVData(data string) error {
	parts := strings.Fields(data)
	if len(parts) != 4 {
		return fmt.Errorf("invalid SRV record format (expected 4 fields): %s", data)
	}

	// priority, weight, and port must be unsigned 16-bit integers
	for i, name := range srvFieldNames {
		if _, err := strconv.ParseUint(parts[i], 10, 16); err != nil {
			return fmt.Errorf("invalid SRV %s: %q", name, parts[i])
		}
	}

	// "." means the service is decidedly not available (RFC 2782)
	if parts[3] == "." {
		return nil
	}
	return validateTarget("SRV", parts[3])
}

// presentSRVData collapses the separating whitespace to single spaces and
// writes the target in ASCII form.
func presentSRVData(data string) string {
	fields := strings.Fields(data)
	if len(fields) == 4 {
		fields[3] = presentTarget(fields[3])
	}
	return strings.Join(fields, " ")
}
