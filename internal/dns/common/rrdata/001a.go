package rrdata

import (
	"fmt"
	"net/netip"
)

// validateAData accepts a dotted-decimal IPv4 address.
func validateAData(data string) error {
	// data = "192.0.2.1"
	addr, err := netip.ParseAddr(data)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("invalid A record IP: %s", data)
	}
	return nil
}
