package rrdata

import (
	"fmt"
	"net/netip"
)

// validateAAAAData accepts an IPv6 address without a zone index.
func validateAAAAData(data string) error {
	// data = "2001:db8::1"
	addr, err := netip.ParseAddr(data)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return fmt.Errorf("invalid AAAA record IP: %s", data)
	}
	return nil
}

// presentAAAAData renders the address in RFC 5952 canonical form.
func presentAAAAData(data string) string {
	addr, err := netip.ParseAddr(data)
	if err != nil {
		return data
	}
	return addr.String()
}
