package domain

import (
	"fmt"
	"time"
)

// MaxSerial is the largest SOA serial; incrementing past it wraps to 1, never 0.
const MaxSerial uint32 = 0xFFFFFFFF

// NextSerial returns the serial following s. The sequence wraps from MaxSerial
// back to 1, since 0 is outside the valid serial range.
func NextSerial(s uint32) uint32 {
	if s == MaxSerial {
		return 1
	}
	return s + 1
}

// SerialPolicy decides the initial serial of a zone created with AutoSerial.
type SerialPolicy string

const (
	// SerialPolicyDate starts at YYYYMMDD00 using the creation date (UTC).
	SerialPolicyDate SerialPolicy = "date"
	// SerialPolicyCounter starts at 1.
	SerialPolicyCounter SerialPolicy = "counter"
)

// ParseSerialPolicy validates a policy name.
func ParseSerialPolicy(s string) (SerialPolicy, error) {
	switch p := SerialPolicy(s); p {
	case SerialPolicyDate, SerialPolicyCounter:
		return p, nil
	default:
		return "", fmt.Errorf("unknown serial policy %q", s)
	}
}

// Initial returns the first serial for a zone created at now.
func (p SerialPolicy) Initial(now time.Time) uint32 {
	if p != SerialPolicyDate {
		return 1
	}
	now = now.UTC()
	return uint32(now.Year())*1_000_000 + uint32(now.Month())*10_000 + uint32(now.Day())*100
}
