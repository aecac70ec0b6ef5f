package domain

import (
	"fmt"
	"strings"
)

// RRType represents a DNS resource record type code (e.g. A, AAAA, SRV).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants known to the zone model.
const (
	RRTypeA     RRType = 1  // A - IPv4 address
	RRTypeNS    RRType = 2  // NS - Name server
	RRTypeCNAME RRType = 5  // CNAME - Canonical name
	RRTypeSOA   RRType = 6  // SOA - Start of authority
	RRTypePTR   RRType = 12 // PTR - Pointer
	RRTypeMX    RRType = 15 // MX - Mail exchange
	RRTypeTXT   RRType = 16 // TXT - Text
	RRTypeAAAA  RRType = 28 // AAAA - IPv6 address
	RRTypeSRV   RRType = 33 // SRV - Service
)

// supportedRecordTypes lists the record types that may be stored in a zone, in
// the order they are offered to operators.
var supportedRecordTypes = []RRType{
	RRTypeA,
	RRTypeAAAA,
	RRTypeCNAME,
	RRTypeTXT,
	RRTypeSRV,
	RRTypePTR,
}

// SupportedRecordTypes returns a copy of the record types a zone may hold.
func SupportedRecordTypes() []RRType {
	out := make([]RRType, len(supportedRecordTypes))
	copy(out, supportedRecordTypes)
	return out
}

// IsSupported reports whether records of this type can be stored in a zone.
func (t RRType) IsSupported() bool {
	switch t {
	case RRTypeA, RRTypeAAAA, RRTypeCNAME, RRTypeTXT, RRTypeSRV, RRTypePTR:
		return true
	default:
		return false
	}
}

// String returns the mnemonic of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeNS:
		return "NS"
	case RRTypeCNAME:
		return "CNAME"
	case RRTypeSOA:
		return "SOA"
	case RRTypePTR:
		return "PTR"
	case RRTypeMX:
		return "MX"
	case RRTypeTXT:
		return "TXT"
	case RRTypeAAAA:
		return "AAAA"
	case RRTypeSRV:
		return "SRV"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}

// RRTypeFromString converts a record type mnemonic (case-insensitive) to its RRType.
// Unknown mnemonics return 0.
func RRTypeFromString(s string) RRType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return RRTypeA
	case "NS":
		return RRTypeNS
	case "CNAME":
		return RRTypeCNAME
	case "SOA":
		return RRTypeSOA
	case "PTR":
		return RRTypePTR
	case "MX":
		return RRTypeMX
	case "TXT":
		return RRTypeTXT
	case "AAAA":
		return RRTypeAAAA
	case "SRV":
		return RRTypeSRV
	default:
		return 0
	}
}
