// Package utils holds DNS name helpers shared by the domain model and the renderer.
package utils

import (
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// maxNameLength is the longest presentation-form domain name, without the trailing dot.
const maxNameLength = 253

// CanonicalDNSName returns a DNS name in canonical form for comparisons and keys:
// - Trimmed of surrounding whitespace
// - Internationalized labels converted to their ASCII (punycode) form
// - Lowercased
// - No trailing dot
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	if ascii, err := idna.ToASCII(name); err == nil {
		name = ascii
	}
	name = strings.ToLower(name)
	return strings.TrimRight(name, ".")
}

// Fqdn returns the canonical name as an absolute domain name. The empty name is the root.
func Fqdn(name string) string {
	c := CanonicalDNSName(name)
	if c == "" {
		return "."
	}
	return dns.Fqdn(c)
}

// ToASCIIName returns name with each internationalized label converted to
// its ASCII (punycode) form. ASCII labels, "@" and a trailing dot are kept as
// written. A name with a label idna rejects is returned unchanged.
func ToASCIIName(name string) string {
	if isASCII(name) {
		return name
	}
	labels := strings.Split(name, ".")
	for i, label := range labels {
		if isASCII(label) {
			continue
		}
		ascii, err := idna.ToASCII(strings.ToLower(label))
		if err != nil {
			return name
		}
		labels[i] = ascii
	}
	return strings.Join(labels, ".")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// IsDomainName reports whether name is a syntactically valid relative or absolute
// domain name. Labels are 1-63 characters of letters, digits, hyphen, underscore
// or slash (RFC 2317 delegations), may not start or end with a hyphen, and a
// single "*" is allowed as the leftmost label. The root "." is valid.
func IsDomainName(name string) bool {
	if name == "" {
		return false
	}
	if name == "." {
		return true
	}
	ascii, err := idna.ToASCII(name)
	if err != nil {
		return false
	}
	trimmed := strings.TrimSuffix(ascii, ".")
	if len(trimmed) > maxNameLength {
		return false
	}
	if n, ok := dns.IsDomainName(ascii); !ok || n == 0 {
		return false
	}
	for i, label := range strings.Split(trimmed, ".") {
		if !validLabel(label, i == 0) {
			return false
		}
	}
	return true
}

func validLabel(label string, leftmost bool) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label == "*" {
		return leftmost
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '/':
		default:
			return false
		}
	}
	return true
}

// IsOwnerName reports whether name may be used as a record owner: "@" for the
// zone apex or any valid domain name.
func IsOwnerName(name string) bool {
	return name == "@" || IsDomainName(name)
}

// IsMailbox reports whether s is a valid SOA RNAME, either in domain form
// (hostmaster.example.com.) or mailbox form (hostmaster@example.com).
func IsMailbox(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	if !ok {
		return IsDomainName(s)
	}
	if local == "" || strings.ContainsAny(local, "@ \t\\") {
		return false
	}
	for i := 0; i < len(local); i++ {
		if local[i] < 0x21 || local[i] > 0x7e {
			return false
		}
	}
	return IsDomainName(domain)
}

// MailboxToDomainName converts a mailbox-form RNAME into domain form, escaping
// dots in the local part. Names already in domain form are returned unchanged.
func MailboxToDomainName(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok {
		return s
	}
	return strings.ReplaceAll(local, ".", `\.`) + "." + dns.Fqdn(domain)
}
