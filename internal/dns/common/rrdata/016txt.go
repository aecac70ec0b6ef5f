package rrdata

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxTXTLength is the largest TXT value accepted, in characters.
	maxTXTLength = 65535
	// txtSegmentLength is the largest character-string in RDATA (RFC 1035 3.3).
	txtSegmentLength = 255
)

// validateTXTData accepts free text up to maxTXTLength characters.
func validateTXTData(data string) error {
	if n := utf8.RuneCountInString(data); n > maxTXTLength {
		return fmt.Errorf("TXT record too long: %d characters", n)
	}
	return nil
}

// presentTXTData renders the value as one or more quoted character-strings of
// at most 255 octets each, escaping quotes, backslashes and non-printable bytes.
func presentTXTData(data string) string {
	if data == "" {
		return `""`
	}
	var b strings.Builder
	for start := 0; start < len(data); start += txtSegmentLength {
		end := min(start+txtSegmentLength, len(data))
		if start > 0 {
			b.WriteByte(' ')
		}
		writeQuoted(&b, data[start:end])
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, segment string) {
	b.WriteByte('"')
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(b, "\\%03d", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
