package utils

import (
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalDNSName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple domain", "example.com", "example.com"},
		{"trailing dot removed", "example.com.", "example.com"},
		{"multiple trailing dots", "example.com..", "example.com"},
		{"uppercase", "EXAMPLE.COM", "example.com"},
		{"surrounding whitespace", "  www.Example.com. \t", "www.example.com"},
		{"root", ".", ""},
		{"empty", "", ""},
		{"idn converted to punycode", "bücher.example", "xn--bcher-kva.example"},
		{"underscore labels kept", "_sip._tcp.Example.com", "_sip._tcp.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalDNSName(tt.input))
		})
	}
}

func TestCanonicalDNSName_Idempotent(t *testing.T) {
	for _, input := range []string{"example.com", "EXAMPLE.COM.", "  www.example.com  ", "bücher.example", "."} {
		first := CanonicalDNSName(input)
		assert.Equal(t, first, CanonicalDNSName(first), "input %q", input)
	}
}

func TestFqdn(t *testing.T) {
	assert.Equal(t, "example.com.", Fqdn("Example.com"))
	assert.Equal(t, "example.com.", Fqdn("example.com."))
	assert.Equal(t, ".", Fqdn(""))
	assert.Equal(t, ".", Fqdn("."))
	assert.True(t, dns.IsFqdn(Fqdn("www.example.com")))
}

func TestToASCIIName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"www", "www"},
		{"@", "@"},
		{"Mixed.Example.com.", "Mixed.Example.com."},
		{"bücher", "xn--bcher-kva"},
		{"münchen.example.com.", "xn--mnchen-3ya.example.com."},
		{"*.Bücher.example", "*.xn--bcher-kva.example"},
		{`host\.master.bücher.example.`, `host\.master.xn--bcher-kva.example.`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToASCIIName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, CanonicalDNSName(tt.input), CanonicalDNSName(got))
		})
	}
}

func TestIsDomainName(t *testing.T) {
	long63 := strings.Repeat("a", 63)
	tests := []struct {
		input string
		want  bool
	}{
		{"example.com", true},
		{"example.com.", true},
		{"www", true},
		{".", true},
		{"*.example.com", true},
		{"_sip._tcp.example.com.", true},
		{"0/26.2.0.192.in-addr.arpa.", true},
		{"sub-domain.example-site.com", true},
		{"bücher.example", true},
		{long63 + ".com", true},
		{"", false},
		{" ", false},
		{"example..com", false},
		{".example.com", false},
		{"-bad.example.com", false},
		{"bad-.example.com", false},
		{"www.*.example.com", false},
		{"exa mple.com", false},
		{"exa$mple.com", false},
		{strings.Repeat("a", 64) + ".com", false},
		{strings.Repeat(long63+".", 4) + "com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDomainName(tt.input), "IsDomainName(%q)", tt.input)
	}
}

func TestIsDomainName_LengthBoundary(t *testing.T) {
	// 3 x 63 + 61 + 3 dots = 253 characters
	name := strings.Repeat(strings.Repeat("a", 63)+".", 3) + strings.Repeat("b", 61)
	assert.Len(t, name, 253)
	assert.True(t, IsDomainName(name))
	assert.True(t, IsDomainName(name+"."))
	assert.False(t, IsDomainName("c"+name))
}

func TestIsOwnerName(t *testing.T) {
	assert.True(t, IsOwnerName("@"))
	assert.True(t, IsOwnerName("www"))
	assert.True(t, IsOwnerName("*"))
	assert.False(t, IsOwnerName("@@"))
	assert.False(t, IsOwnerName(""))
}

func TestIsMailbox(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"hostmaster.example.com.", true},
		{"hostmaster@example.com", true},
		{"first.last@example.com", true},
		{"@example.com", false},
		{"a b@example.com", false},
		{"a@b@example.com", false},
		{"hostmaster@", false},
		{"not a name", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMailbox(tt.input), "IsMailbox(%q)", tt.input)
	}
}

func TestMailboxToDomainName(t *testing.T) {
	assert.Equal(t, "hostmaster.example.com.", MailboxToDomainName("hostmaster@example.com"))
	assert.Equal(t, `first\.last.example.com.`, MailboxToDomainName("first.last@example.com"))
	assert.Equal(t, "hostmaster.example.com.", MailboxToDomainName("hostmaster.example.com."))
}
