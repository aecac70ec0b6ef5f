package rrdata

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

func TestCodecs_CoverSupportedTypes(t *testing.T) {
	for _, rt := range domain.SupportedRecordTypes() {
		_, ok := codecs[rt]
		assert.True(t, ok, "no codec for %s", rt)
	}
	assert.Len(t, codecs, len(domain.SupportedRecordTypes()))
}

func TestValidate_Dispatch(t *testing.T) {
	require.NoError(t, Validate(domain.RRTypeA, "192.0.2.1"))
	require.Error(t, Validate(domain.RRTypeA, "2001:db8::1"))
	require.NoError(t, Validate(domain.RRTypeAAAA, "2001:db8::1"))
	require.NoError(t, Validate(domain.RRTypeSRV, "10 20 5060 sip.example.com"))

	err := Validate(domain.RRTypeMX, "10 mail.example.com.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedRecordType))
}

func TestPresent(t *testing.T) {
	assert.Equal(t, "192.0.2.1", Present(domain.RRTypeA, "192.0.2.1"))
	assert.Equal(t, `"hello"`, Present(domain.RRTypeTXT, "hello"))
	assert.Equal(t, "10 20 5060 sip.example.com", Present(domain.RRTypeSRV, "10  20 5060  sip.example.com"))
	assert.Equal(t, "raw", Present(domain.RRType(999), "raw"))
}

func validRecord(t domain.RRType, value string) domain.Record {
	r := domain.NewRecord("www", t, value)
	r.ZoneID = "zone-1"
	return r
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    domain.Record
		wantField string
		wantIs    error
	}{
		{name: "valid A", record: validRecord(domain.RRTypeA, "192.0.2.1")},
		{name: "valid AAAA", record: validRecord(domain.RRTypeAAAA, "2001:db8::1")},
		{name: "valid CNAME", record: validRecord(domain.RRTypeCNAME, "target.example.com.")},
		{name: "valid TXT", record: validRecord(domain.RRTypeTXT, "v=spf1 -all")},
		{name: "valid SRV", record: validRecord(domain.RRTypeSRV, "10 20 5060 sip.example.com")},
		{name: "valid PTR", record: validRecord(domain.RRTypePTR, "host.example.com.")},
		{name: "bad A", record: validRecord(domain.RRTypeA, "192.0.2.999"), wantField: "value"},
		{name: "not an ip", record: validRecord(domain.RRTypeA, "not-an-ip"), wantField: "value"},
		{name: "bad SRV port", record: validRecord(domain.RRTypeSRV, "10 20 abc sip.example.com"), wantField: "value"},
		{name: "unsupported type", record: validRecord(domain.RRTypeMX, "10 mail"), wantField: "type", wantIs: domain.ErrUnsupportedRecordType},
		{name: "zero type", record: validRecord(0, "x"), wantField: "type", wantIs: domain.ErrUnsupportedRecordType},
		{
			name: "ttl too large",
			record: func() domain.Record {
				r := validRecord(domain.RRTypeA, "192.0.2.1")
				r.TTL = 604801
				return r
			}(),
			wantField: "ttl",
		},
		{
			name: "ttl zero",
			record: func() domain.Record {
				r := validRecord(domain.RRTypeA, "192.0.2.1")
				r.TTL = 0
				return r
			}(),
			wantField: "ttl",
		},
		{
			name: "name too long",
			record: func() domain.Record {
				r := validRecord(domain.RRTypeA, "192.0.2.1")
				r.Name = strings.Repeat("a", 256)
				return r
			}(),
			wantField: "name",
		},
		{
			name: "bad status",
			record: func() domain.Record {
				r := validRecord(domain.RRTypeA, "192.0.2.1")
				r.Status = "maybe"
				return r
			}(),
			wantField: "status",
		},
		{
			name: "value too long",
			record: func() domain.Record {
				return validRecord(domain.RRTypeTXT, strings.Repeat("x", 65536))
			}(),
			wantField: "value",
		},
		{
			name: "missing zone",
			record: func() domain.Record {
				r := validRecord(domain.RRTypeA, "192.0.2.1")
				r.ZoneID = ""
				return r
			}(),
			wantField: "zone_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			_, ok := ve.Field(tt.wantField)
			assert.True(t, ok, "expected failure on field %q, got %v", tt.wantField, ve)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestValidateRecord_SingleValueErrorForOversizedValue(t *testing.T) {
	err := ValidateRecord(validRecord(domain.RRTypeTXT, strings.Repeat("x", 65536)))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	count := 0
	for _, f := range ve.Fields {
		if f.Field == "value" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
