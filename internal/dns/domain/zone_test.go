package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func fieldErr(t *testing.T, err error, field string) FieldError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	fe, ok := ve.Field(field)
	require.True(t, ok, "expected failure on %q, got %v", field, ve.Fields)
	return fe
}

func TestNewZone_Defaults(t *testing.T) {
	z := NewZone("example.com")
	assert.Equal(t, ZoneTypePrimary, z.Type)
	assert.Equal(t, ZoneStatusActive, z.Status)
	assert.Equal(t, uint32(3600), z.DefaultTTL)
	assert.Equal(t, SOA{TTL: 3600, Serial: 1, Refresh: 3600, Retry: 900, Expire: 604800, Minimum: 3600}, z.SOA)
	assert.True(t, z.AutoSerial)
	require.NoError(t, z.Validate())
}

func TestZone_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Zone)
		field  string
	}{
		{"missing name", func(z *Zone) { z.Name = "" }, "name"},
		{"bad name", func(z *Zone) { z.Name = "exa mple.com" }, "name"},
		{"long name", func(z *Zone) { z.Name = strings.Repeat("a.", 127) + "com" }, "name"},
		{"missing type", func(z *Zone) { z.Type = "" }, "type"},
		{"unknown type", func(z *Zone) { z.Type = "master" }, "type"},
		{"bad status", func(z *Zone) { z.Status = "paused" }, "status"},
		{"zero ttl", func(z *Zone) { z.DefaultTTL = 0 }, "default_ttl"},
		{"ttl too large", func(z *Zone) { z.DefaultTTL = 604801 }, "default_ttl"},
		{"zero serial", func(z *Zone) { z.SOA.Serial = 0 }, "soa_serial"},
		{"zero refresh", func(z *Zone) { z.SOA.Refresh = 0 }, "soa_refresh"},
		{"zero retry", func(z *Zone) { z.SOA.Retry = 0 }, "soa_retry"},
		{"zero expire", func(z *Zone) { z.SOA.Expire = 0 }, "soa_expire"},
		{"zero minimum", func(z *Zone) { z.SOA.Minimum = 0 }, "soa_minimum"},
		{"bad mname", func(z *Zone) { z.SOA.MName = "ns1..example.com" }, "soa_mname"},
		{"bad rname", func(z *Zone) { z.SOA.RName = "not a mailbox" }, "soa_rname"},
		{"long description", func(z *Zone) { z.Description = strings.Repeat("x", 256) }, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewZone("example.com")
			tt.mutate(&z)
			err := z.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			fieldErr(t, err, tt.field)
		})
	}
}

func TestZone_Validate_AcceptedForms(t *testing.T) {
	for _, mutate := range []func(*Zone){
		func(z *Zone) { z.Name = "example.com." },
		func(z *Zone) { z.Name = "bücher.example" },
		func(z *Zone) { z.SOA.MName = "ns1.example.com." },
		func(z *Zone) { z.SOA.RName = "hostmaster.example.com" },
		func(z *Zone) { z.SOA.RName = "host.master@example.com" },
		func(z *Zone) { z.SOA.TTL = 0 },
		func(z *Zone) { z.SOA.Serial = MaxSerial },
		func(z *Zone) { z.Type = ZoneTypeDisabled },
	} {
		z := NewZone("example.com")
		mutate(&z)
		assert.NoError(t, z.Validate(), "%+v", z)
	}
}

func TestZone_Validate_UnsupportedTypes(t *testing.T) {
	for _, zt := range []ZoneType{ZoneTypeSecondary, ZoneTypeStub, ZoneTypeForward} {
		t.Run(string(zt), func(t *testing.T) {
			z := NewZone("example.com")
			z.Type = zt
			err := z.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedZoneType)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	z := NewZone("example.com")
	z.Type = "master"
	assert.NotErrorIs(t, z.Validate(), ErrUnsupportedZoneType)
}

func TestZone_Validate_ReportsAllFields(t *testing.T) {
	z := NewZone("")
	z.DefaultTTL = 0
	z.SOA.Retry = 0
	var ve *ValidationError
	require.ErrorAs(t, z.Validate(), &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestZone_Names(t *testing.T) {
	z := NewZone("Example.COM.")
	assert.Equal(t, "example.com", z.CanonicalName())
	assert.Equal(t, "Example.COM.", z.Origin())
	assert.Equal(t, "example.com.", NewZone("example.com").Origin())
}

func TestZone_IsDisabled(t *testing.T) {
	z := NewZone("example.com")
	assert.False(t, z.IsDisabled())
	z.Status = ZoneStatusDisabled
	assert.True(t, z.IsDisabled())
	z.Status = ZoneStatusActive
	z.Type = ZoneTypeDisabled
	assert.True(t, z.IsDisabled())
}

func TestZone_SameContent(t *testing.T) {
	a := NewZone("example.com")
	b := a
	b.ID = "other"
	b.Created = time.Now()
	b.Updated = time.Now()
	assert.True(t, a.SameContent(b))

	b.Description = "changed"
	assert.False(t, a.SameContent(b))
}

func TestZone_BumpSerial(t *testing.T) {
	z := NewZone("example.com")
	z.SOA.Serial = 41
	z.BumpSerial()
	assert.Equal(t, uint32(42), z.SOA.Serial)

	z.SOA.Serial = MaxSerial
	z.BumpSerial()
	assert.Equal(t, uint32(1), z.SOA.Serial)

	z.AutoSerial = false
	z.BumpSerial()
	assert.Equal(t, uint32(1), z.SOA.Serial)
}

func TestZonePatch_Apply(t *testing.T) {
	z := NewZone("example.com")
	z.ID = "id-1"

	got := ZonePatch{
		Description: ptr("lab"),
		Status:      ptr(ZoneStatusDisabled),
		SOA:         SOAPatch{MName: ptr("ns1.example.com."), Retry: ptr(uint32(600))},
	}.Apply(z)

	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "example.com", got.Name)
	assert.Equal(t, "lab", got.Description)
	assert.Equal(t, ZoneStatusDisabled, got.Status)
	assert.Equal(t, "ns1.example.com.", got.SOA.MName)
	assert.Equal(t, uint32(600), got.SOA.Retry)
	assert.Equal(t, uint32(3600), got.SOA.Refresh)

	assert.True(t, ZonePatch{}.Apply(z).SameContent(z))
}

func TestZoneFilter_Match(t *testing.T) {
	z := NewZone("Example.com")
	assert.True(t, ZoneFilter{}.Match(z))
	assert.True(t, ZoneFilter{Name: "example.com."}.Match(z))
	assert.False(t, ZoneFilter{Name: "example.org"}.Match(z))
	assert.True(t, ZoneFilter{Type: ZoneTypePrimary, Status: ZoneStatusActive}.Match(z))
	assert.False(t, ZoneFilter{Type: ZoneTypeDisabled}.Match(z))
	assert.False(t, ZoneFilter{Status: ZoneStatusDisabled}.Match(z))
}

func TestEnums(t *testing.T) {
	assert.Equal(t, []ZoneType{ZoneTypePrimary, ZoneTypeDisabled}, ZoneTypes())
	assert.Equal(t, []ZoneStatus{ZoneStatusActive, ZoneStatusDisabled}, ZoneStatuses())
	assert.Equal(t, []RecordStatus{RecordStatusActive, RecordStatusDisabled}, RecordStatuses())

	for _, zt := range []ZoneType{ZoneTypePrimary, ZoneTypeSecondary, ZoneTypeStub, ZoneTypeForward, ZoneTypeDisabled} {
		assert.True(t, zt.IsKnown(), zt)
	}
	assert.False(t, ZoneType("master").IsKnown())
	assert.False(t, ZoneTypeStub.IsEnabled())
}
