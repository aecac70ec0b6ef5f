package domain

import (
	"time"

	"github.com/haukened/zonekeeper/internal/dns/common/utils"
)

// Zone defaults applied by NewZone.
const (
	DefaultZoneTTL    uint32 = 3600
	DefaultSOATTL     uint32 = 3600
	DefaultSOARefresh uint32 = 3600
	DefaultSOARetry   uint32 = 900
	DefaultSOAExpire  uint32 = 604800
	DefaultSOAMinimum uint32 = 3600
	MaxTTL            uint32 = 604800
)

// SOA carries the start-of-authority parameters of a zone.
type SOA struct {
	TTL     uint32 `json:"ttl"`
	MName   string `json:"mname" validate:"omitempty,max=255,dns_name"`
	RName   string `json:"rname" validate:"omitempty,max=255,dns_mailbox"`
	Serial  uint32 `json:"serial" validate:"min=1"`
	Refresh uint32 `json:"refresh" validate:"min=1"`
	Retry   uint32 `json:"retry" validate:"min=1"`
	Expire  uint32 `json:"expire" validate:"min=1"`
	Minimum uint32 `json:"minimum" validate:"min=1"`
}

// Zone is a DNS namespace rooted at Name, with its own SOA parameters.
type Zone struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" validate:"required,max=253,dns_name"`
	Type        ZoneType   `json:"type"`
	Status      ZoneStatus `json:"status" validate:"oneof=active disabled"`
	DefaultTTL  uint32     `json:"default_ttl" validate:"min=1,max=604800"`
	SOA         SOA        `json:"soa"`
	AutoSerial  bool       `json:"auto_serial"`
	Description string     `json:"description" validate:"max=255"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
}

// NewZone returns a zone draft named name with every other field at its default.
func NewZone(name string) Zone {
	return Zone{
		Name:       name,
		Type:       ZoneTypePrimary,
		Status:     ZoneStatusActive,
		DefaultTTL: DefaultZoneTTL,
		SOA: SOA{
			TTL:     DefaultSOATTL,
			Serial:  1,
			Refresh: DefaultSOARefresh,
			Retry:   DefaultSOARetry,
			Expire:  DefaultSOAExpire,
			Minimum: DefaultSOAMinimum,
		},
		AutoSerial: true,
	}
}

// Validate checks every zone field and reports all failures at once.
func (z Zone) Validate() error {
	ve := validateStruct("zone", z)
	switch {
	case z.Type == "":
		ve.Add("type", "is required", nil)
	case !z.Type.IsKnown():
		ve.Add("type", "unknown zone type "+string(z.Type), nil)
	case !z.Type.IsEnabled():
		ve.Add("type", string(z.Type)+" zones are not supported", ErrUnsupportedZoneType)
	}
	return ve.OrNil()
}

// CanonicalName is the lookup key for the zone name: lowercase, ASCII, no trailing dot.
func (z Zone) CanonicalName() string {
	return utils.CanonicalDNSName(z.Name)
}

// Origin is the zone name as an absolute domain name, suitable for $ORIGIN.
func (z Zone) Origin() string {
	return utils.Fqdn(z.Name)
}

// IsDisabled reports whether the zone should not publish records, either
// because its status or its type is disabled.
func (z Zone) IsDisabled() bool {
	return z.Status == ZoneStatusDisabled || z.Type == ZoneTypeDisabled
}

// SameContent reports whether z and o hold the same user-visible values,
// ignoring identity and timestamps.
func (z Zone) SameContent(o Zone) bool {
	return z.content() == o.content()
}

func (z Zone) content() Zone {
	z.ID = ""
	z.Created = time.Time{}
	z.Updated = time.Time{}
	return z
}

// BumpSerial advances the SOA serial when the zone manages it automatically.
func (z *Zone) BumpSerial() {
	if z.AutoSerial {
		z.SOA.Serial = NextSerial(z.SOA.Serial)
	}
}

// SOAPatch holds optional replacements for SOA fields.
type SOAPatch struct {
	TTL     *uint32
	MName   *string
	RName   *string
	Serial  *uint32
	Refresh *uint32
	Retry   *uint32
	Expire  *uint32
	Minimum *uint32
}

// ZonePatch holds optional replacements for zone fields; nil fields are left unchanged.
type ZonePatch struct {
	Name        *string
	Type        *ZoneType
	Status      *ZoneStatus
	DefaultTTL  *uint32
	SOA         SOAPatch
	AutoSerial  *bool
	Description *string
}

// Apply returns z with the patch merged in. Identity and timestamps are untouched.
func (p ZonePatch) Apply(z Zone) Zone {
	set(&z.Name, p.Name)
	set(&z.Type, p.Type)
	set(&z.Status, p.Status)
	set(&z.DefaultTTL, p.DefaultTTL)
	set(&z.AutoSerial, p.AutoSerial)
	set(&z.Description, p.Description)
	set(&z.SOA.TTL, p.SOA.TTL)
	set(&z.SOA.MName, p.SOA.MName)
	set(&z.SOA.RName, p.SOA.RName)
	set(&z.SOA.Serial, p.SOA.Serial)
	set(&z.SOA.Refresh, p.SOA.Refresh)
	set(&z.SOA.Retry, p.SOA.Retry)
	set(&z.SOA.Expire, p.SOA.Expire)
	set(&z.SOA.Minimum, p.SOA.Minimum)
	return z
}

// ZoneFilter selects zones in List. Empty fields match everything.
type ZoneFilter struct {
	Name   string
	Type   ZoneType
	Status ZoneStatus
}

// Match reports whether z satisfies every non-empty criterion.
func (f ZoneFilter) Match(z Zone) bool {
	if f.Name != "" && utils.CanonicalDNSName(f.Name) != z.CanonicalName() {
		return false
	}
	if f.Type != "" && f.Type != z.Type {
		return false
	}
	if f.Status != "" && f.Status != z.Status {
		return false
	}
	return true
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
