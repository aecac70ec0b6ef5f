package domain

import (
	"cmp"
	"strings"
	"time"
)

// DefaultRecordTTL is applied by NewRecord.
const DefaultRecordTTL uint32 = 3600

// Record is one resource record owned by exactly one zone.
type Record struct {
	ID      string       `json:"id"`
	ZoneID  string       `json:"zone_id" validate:"required"`
	Name    string       `json:"name" validate:"required,max=255,record_name"`
	Type    RRType       `json:"type"`
	Value   string       `json:"value" validate:"required,max=65535"`
	TTL     uint32       `json:"ttl" validate:"min=1,max=604800"`
	Status  RecordStatus `json:"status" validate:"oneof=active disabled"`
	Created time.Time    `json:"created"`
	Updated time.Time    `json:"updated"`
}

// NewRecord returns an active record draft with the default TTL.
func NewRecord(name string, t RRType, value string) Record {
	return Record{
		Name:   name,
		Type:   t,
		Value:  value,
		TTL:    DefaultRecordTTL,
		Status: RecordStatusActive,
	}
}

// Validate checks the record's fields and type support. The syntax of Value
// depends on Type and is checked separately by the rrdata package.
func (r Record) Validate() error {
	ve := validateStruct("record", r)
	if !r.Type.IsSupported() {
		ve.Add("type", "record type "+r.Type.String()+" is not supported", ErrUnsupportedRecordType)
	}
	return ve.OrNil()
}

// IsActive reports whether the record is published.
func (r Record) IsActive() bool {
	return r.Status == RecordStatusActive
}

// SameContent reports whether r and o hold the same user-visible values.
func (r Record) SameContent(o Record) bool {
	return r.content() == o.content()
}

func (r Record) content() Record {
	r.ID = ""
	r.Created = time.Time{}
	r.Updated = time.Time{}
	return r
}

// RecordPatch holds optional replacements for record fields. The owning zone
// cannot be changed.
type RecordPatch struct {
	Name   *string
	Type   *RRType
	Value  *string
	TTL    *uint32
	Status *RecordStatus
}

// Apply returns r with the patch merged in.
func (p RecordPatch) Apply(r Record) Record {
	set(&r.Name, p.Name)
	set(&r.Type, p.Type)
	set(&r.Value, p.Value)
	set(&r.TTL, p.TTL)
	set(&r.Status, p.Status)
	return r
}

// CompareRecords orders records by type, then name (case-insensitive), then
// value and id so that the order is total.
func CompareRecords(a, b Record) int {
	return cmp.Or(
		cmp.Compare(a.Type, b.Type),
		cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.Value, b.Value),
		cmp.Compare(a.ID, b.ID),
	)
}
