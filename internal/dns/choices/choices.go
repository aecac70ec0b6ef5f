// Package choices maps domain enumerations to display metadata for listings
// and forms. Nothing in the domain or service layers depends on it.
package choices

import "github.com/haukened/zonekeeper/internal/dns/domain"

// Display is how a choice is shown to an operator.
type Display struct {
	Label string
	Color string
}

var zoneTypes = map[domain.ZoneType]Display{
	domain.ZoneTypePrimary:  {"Primary", "green"},
	domain.ZoneTypeDisabled: {"Disabled", "grey"},
}

var zoneStatuses = map[domain.ZoneStatus]Display{
	domain.ZoneStatusActive:   {"Active", "green"},
	domain.ZoneStatusDisabled: {"Disabled", "grey"},
}

var recordTypes = map[domain.RRType]Display{
	domain.RRTypeA:     {"IP address", "default"},
	domain.RRTypeAAAA:  {"IPv6 address", "green"},
	domain.RRTypeCNAME: {"Canonical name", "blue"},
	domain.RRTypeTXT:   {"Text", "red"},
	domain.RRTypeSRV:   {"Service", "indigo"},
	domain.RRTypePTR:   {"Pointer", "orange"},
}

var recordStatuses = map[domain.RecordStatus]Display{
	domain.RecordStatusActive:   {"Active", "green"},
	domain.RecordStatusDisabled: {"Disabled", "grey"},
}

func lookup[K comparable](table map[K]Display, k K, fallback string) Display {
	if d, ok := table[k]; ok {
		return d
	}
	return Display{Label: fallback, Color: "default"}
}

func ZoneType(t domain.ZoneType) Display { return lookup(zoneTypes, t, string(t)) }

func ZoneStatus(s domain.ZoneStatus) Display { return lookup(zoneStatuses, s, string(s)) }

func RecordType(t domain.RRType) Display { return lookup(recordTypes, t, t.String()) }

func RecordStatus(s domain.RecordStatus) Display { return lookup(recordStatuses, s, string(s)) }

// Option is one selectable value with its display metadata.
type Option struct {
	Value string
	Display
}

// Set is a named list of options, in presentation order.
type Set struct {
	Key     string
	Options []Option
}

// All returns every choice set offered to operators. Only enabled zone types
// and supported record types are listed.
func All() []Set {
	var zt, zs, rt, rs []Option
	for _, t := range domain.ZoneTypes() {
		zt = append(zt, Option{string(t), ZoneType(t)})
	}
	for _, s := range domain.ZoneStatuses() {
		zs = append(zs, Option{string(s), ZoneStatus(s)})
	}
	for _, t := range domain.SupportedRecordTypes() {
		rt = append(rt, Option{t.String(), RecordType(t)})
	}
	for _, s := range domain.RecordStatuses() {
		rs = append(rs, Option{string(s), RecordStatus(s)})
	}
	return []Set{
		{Key: "zone.type", Options: zt},
		{Key: "zone.status", Options: zs},
		{Key: "record.type", Options: rt},
		{Key: "record.status", Options: rs},
	}
}
