package domain

// ZoneType describes how the zone is served.
type ZoneType string

const (
	ZoneTypePrimary   ZoneType = "primary"
	ZoneTypeSecondary ZoneType = "secondary"
	ZoneTypeStub      ZoneType = "stub"
	ZoneTypeForward   ZoneType = "forward"
	ZoneTypeDisabled  ZoneType = "disabled"
)

// IsKnown reports whether t is one of the defined zone types, enabled or not.
func (t ZoneType) IsKnown() bool {
	switch t {
	case ZoneTypePrimary, ZoneTypeSecondary, ZoneTypeStub, ZoneTypeForward, ZoneTypeDisabled:
		return true
	default:
		return false
	}
}

// IsEnabled reports whether zones of this type may currently be stored.
// Only primary and disabled zones are activated.
func (t ZoneType) IsEnabled() bool {
	return t == ZoneTypePrimary || t == ZoneTypeDisabled
}

// ZoneTypes returns the zone types that may currently be selected.
func ZoneTypes() []ZoneType {
	return []ZoneType{ZoneTypePrimary, ZoneTypeDisabled}
}

// ZoneStatus is the administrative state of a zone.
type ZoneStatus string

const (
	ZoneStatusActive   ZoneStatus = "active"
	ZoneStatusDisabled ZoneStatus = "disabled"
)

// ZoneStatuses returns every zone status.
func ZoneStatuses() []ZoneStatus {
	return []ZoneStatus{ZoneStatusActive, ZoneStatusDisabled}
}

// RecordStatus is the administrative state of a record.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusDisabled RecordStatus = "disabled"
)

// RecordStatuses returns every record status.
func RecordStatuses() []RecordStatus {
	return []RecordStatus{RecordStatusActive, RecordStatusDisabled}
}
