package choices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

func TestLookups(t *testing.T) {
	assert.Equal(t, Display{"Primary", "green"}, ZoneType(domain.ZoneTypePrimary))
	assert.Equal(t, Display{"Disabled", "grey"}, ZoneStatus(domain.ZoneStatusDisabled))
	assert.Equal(t, Display{"Service", "indigo"}, RecordType(domain.RRTypeSRV))
	assert.Equal(t, Display{"Active", "green"}, RecordStatus(domain.RecordStatusActive))
}

func TestLookups_Fallback(t *testing.T) {
	assert.Equal(t, Display{"stub", "default"}, ZoneType(domain.ZoneTypeStub))
	assert.Equal(t, Display{"MX", "default"}, RecordType(domain.RRTypeMX))
}

func TestAll(t *testing.T) {
	sets := All()
	require.Len(t, sets, 4)

	assert.Equal(t, "zone.type", sets[0].Key)
	assert.Equal(t, []Option{
		{"primary", Display{"Primary", "green"}},
		{"disabled", Display{"Disabled", "grey"}},
	}, sets[0].Options)

	assert.Equal(t, "record.type", sets[2].Key)
	var values []string
	for _, o := range sets[2].Options {
		values = append(values, o.Value)
		assert.NotEqual(t, o.Value, o.Label)
	}
	assert.Equal(t, []string{"A", "AAAA", "CNAME", "TXT", "SRV", "PTR"}, values)
}
