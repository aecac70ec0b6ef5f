package domain

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	r := NewRecord("www", RRTypeA, "203.0.113.5")
	r.ZoneID = "zone-1"
	return r
}

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord("www", RRTypeA, "203.0.113.5")
	assert.Equal(t, uint32(3600), r.TTL)
	assert.Equal(t, RecordStatusActive, r.Status)
	assert.True(t, r.IsActive())
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"missing zone", func(r *Record) { r.ZoneID = "" }, "zone_id"},
		{"missing name", func(r *Record) { r.Name = "" }, "name"},
		{"bad name", func(r *Record) { r.Name = "a b" }, "name"},
		{"long name", func(r *Record) { r.Name = strings.Repeat("a", 256) }, "name"},
		{"missing value", func(r *Record) { r.Value = "" }, "value"},
		{"long value", func(r *Record) { r.Value = strings.Repeat("x", 65536) }, "value"},
		{"zero ttl", func(r *Record) { r.TTL = 0 }, "ttl"},
		{"ttl too large", func(r *Record) { r.TTL = 604801 }, "ttl"},
		{"bad status", func(r *Record) { r.Status = "hidden" }, "status"},
		{"unsupported type", func(r *Record) { r.Type = RRTypeMX }, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			fieldErr(t, err, tt.field)
		})
	}
}

func TestRecord_Validate_Names(t *testing.T) {
	for _, name := range []string{"@", "www", "*.dev", "_sip._tcp", "host.example.com."} {
		r := validRecord()
		r.Name = name
		assert.NoError(t, r.Validate(), name)
	}
}

func TestRecord_Validate_UnsupportedType(t *testing.T) {
	r := validRecord()
	r.Type = RRTypeMX
	assert.ErrorIs(t, r.Validate(), ErrUnsupportedRecordType)
}

func TestRecord_SameContent(t *testing.T) {
	a := validRecord()
	b := a
	b.ID = "x"
	b.Updated = time.Now()
	assert.True(t, a.SameContent(b))
	b.TTL = 60
	assert.False(t, a.SameContent(b))
}

func TestRecordPatch_Apply(t *testing.T) {
	r := validRecord()
	got := RecordPatch{Value: ptr("198.51.100.7"), Status: ptr(RecordStatusDisabled)}.Apply(r)
	assert.Equal(t, "198.51.100.7", got.Value)
	assert.Equal(t, RecordStatusDisabled, got.Status)
	assert.Equal(t, r.Name, got.Name)
	assert.Equal(t, r.ZoneID, got.ZoneID)
	assert.False(t, got.IsActive())
}

func TestCompareRecords(t *testing.T) {
	recs := []Record{
		{ID: "5", Type: RRTypeTXT, Name: "a", Value: "x"},
		{ID: "4", Type: RRTypeA, Name: "www", Value: "203.0.113.2"},
		{ID: "3", Type: RRTypeA, Name: "www", Value: "203.0.113.1"},
		{ID: "2", Type: RRTypeA, Name: "api", Value: "203.0.113.9"},
		{ID: "1", Type: RRTypeAAAA, Name: "api", Value: "2001:db8::1"},
		{ID: "0", Type: RRTypeA, Name: "www", Value: "203.0.113.1"},
	}
	slices.SortFunc(recs, CompareRecords)

	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "0", "3", "4", "5", "1"}, ids)
}
