package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_OrNil(t *testing.T) {
	ve := NewValidationError("zone")
	require.NoError(t, ve.OrNil())

	var nilErr *ValidationError
	require.NoError(t, nilErr.OrNil())

	ve.Add("name", "is required", nil)
	err := ve.OrNil()
	require.Error(t, err)
	assert.Equal(t, "invalid zone: name: is required", err.Error())
}

func TestValidationError_MatchesSentinels(t *testing.T) {
	ve := NewValidationError("zone")
	ve.Add("type", "secondary zones are not supported", ErrUnsupportedZoneType)
	ve.Add("default_ttl", "must be at most 604800", nil)

	err := fmt.Errorf("create zone: %w", ve.OrNil())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrUnsupportedZoneType))
	assert.False(t, errors.Is(err, ErrUnsupportedRecordType))
	assert.False(t, errors.Is(err, ErrNotFound))

	var got *ValidationError
	require.True(t, errors.As(err, &got))
	assert.Len(t, got.Fields, 2)

	f, ok := got.Field("default_ttl")
	require.True(t, ok)
	assert.Equal(t, "must be at most 604800", f.Reason)

	_, ok = got.Field("name")
	assert.False(t, ok)
}

func TestValidationError_Merge(t *testing.T) {
	a := NewValidationError("record")
	a.Add("ttl", "must be at least 1", nil)
	b := NewValidationError("record")
	b.Add("value", "invalid A record IP: nope", nil)

	a.Merge(b)
	a.Merge(nil)
	assert.Len(t, a.Fields, 2)
	assert.Contains(t, a.Error(), "value: invalid A record IP: nope")
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("get: %w", NewNotFound("record", "abc"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), `record "abc" not found`)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "record", nf.Kind)
}
