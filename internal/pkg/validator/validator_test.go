package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("018f2a3b-4c5d-7e8f-9a0b-1c2d3e4f5a6b"))
	assert.True(t, IsValidUUID("9b2d7e61-0f34-4a8c-8b1d-2f3a4b5c6d7e"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-03-10")
	assert.True(t, ok)
	_, ok = IsValidDate("10-03-2025")
	assert.False(t, ok)
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
	}
	assert.Equal(t, map[string]string{"latitude": "latitude must be between -90 and 90"}, errs.ToMap())
	assert.Contains(t, errs.Error(), "latitude")
}
