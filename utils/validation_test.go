package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("marta@example.com"))
	assert.True(t, IsValidEmail("marta.ruiz@mail.example.co"))
	assert.False(t, IsValidEmail("marta"))
	assert.False(t, IsValidEmail("marta@"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Secret123"))
	assert.False(t, IsValidPassword("Short1"))               // too short
	assert.False(t, IsValidPassword("nouppercase1"))         // no uppercase
	assert.False(t, IsValidPassword("NoDigitsHere"))         // no digit
	assert.False(t, IsValidPassword("WayTooLongPassword123")) // over 16
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("+34600111222"))
	assert.True(t, IsValidPhone("600-111-222"))
	assert.False(t, IsValidPhone("12345678"))    // too short
	assert.False(t, IsValidPhone("+34 600 111")) // spaces not allowed
}
