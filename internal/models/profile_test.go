package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleVet))
	assert.True(t, ValidRole(RolePetOwner))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestDisplayNameFor(t *testing.T) {
	tests := []struct {
		name  string
		hint  string
		email string
		want  string
	}{
		{"Dr. Mira", "mira", "mira@example.com", "Dr. Mira"},
		{"", "mira", "mira@example.com", "mira"},
		{"", "", "mira@example.com", "mira"},
		{"", "", "@example.com", "Aniwoo member"},
		{"", "", "", "Aniwoo member"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayNameFor(tt.name, tt.hint, tt.email))
	}
}
