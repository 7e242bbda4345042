package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"first only", User{FirstName: "User"}, "User"},
		{"first last", User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"with middle", User{FirstName: "Ada", MiddleName: "King", LastName: "Lovelace"}, "Ada King Lovelace"},
		{"blank middle", User{FirstName: "Ada", MiddleName: "  ", LastName: "Lovelace"}, "Ada Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}
