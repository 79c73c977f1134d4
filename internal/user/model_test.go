//go:build unit

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleDeveloper} {
		assert.True(t, IsValidRole(role), role)
	}

	for _, role := range []string{"", "owner", "Admin"} {
		assert.False(t, IsValidRole(role), role)
	}
}
