package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	e, err := NewEmail("  Jane.Doe@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", e.String())

	_, err = NewEmail("")
	assert.Error(t, err)

	_, err = NewEmail("not-an-email")
	assert.Error(t, err)

	_, err = NewEmail(strings.Repeat("a", 250) + "@x.com")
	assert.Error(t, err)
}

func TestRole(t *testing.T) {
	r, err := ParseRole("agent")
	require.NoError(t, err)
	assert.True(t, r.IsStaff())
	assert.False(t, r.IsAdmin())

	assert.False(t, RoleUser.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())

	_, err = ParseRole("root")
	assert.Error(t, err)
}
