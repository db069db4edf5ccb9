package department

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDepartmentNameBounds(t *testing.T) {
	_, err := NewDepartment("A")
	assert.Error(t, err)

	_, err = NewDepartment(strings.Repeat("x", 101))
	assert.Error(t, err)

	d, err := NewDepartment("  Billing ")
	require.NoError(t, err)
	assert.Equal(t, "Billing", d.Name())

	d, err = NewDepartment(strings.Repeat("é", 100))
	require.NoError(t, err)
	assert.Len(t, []rune(d.Name()), 100)
}

func TestCanDelete(t *testing.T) {
	now := time.Now()
	empty, err := ReconstructDepartment(1, "Billing", 0, now, now)
	require.NoError(t, err)
	assert.True(t, empty.CanDelete())

	busy, err := ReconstructDepartment(2, "Support", 3, now, now)
	require.NoError(t, err)
	assert.False(t, busy.CanDelete())
}
