package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("pending")
	assert.Error(t, err)
}

func TestAnyStatusReachable(t *testing.T) {
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, StatusOpen.CanTransitionTo("archived"))
}

func TestAllowsOwnerEdit(t *testing.T) {
	assert.True(t, StatusOpen.AllowsOwnerEdit())
	assert.False(t, StatusInProgress.AllowsOwnerEdit())
	assert.False(t, StatusClosed.AllowsOwnerEdit())
}
