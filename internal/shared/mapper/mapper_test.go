package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	got := Slice([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, got)

	empty := Slice(nil, strconv.Itoa)
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

type row struct{ N int }

func TestRows(t *testing.T) {
	double := func(r *row) (int, error) { return r.N * 2, nil }

	got, err := Rows([]row{{1}, {2}}, double)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, got)

	got, err = Rows(nil, double)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRows_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Rows([]row{{1}, {-1}, {3}}, func(r *row) (int, error) {
		calls++
		if r.N < 0 {
			return 0, boom
		}
		return r.N, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "row 1")
	assert.Equal(t, 2, calls)
}
