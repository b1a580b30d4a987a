package jsonlogic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6.0, Sum(1, 2.0, int64(3)))
	assert.Equal(t, 4.5, Sum([]any{1.5, 3}))
	assert.Equal(t, 0.0, Sum())
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, 1.24, Round(1.236, 2))
	assert.Equal(t, 0.0, Round())
}

func TestTrunc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.2, Trunc(3.29))
	assert.Equal(t, 3.0, Trunc(3.99, 0))
	assert.Equal(t, 0.0, Trunc())
}

func TestCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, Count([]any{"a", "b", "c"}))
	assert.Equal(t, 0.0, Count("abc"))
	assert.Equal(t, 0.0, Count())
}
