package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAmount(t *testing.T) {
	assert.True(t, IsValidAmount(1))
	assert.True(t, IsValidAmount(50.25))
	assert.True(t, IsValidAmount(0.01))

	assert.False(t, IsValidAmount(0))
	assert.False(t, IsValidAmount(-5))
	assert.False(t, IsValidAmount(10.001))
	assert.False(t, IsValidAmount(math.NaN()))
	assert.False(t, IsValidAmount(math.Inf(1)))
	assert.False(t, IsValidAmount(math.Inf(-1)))
}

func TestMinimumRaise(t *testing.T) {
	assert.Equal(t, float64(51), MinimumRaise(50))
	assert.Equal(t, 61.5, MinimumRaise(60.5))
}

func TestCompare(t *testing.T) {
	assert.True(t, GreaterThan(50.01, 50))
	assert.False(t, GreaterThan(50, 50))
	assert.True(t, GreaterThanOrEqual(50, 50))
	assert.False(t, GreaterThanOrEqual(49.99, 50))
}
