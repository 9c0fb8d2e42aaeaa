package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("underspend keeps remaining and zero overrun", func(t *testing.T) {
		got := Normalize(d("100"), d("80"), d("0"))
		assert.True(t, got.TotalPlan.Equal(d("100")))
		assert.True(t, got.TotalActual.Equal(d("80")))
		assert.True(t, got.TotalRemaining.Equal(d("20")))
		assert.True(t, got.TotalOverrun.IsZero())
	})

	t.Run("reported overrun acts as a floor", func(t *testing.T) {
		got := Normalize(d("100"), d("130"), d("50"))
		assert.True(t, got.TotalRemaining.IsZero())
		assert.True(t, got.TotalOverrun.Equal(d("50")))
	})

	t.Run("floor has no effect when lower", func(t *testing.T) {
		got := Normalize(d("100"), d("150"), d("0"))
		assert.True(t, got.TotalOverrun.Equal(d("50")))
	})
}
