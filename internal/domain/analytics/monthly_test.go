package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDeriveMonth(t *testing.T) {
	t.Run("underspent month has remaining and no overrun", func(t *testing.T) {
		p := DeriveMonth(1, d("100"), d("80"))
		assert.True(t, p.Remaining.Equal(d("20")))
		assert.True(t, p.Overrun.IsZero())
		assert.True(t, p.OverrunPct.IsZero())
	})

	t.Run("overspent month has overrun and no remaining", func(t *testing.T) {
		p := DeriveMonth(2, d("100"), d("130"))
		assert.True(t, p.Remaining.IsZero())
		assert.True(t, p.Overrun.Equal(d("30")))
		assert.True(t, p.OverrunPct.Equal(d("0.3")))
	})

	t.Run("overrun pct is zero without a plan", func(t *testing.T) {
		p := DeriveMonth(3, d("0"), d("50"))
		assert.True(t, p.Overrun.Equal(d("50")))
		assert.True(t, p.OverrunPct.IsZero())
	})

	t.Run("remaining and overrun are mutually exclusive", func(t *testing.T) {
		cases := [][2]string{
			{"0", "0"}, {"100", "100"}, {"100", "99.99"}, {"100", "100.01"},
			{"0", "12"}, {"12", "0"}, {"1500.50", "1500.50"},
		}
		for _, c := range cases {
			p := DeriveMonth(1, d(c[0]), d(c[1]))
			if p.Remaining.IsPositive() {
				assert.True(t, p.Overrun.IsZero(), "planned=%s actual=%s", c[0], c[1])
			}
			if p.Overrun.IsPositive() {
				assert.True(t, p.Remaining.IsZero(), "planned=%s actual=%s", c[0], c[1])
			}
		}
	})
}

func TestMonthlySeries(t *testing.T) {
	t.Run("missing months are zero filled", func(t *testing.T) {
		series := MonthlySeries(map[int]MonthlyBucket{
			3: {Planned: d("100"), Actual: d("40")},
		})
		require.Len(t, series, 12)
		assert.Equal(t, 1, series[0].Month)
		assert.True(t, series[0].Planned.IsZero())
		assert.True(t, series[2].Remaining.Equal(d("60")))
		assert.Equal(t, 12, series[11].Month)
	})
}

func TestQuarterlyRollup(t *testing.T) {
	t.Run("sums derived values without recomputing", func(t *testing.T) {
		// January overspends by 50, February underspends by 50. A netted
		// quarter would show zero on both sides; the rollup keeps both.
		series := MonthlySeries(map[int]MonthlyBucket{
			1: {Planned: d("100"), Actual: d("150")},
			2: {Planned: d("100"), Actual: d("50")},
		})
		quarters := QuarterlyRollup(series)
		require.Len(t, quarters, 4)
		q1 := quarters[0]
		assert.True(t, q1.Overrun.Equal(d("50")))
		assert.True(t, q1.Remaining.Equal(d("50")))
		assert.True(t, q1.Planned.Equal(d("200")))
		assert.True(t, q1.Actual.Equal(d("200")))
	})

	t.Run("quarter totals match month totals", func(t *testing.T) {
		buckets := map[int]MonthlyBucket{}
		for m := 1; m <= 12; m++ {
			buckets[m] = MonthlyBucket{
				Planned: decimal.NewFromInt(int64(m * 100)),
				Actual:  decimal.NewFromInt(int64(m * 90)),
			}
		}
		series := MonthlySeries(buckets)
		quarters := QuarterlyRollup(series)

		var monthSum, quarterSum decimal.Decimal
		for _, p := range series {
			monthSum = monthSum.Add(p.Planned)
		}
		for _, q := range quarters {
			quarterSum = quarterSum.Add(q.Planned)
		}
		assert.True(t, monthSum.Equal(quarterSum))
	})

	t.Run("empty quarter is flagged as no data", func(t *testing.T) {
		series := MonthlySeries(map[int]MonthlyBucket{
			1: {Planned: d("100"), Actual: d("100")},
		})
		quarters := QuarterlyRollup(series)
		assert.True(t, quarters[0].HasData)
		assert.False(t, quarters[1].HasData)
		assert.False(t, quarters[2].HasData)
		assert.False(t, quarters[3].HasData)
	})
}
