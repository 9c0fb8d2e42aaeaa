package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	t.Run("keeps only items over plan", func(t *testing.T) {
		ranked := Rank([]LineItem{
			{BudgetCode: "A", Plan: d("100"), Actual: d("90")},
			{BudgetCode: "B", Plan: d("50"), Actual: d("80")},
			{BudgetCode: "C", Plan: d("200"), Actual: d("199")},
		})
		require.Len(t, ranked, 1)
		assert.Equal(t, "B", ranked[0].BudgetCode)
		assert.True(t, ranked[0].Over.Equal(d("30")))
		assert.True(t, ranked[0].OverPct.Equal(d("60")))
	})

	t.Run("sorts descending by amount not percentage", func(t *testing.T) {
		ranked := Rank([]LineItem{
			{BudgetCode: "SMALL", Plan: d("10"), Actual: d("30")},  // over=20, 200%
			{BudgetCode: "BIG", Plan: d("1000"), Actual: d("1100")}, // over=100, 10%
		})
		require.Len(t, ranked, 2)
		assert.Equal(t, "BIG", ranked[0].BudgetCode)
		assert.Equal(t, "SMALL", ranked[1].BudgetCode)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		ranked := Rank([]LineItem{
			{BudgetCode: "FIRST", Plan: d("100"), Actual: d("150")},
			{BudgetCode: "SECOND", Plan: d("200"), Actual: d("250")},
		})
		require.Len(t, ranked, 2)
		assert.Equal(t, "FIRST", ranked[0].BudgetCode)
		assert.Equal(t, "SECOND", ranked[1].BudgetCode)
	})

	t.Run("pct is zero without a plan", func(t *testing.T) {
		ranked := Rank([]LineItem{{BudgetCode: "X", Plan: d("0"), Actual: d("40")}})
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].OverPct.IsZero())
	})
}

func TestTop(t *testing.T) {
	ranked := Rank([]LineItem{
		{BudgetCode: "A", Plan: d("0"), Actual: d("3")},
		{BudgetCode: "B", Plan: d("0"), Actual: d("2")},
		{BudgetCode: "C", Plan: d("0"), Actual: d("1")},
	})
	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 10), 3)
	assert.Empty(t, Top(ranked, 0))
}

func TestSummarize(t *testing.T) {
	ranked := Rank([]LineItem{
		{BudgetCode: "A", Plan: d("100"), Actual: d("130")},
		{BudgetCode: "B", Plan: d("50"), Actual: d("80")},
	})
	sum := Summarize(ranked)
	assert.Equal(t, 2, sum.OverItemCount)
	assert.True(t, sum.OverTotal.Equal(d("60")))
}

func TestTopOverrun(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, ok := TopOverrun(nil)
		assert.False(t, ok)
	})

	t.Run("first wins on tie", func(t *testing.T) {
		ranked := []RankedItem{
			{BudgetCode: "FIRST", Over: d("50")},
			{BudgetCode: "SECOND", Over: d("50")},
			{BudgetCode: "LOW", Over: d("10")},
		}
		top, ok := TopOverrun(ranked)
		require.True(t, ok)
		assert.Equal(t, "FIRST", top.BudgetCode)
	})
}
