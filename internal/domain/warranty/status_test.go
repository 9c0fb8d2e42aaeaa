package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2024, time.January, 5, 14, 30, 0, 0, time.Local)

	t.Run("future date", func(t *testing.T) {
		end := date(2024, time.January, 10)
		days, ok := DaysLeft(&end, now)
		require.True(t, ok)
		assert.Equal(t, 5, days)
	})

	t.Run("same day expiration is zero", func(t *testing.T) {
		end := time.Date(2024, time.January, 5, 23, 59, 0, 0, time.Local)
		days, ok := DaysLeft(&end, now)
		require.True(t, ok)
		assert.Equal(t, 0, days)
	})

	t.Run("yesterday is minus one", func(t *testing.T) {
		end := date(2024, time.January, 4)
		days, ok := DaysLeft(&end, now)
		require.True(t, ok)
		assert.Equal(t, -1, days)
	})

	t.Run("missing end date", func(t *testing.T) {
		_, ok := DaysLeft(nil, now)
		assert.False(t, ok)
	})
}

func TestStatusFromDaysLeft(t *testing.T) {
	cases := []struct {
		days int
		want Status
	}{
		{-100, StatusExpired},
		{-1, StatusExpired},
		{0, StatusCritical},
		{15, StatusCritical},
		{30, StatusCritical},
		{31, StatusApproaching},
		{60, StatusApproaching},
		{61, StatusOK},
		{365, StatusOK},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFromDaysLeft(c.days), "days=%d", c.days)
	}
}

func TestStatusSeverityIsTotalOrder(t *testing.T) {
	// Fewer days left never means a less severe tier.
	prev := StatusFromDaysLeft(-120)
	for days := -119; days <= 120; days++ {
		cur := StatusFromDaysLeft(days)
		assert.GreaterOrEqual(t, prev.Severity(), cur.Severity(), "days=%d", days)
		prev = cur
	}
}

func TestParseStatusLabel(t *testing.T) {
	cases := []struct {
		label string
		want  Status
		ok    bool
	}{
		{"Süresi Geçti", StatusExpired, true},
		{"SÜRESİ GEÇTİ", StatusExpired, true},
		{"Kritik", StatusCritical, true},
		{"kritik seviye", StatusCritical, true},
		{"Yaklaşıyor", StatusApproaching, true},
		{"Aktif", StatusOK, true},
		{"", StatusUnknown, false},
		{"bilinmeyen durum", StatusUnknown, false},
	}
	for _, c := range cases {
		got, ok := ParseStatusLabel(c.label)
		assert.Equal(t, c.want, got, "label=%q", c.label)
		assert.Equal(t, c.ok, ok, "label=%q", c.label)
	}
}

func TestResolve(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("label wins over local derivation", func(t *testing.T) {
		end := date(2025, time.June, 1) // locally ok
		status, days := Resolve("Kritik", &end, now)
		assert.Equal(t, StatusCritical, status)
		require.NotNil(t, days)
		assert.Equal(t, 365, *days)
	})

	t.Run("unparseable label falls back to days left", func(t *testing.T) {
		end := date(2024, time.June, 15)
		status, days := Resolve("garbled", &end, now)
		assert.Equal(t, StatusCritical, status)
		require.NotNil(t, days)
		assert.Equal(t, 14, *days)
	})

	t.Run("no label and no end date is unknown", func(t *testing.T) {
		status, days := Resolve("", nil, now)
		assert.Equal(t, StatusUnknown, status)
		assert.Nil(t, days)
	})
}
