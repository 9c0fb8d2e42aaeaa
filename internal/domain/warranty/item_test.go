package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	end := date(2025, time.March, 1)

	t.Run("valid item", func(t *testing.T) {
		item, err := NewItem(ItemTypeDevice, "  Merkez Sunucu ", "Ankara", &end)
		require.NoError(t, err)
		assert.Equal(t, "Merkez Sunucu", item.Name)
		assert.True(t, item.IsActive)
		assert.Equal(t, DefaultReminderDays, item.ReminderDays)
		assert.NotEqual(t, item.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := NewItem("PRINTER", "X", "", &end)
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewItem(ItemTypeService, "   ", "", &end)
		assert.Error(t, err)
	})
}

func TestItemDeactivate(t *testing.T) {
	end := date(2025, time.March, 1)
	item, err := NewItem(ItemTypeDomainSSL, "example.com", "", &end)
	require.NoError(t, err)

	item.Deactivate()
	assert.False(t, item.IsActive)
}

func TestItemIsCritical(t *testing.T) {
	now := date(2024, time.June, 1)

	newItem := func(end time.Time) *Item {
		item, err := NewItem(ItemTypeDevice, "X", "", &end)
		require.NoError(t, err)
		return item
	}

	t.Run("inside the window", func(t *testing.T) {
		assert.True(t, newItem(date(2024, time.June, 2)).IsCritical(now))
		assert.True(t, newItem(date(2024, time.July, 1)).IsCritical(now))
	})

	t.Run("expiring today is excluded", func(t *testing.T) {
		assert.False(t, newItem(date(2024, time.June, 1)).IsCritical(now))
	})

	t.Run("outside the window", func(t *testing.T) {
		assert.False(t, newItem(date(2024, time.July, 2)).IsCritical(now))
		assert.False(t, newItem(date(2024, time.May, 20)).IsCritical(now))
	})

	t.Run("deactivated items never alert", func(t *testing.T) {
		item := newItem(date(2024, time.June, 10))
		item.Deactivate()
		assert.False(t, item.IsCritical(now))
	})
}
