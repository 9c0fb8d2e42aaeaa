package warranty

import (
	"strings"
	"time"

	"github.com/butcetakip/backend/internal/domain/shared"
)

// ItemType classifies what a tracked renewal covers.
type ItemType string

const (
	ItemTypeDevice    ItemType = "DEVICE"
	ItemTypeService   ItemType = "SERVICE"
	ItemTypeDomainSSL ItemType = "DOMAIN_SSL"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeDevice, ItemTypeService, ItemTypeDomainSSL:
		return true
	}
	return false
}

// DefaultReminderDays is used when an item does not carry its own window.
const DefaultReminderDays = 30

// Item is a tracked warranty, service contract or domain/SSL renewal.
// DaysLeft and Status are always derived from EndDate, never stored.
type Item struct {
	shared.BaseEntity
	Type               ItemType
	Name               string
	Location           string
	StartDate          *time.Time
	EndDate            *time.Time
	Note               string
	Domain             string
	Issuer             string
	RenewalResponsible string
	ReminderDays       int
	IsActive           bool
}

// NewItem creates a tracked renewal item
func NewItem(itemType ItemType, name, location string, endDate *time.Time) (*Item, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid warranty item type")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warranty item name is required")
	}

	return &Item{
		BaseEntity:   shared.NewBaseEntity(),
		Type:         itemType,
		Name:         name,
		Location:     strings.TrimSpace(location),
		EndDate:      endDate,
		ReminderDays: DefaultReminderDays,
		IsActive:     true,
	}, nil
}

// Update replaces the editable fields
func (i *Item) Update(itemType ItemType, name, location string, startDate, endDate *time.Time) error {
	if !itemType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid warranty item type")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Warranty item name is required")
	}

	i.Type = itemType
	i.Name = name
	i.Location = strings.TrimSpace(location)
	i.StartDate = startDate
	i.EndDate = endDate
	i.Touch()
	return nil
}

// Deactivate soft-deletes the item; deactivated items stay queryable for
// history but drop out of alerting.
func (i *Item) Deactivate() {
	i.IsActive = false
	i.Touch()
}

// DaysLeft derives the signed day count until expiration.
func (i *Item) DaysLeft(now time.Time) (int, bool) {
	return DaysLeft(i.EndDate, now)
}

// Status derives the urgency tier at the given time.
func (i *Item) Status(now time.Time) Status {
	status, _ := Resolve("", i.EndDate, now)
	return status
}

// IsCritical reports whether the item needs renewal action: active, not yet
// expired, and inside the critical window.
func (i *Item) IsCritical(now time.Time) bool {
	if !i.IsActive {
		return false
	}
	days, ok := i.DaysLeft(now)
	return ok && days >= 1 && days <= criticalMaxDays
}
