package warranty

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is a renewal urgency tier derived from days left or from a
// backend-supplied label.
type Status string

const (
	StatusExpired     Status = "expired"
	StatusCritical    Status = "critical"
	StatusApproaching Status = "approaching"
	StatusOK          Status = "ok"
	StatusUnknown     Status = "unknown"
)

// Tier thresholds, inclusive at the upper bound. Day zero is critical,
// not expired; only strictly negative counts are expired.
const (
	criticalMaxDays    = 30
	approachingMaxDays = 60
)

// Severity orders tiers by urgency. Unknown sorts below every known tier.
func (s Status) Severity() int {
	switch s {
	case StatusExpired:
		return 4
	case StatusCritical:
		return 3
	case StatusApproaching:
		return 2
	case StatusOK:
		return 1
	default:
		return 0
	}
}

// Label returns the Turkish display label for the tier.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Süresi Geçti"
	case StatusCritical:
		return "Kritik"
	case StatusApproaching:
		return "Yaklaşıyor"
	case StatusOK:
		return "Aktif"
	default:
		return "Bilinmiyor"
	}
}

// ParseStatusLabel maps a Turkish status label onto a tier by case-insensitive
// substring match. More severe labels are checked first, so a label carrying
// several keywords resolves to the most urgent one.
func ParseStatusLabel(label string) (Status, bool) {
	l := cases.Lower(language.Turkish).String(strings.TrimSpace(label))
	switch {
	case l == "":
		return StatusUnknown, false
	case strings.Contains(l, "süresi geçti"):
		return StatusExpired, true
	case strings.Contains(l, "kritik"):
		return StatusCritical, true
	case strings.Contains(l, "yaklaşıyor"):
		return StatusApproaching, true
	case strings.Contains(l, "aktif"):
		return StatusOK, true
	default:
		return StatusUnknown, false
	}
}

// DaysLeft counts whole days from now until endDate. Both dates are taken at
// local midnight, so a same-day expiration is 0 and yesterday is -1. The
// second return is false when endDate is absent.
func DaysLeft(endDate *time.Time, now time.Time) (int, bool) {
	if endDate == nil || endDate.IsZero() {
		return 0, false
	}
	start := midnight(now)
	end := midnight(endDate.In(now.Location()))
	// Rounding absorbs the odd hour around DST transitions.
	return int(math.Round(end.Sub(start).Hours() / 24)), true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StatusFromDaysLeft classifies a signed day count into a tier.
func StatusFromDaysLeft(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= criticalMaxDays:
		return StatusCritical
	case days <= approachingMaxDays:
		return StatusApproaching
	default:
		return StatusOK
	}
}

// Resolve applies the dual-path rule: a non-empty, parseable status label wins
// over local derivation from the end date. The day count is returned either
// way when the end date allows computing it.
func Resolve(label string, endDate *time.Time, now time.Time) (Status, *int) {
	var daysLeft *int
	if days, ok := DaysLeft(endDate, now); ok {
		daysLeft = &days
	}
	if status, ok := ParseStatusLabel(label); ok {
		return status, daysLeft
	}
	if daysLeft == nil {
		return StatusUnknown, nil
	}
	return StatusFromDaysLeft(*daysLeft), daysLeft
}
