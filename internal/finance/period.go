package finance

import (
	"strings"
	"time"
)

// Period is a resolved reporting interval.
type Period struct {
	Key   string
	Start time.Time
	End   time.Time
}

// Known period keys.
const (
	PeriodCurrentMonth = "current_month"
	PeriodLastMonth    = "last_month"
	PeriodLast30Days   = "last_30_days"
	PeriodLast90Days   = "last_90_days"
	PeriodCurrentYear  = "current_year"
)

// Label returns a human-readable name, e.g. "current month".
func (p Period) Label() string {
	return strings.ReplaceAll(p.Key, "_", " ")
}

// ResolvePeriod maps a user-default period key to a concrete interval.
// Unknown keys fall back to the current month rather than failing, so a
// stale preference never breaks snapshot assembly.
func ResolvePeriod(key string, now time.Time) Period {
	switch key {
	case PeriodCurrentMonth:
		return CurrentMonth(now)
	case PeriodLastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return Period{Key: key, Start: start, End: start.AddDate(0, 1, 0)}
	case PeriodLast30Days:
		return Period{Key: key, Start: now.AddDate(0, 0, -30), End: now}
	case PeriodLast90Days:
		return Period{Key: key, Start: now.AddDate(0, 0, -90), End: now}
	case PeriodCurrentYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Period{Key: key, Start: start, End: start.AddDate(1, 0, 0)}
	default:
		return CurrentMonth(now)
	}
}

// CurrentMonth returns the period spanning the month containing now.
func CurrentMonth(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Period{Key: PeriodCurrentMonth, Start: start, End: start.AddDate(0, 1, 0)}
}
