// Package timebucket maps UTC instants to calendar-aligned aggregation
// buckets in an enterprise's local timezone.
package timebucket

import (
	"fmt"
	"time"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod normalizes a raw period string. Anything other than the
// known granularities falls back to day; the permissive default is
// intentional, callers never see an error here.
func ParsePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodMonth:
		return PeriodMonth
	case PeriodYear:
		return PeriodYear
	default:
		return PeriodDay
	}
}

// Key identifies one calendar bucket. Keys carry their components rather
// than a formatted string so that ordering is defined explicitly instead
// of relying on lexicographic string sort.
type Key struct {
	Period Period
	Year   int
	Month  time.Month
	Day    int
}

// KeyFor buckets a UTC instant under the given local zone. Trips are
// bucketed by their start instant, so conversion of a single timestamp is
// all that is needed here.
func KeyFor(ts time.Time, loc *time.Location, period Period) Key {
	local := ts.In(loc)
	switch period {
	case PeriodYear:
		return Key{Period: PeriodYear, Year: local.Year()}
	case PeriodMonth:
		return Key{Period: PeriodMonth, Year: local.Year(), Month: local.Month()}
	default:
		return Key{Period: PeriodDay, Year: local.Year(), Month: local.Month(), Day: local.Day()}
	}
}

// Less orders keys chronologically. Components unused by the granularity
// are zero on both sides, so comparing all of them is safe.
func (k Key) Less(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// String renders the bucket key in the wire format: YYYY-MM-DD for day,
// YYYY-MM for month, YYYY for year.
func (k Key) String() string {
	switch k.Period {
	case PeriodYear:
		return fmt.Sprintf("%04d", k.Year)
	case PeriodMonth:
		return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
	default:
		return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
	}
}

// LoadZone resolves an IANA zone name. There is no fallback zone: an
// unknown name means the enterprise record itself is broken.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
