package period

import (
	"errors"
	"fmt"
	"time"
)

// Named period selectors accepted in query strings.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
	Yearly  = "yearly"
	Custom  = "custom"
)

// DateLayout is the wire format for explicit custom bounds.
const DateLayout = "2006-01-02"

// ErrInvalidRange indicates missing, unparseable, or inverted custom bounds.
var ErrInvalidRange = errors.New("invalid date range")

// Query carries the raw period selector from the query string.
type Query struct {
	Period    string `form:"period" binding:"omitempty,oneof=daily weekly monthly yearly custom"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Resolve turns a period selector into a concrete window [start, end], both
// bounds inclusive at query time.
//
// Policy: weekly/monthly/yearly are rolling trailing windows (7/30/365 days
// ending now), not calendar-aligned; daily runs from the start of the current
// day to now; an absent period defaults to the trailing 30 days. Custom end
// dates cover the whole named day.
func (q Query) Resolve(now time.Time) (start, end time.Time, err error) {
	switch q.Period {
	case Daily:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, nil
	case Weekly:
		return now.AddDate(0, 0, -7), now, nil
	case Monthly, "":
		return now.AddDate(0, 0, -30), now, nil
	case Yearly:
		return now.AddDate(0, 0, -365), now, nil
	case Custom:
		return q.resolveCustom(now.Location())
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", ErrInvalidRange, q.Period)
	}
}

func (q Query) resolveCustom(loc *time.Location) (time.Time, time.Time, error) {
	if q.StartDate == "" || q.EndDate == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: custom period requires both startDate and endDate", ErrInvalidRange)
	}

	start, err := time.ParseInLocation(DateLayout, q.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startDate %q, expected YYYY-MM-DD", ErrInvalidRange, q.StartDate)
	}

	end, err := time.ParseInLocation(DateLayout, q.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid endDate %q, expected YYYY-MM-DD", ErrInvalidRange, q.EndDate)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate %s is after endDate %s", ErrInvalidRange, q.StartDate, q.EndDate)
	}

	// The end bound is inclusive, so stretch it to the last instant of the day.
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}
