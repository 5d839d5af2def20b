package period_test

import (
	"testing"
	"time"

	"backend/pkg/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNamedPeriods(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     period.Query
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "daily_starts_at_midnight",
			query:     period.Query{Period: period.Daily},
			wantStart: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   now,
		},
		{
			name:      "weekly_trailing_7_days",
			query:     period.Query{Period: period.Weekly},
			wantStart: now.AddDate(0, 0, -7),
			wantEnd:   now,
		},
		{
			name:      "monthly_trailing_30_days",
			query:     period.Query{Period: period.Monthly},
			wantStart: now.AddDate(0, 0, -30),
			wantEnd:   now,
		},
		{
			name:      "yearly_trailing_365_days",
			query:     period.Query{Period: period.Yearly},
			wantStart: now.AddDate(0, 0, -365),
			wantEnd:   now,
		},
		{
			name:      "absent_period_defaults_to_trailing_30_days",
			query:     period.Query{},
			wantStart: now.AddDate(0, 0, -30),
			wantEnd:   now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.query.Resolve(now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.False(t, start.After(end), "resolved range must satisfy start <= end")
		})
	}
}

func TestResolveCustom(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	q := period.Query{Period: period.Custom, StartDate: "2026-01-01", EndDate: "2026-01-31"}
	start, end, err := q.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)
	// End bound is inclusive and covers the whole last day.
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), end)
}

func TestResolveCustomSingleDay(t *testing.T) {
	now := time.Now()

	q := period.Query{Period: period.Custom, StartDate: "2026-02-10", EndDate: "2026-02-10"}
	start, end, err := q.Resolve(now)
	require.NoError(t, err)
	assert.True(t, start.Before(end))
}

func TestResolveCustomErrors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		query period.Query
	}{
		{"missing_start", period.Query{Period: period.Custom, EndDate: "2026-01-31"}},
		{"missing_end", period.Query{Period: period.Custom, StartDate: "2026-01-01"}},
		{"missing_both", period.Query{Period: period.Custom}},
		{"unparseable_start", period.Query{Period: period.Custom, StartDate: "31/01/2026", EndDate: "2026-01-31"}},
		{"unparseable_end", period.Query{Period: period.Custom, StartDate: "2026-01-01", EndDate: "soon"}},
		{"start_after_end", period.Query{Period: period.Custom, StartDate: "2026-02-01", EndDate: "2026-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.query.Resolve(now)
			assert.ErrorIs(t, err, period.ErrInvalidRange)
		})
	}
}

func TestResolveUnknownPeriod(t *testing.T) {
	_, _, err := period.Query{Period: "quarterly"}.Resolve(time.Now())
	assert.ErrorIs(t, err, period.ErrInvalidRange)
}
