package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasternHasDSTRules(t *testing.T) {
	assert.Equal(t, "America/New_York", Eastern.String())

	// Offsets differ between winter and summer when real tz data loaded.
	winter := time.Date(2026, 1, 15, 12, 0, 0, 0, Eastern)
	summer := time.Date(2026, 7, 15, 12, 0, 0, 0, Eastern)
	_, winterOffset := winter.Zone()
	_, summerOffset := summer.Zone()
	assert.NotEqual(t, winterOffset, summerOffset)
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 3, 10, 15, 30, 0, 0, Eastern)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day different hours", base, time.Date(2026, 3, 10, 1, 0, 0, 0, Eastern), 0},
		{"next day", base, base.AddDate(0, 0, 1), 1},
		{"previous day", base, base.AddDate(0, 0, -1), -1},
		{"across a month boundary", base, time.Date(2026, 4, 2, 0, 0, 0, 0, Eastern), 23},
		{"utc input is normalized", base, time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 10, 15, 30, 45, 123, Eastern)

	start := StartOfDay(ts)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 10, start.Day())

	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 10, end.Day())
}

func TestParseInEastern(t *testing.T) {
	parsed, err := ParseInEastern(DateLayout, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, Eastern, parsed.Location())
	assert.Equal(t, "2026-03-10", FormatEastern(parsed, DateLayout))

	_, err = ParseInEastern(DateLayout, "not a date")
	assert.Error(t, err)
}
