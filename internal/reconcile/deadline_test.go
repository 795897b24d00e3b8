package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestNormalizeISODateBothModes(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-15", day(2024, 1, 15)},
		{" 2024-01-15 ", day(2024, 1, 15)},
		{"2023-12-31", day(2023, 12, 31)},
		{"2025-02-28", day(2025, 2, 28)},
	}
	for _, tt := range tests {
		for _, mode := range []Mode{ModeCatalog, ModeVerification} {
			d := Normalize(tt.raw, mode, datePtr(2024, 1, 1))
			got, ok := d.Date()
			require.True(t, ok, "mode=%s raw=%q", mode, tt.raw)
			assert.Equal(t, tt.want, got, "mode=%s raw=%q", mode, tt.raw)
			assert.Equal(t, tt.want.Format(DateLayout), d.String())
		}
	}
}

func TestNormalizeSerialDates(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"1", day(1899, 12, 31)},
		{"45000", day(2023, 3, 15)},
		{"45306", day(2024, 1, 15)},
		{"45306.75", day(2024, 1, 15)},
		{"100000", day(2173, 10, 14)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			for _, mode := range []Mode{ModeCatalog, ModeVerification} {
				got, ok := Normalize(tt.raw, mode, nil).Date()
				require.True(t, ok)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSerialToDateMatchesEpochPlusDays(t *testing.T) {
	for _, n := range []int{1, 2, 59, 60, 61, 365, 25569, 45000, 99999, 100000} {
		assert.Equal(t, serialEpoch.AddDate(0, 0, n), SerialToDate(float64(n)), "serial %d", n)
	}
	assert.Equal(t, 2023, SerialToDate(45000).Year())
}

func TestNormalizeSerialOutOfRangeFallsThrough(t *testing.T) {
	assert.False(t, NormalizeVerification("0").Resolved())
	assert.False(t, NormalizeVerification("0.5").Resolved())
	assert.False(t, NormalizeVerification("-3").Resolved())
	assert.False(t, NormalizeVerification("100001").Resolved())

	// 8 位数字超出序列号范围，按紧凑日期解析
	got, ok := NormalizeVerification("20240115").Date()
	require.True(t, ok)
	assert.Equal(t, day(2024, 1, 15), got)
}

func TestNormalizeSoon(t *testing.T) {
	got, ok := Normalize("soon", ModeCatalog, datePtr(2024, 1, 1)).Date()
	require.True(t, ok)
	assert.Equal(t, day(2024, 1, 31), got)

	entered := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)
	got, ok = NormalizeCatalog("SOON", &entered).Date()
	require.True(t, ok)
	assert.Equal(t, day(2024, 3, 11), got)

	for _, raw := range []string{"Soon", "soon", " SOON "} {
		d := Normalize(raw, ModeVerification, datePtr(2030, 6, 1))
		assert.True(t, d.IsSoon())
		assert.True(t, d.Resolved())
		assert.Equal(t, "Soon", d.String())
		_, ok := d.Date()
		assert.False(t, ok, "verification Soon must not carry a date")
	}
}

func TestNormalizeSoonWithoutEntryDate(t *testing.T) {
	d := NormalizeCatalog("Soon", nil)
	assert.False(t, d.Resolved())
	assert.Equal(t, "", d.String())

	var zero time.Time
	assert.False(t, NormalizeCatalog("Soon", &zero).Resolved())
}

func TestNormalizeUnresolved(t *testing.T) {
	for _, raw := range []string{"", "   ", "next week", "TBD", "2024-13-45", "NaN", "soonish"} {
		for _, mode := range []Mode{ModeCatalog, ModeVerification} {
			d := Normalize(raw, mode, datePtr(2024, 1, 1))
			assert.False(t, d.Resolved(), "mode=%s raw=%q", mode, raw)
			assert.Equal(t, "", d.String())
		}
	}
}

func TestParseCalendarDateLayouts(t *testing.T) {
	want := day(2024, 3, 5)
	for _, raw := range []string{
		"2024-03-05",
		"2024-3-5",
		"2024/03/05",
		"2024/3/5",
		"03/05/2024",
		"3/5/2024",
		"Mar 5, 2024",
		"March 5, 2024",
		"5 March 2024",
		"2024年3月5日",
		"2024-03-05 14:30",
		"2024-03-05 14:30:00",
		"2024-03-05T14:30:00Z",
		"05 Mar 2024",
	} {
		got, ok := ParseCalendarDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseCalendarDate("3:04PM")
	assert.False(t, ok)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 14, DaysBetween(day(2024, 1, 1), day(2024, 1, 15)))
	assert.Equal(t, -5, DaysBetween(day(2024, 1, 10), day(2024, 1, 5)))
	assert.Equal(t, 0, DaysBetween(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), day(2024, 1, 1)))
	assert.Equal(t, 366, DaysBetween(day(2024, 1, 1), day(2025, 1, 1)))
}
