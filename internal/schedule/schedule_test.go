package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrenceInMonth(t *testing.T) {
	assert.Equal(t, 1, OccurrenceInMonth(date(2024, time.January, 3)))
	assert.Equal(t, 2, OccurrenceInMonth(date(2024, time.January, 10))) // 第2个周三
	assert.Equal(t, 4, OccurrenceInMonth(date(2024, time.January, 24)))
	assert.Equal(t, 5, OccurrenceInMonth(date(2024, time.January, 31)))
}

func TestNthWeekdayOfMonth(t *testing.T) {
	// 2024-01: 1号是周一
	assert.Equal(t, date(2024, time.January, 10), NthWeekdayOfMonth(2024, time.January, time.Wednesday, 2))
	assert.Equal(t, date(2024, time.January, 1), NthWeekdayOfMonth(2024, time.January, time.Monday, 1))
	assert.Equal(t, date(2024, time.January, 29), NthWeekdayOfMonth(2024, time.January, time.Monday, 5))
}

func TestNthWeekdayOfMonthFallback(t *testing.T) {
	// 2024-02 只有4个周五, 第5个回退到最后一个 (2月23日)
	got := NthWeekdayOfMonth(2024, time.February, time.Friday, 5)
	assert.Equal(t, date(2024, time.February, 23), got)
	assert.Less(t, OccurrenceInMonth(got), 5)
}

func TestNthWeekdayRoundTrip(t *testing.T) {
	// 只要第n次存在, occurrenceOf(nthWeekdayOfMonth(...)) == n
	for month := time.January; month <= time.December; month++ {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			for n := 1; n <= 4; n++ {
				got := NthWeekdayOfMonth(2024, month, wd, n)
				require.Equal(t, wd, got.Weekday())
				require.Equal(t, n, OccurrenceInMonth(got))
			}
		}
	}
}

func TestNextOccurrenceWeekly(t *testing.T) {
	freq := types.Frequency{Kind: types.FrequencyWeekly, Interval: 2}
	got := NextOccurrence(date(2024, time.January, 10), freq, 0)
	assert.Equal(t, date(2024, time.January, 24), got)
}

func TestNextOccurrenceMonthly(t *testing.T) {
	freq := types.Frequency{Kind: types.FrequencyMonthly, Interval: 1}

	// 2024-01-10 是第2个周三 → 2月第2个周三是2月14日
	got := NextOccurrence(date(2024, time.January, 10), freq, 2)
	assert.Equal(t, date(2024, time.February, 14), got)

	// originalOccurrence 未给定时按 reference 自身的次数
	got = NextOccurrence(date(2024, time.January, 10), freq, 0)
	assert.Equal(t, date(2024, time.February, 14), got)
}

func TestNextOccurrenceMonthlyYearCarry(t *testing.T) {
	// 2024-11-15 是第3个周五, +2个月 → 2025年1月第3个周五是1月17日
	freq := types.Frequency{Kind: types.FrequencyMonthly, Interval: 2}
	got := NextOccurrence(date(2024, time.November, 15), freq, 3)
	assert.Equal(t, date(2025, time.January, 17), got)
}

func TestNextOccurrenceMonotonic(t *testing.T) {
	freqs := []types.Frequency{
		{Kind: types.FrequencyWeekly, Interval: 1},
		{Kind: types.FrequencyMonthly, Interval: 1},
		{Kind: types.FrequencyMonthly, Interval: 3},
	}
	ref := date(2024, time.January, 2)
	for _, freq := range freqs {
		cur := ref
		for i := 0; i < 24; i++ {
			next := NextOccurrence(cur, freq, 0)
			require.True(t, next.After(cur), "next occurrence %s not after %s", next, cur)
			cur = next
		}
	}
}

func TestIsDueToday(t *testing.T) {
	monthly := types.Frequency{Kind: types.FrequencyMonthly, Interval: 1}
	ref := date(2024, time.January, 10)

	// 无频率永不触发
	assert.False(t, IsDueToday(date(2024, time.February, 14), date(2024, time.February, 13), types.Frequency{}, ref, 2))

	// 首日不触发
	assert.False(t, IsDueToday(ref, time.Time{}, monthly, ref, 2))
	assert.False(t, IsDueToday(ref, date(2024, time.January, 9), monthly, ref, 2))

	// 边界穿越当天触发一次
	assert.True(t, IsDueToday(date(2024, time.February, 14), date(2024, time.February, 13), monthly, ref, 2))
	assert.False(t, IsDueToday(date(2024, time.February, 15), date(2024, time.February, 14), monthly, ref, 2))
	assert.False(t, IsDueToday(date(2024, time.February, 13), date(2024, time.February, 12), monthly, ref, 2))

	// 调度日落在非交易日时, 之后第一个交易日触发
	assert.True(t, IsDueToday(date(2024, time.February, 16), date(2024, time.February, 13), monthly, ref, 2))
}

func TestParseFrequency(t *testing.T) {
	cases := []struct {
		in   string
		want types.Frequency
	}{
		{"none", types.Frequency{Kind: types.FrequencyNone}},
		{"", types.Frequency{Kind: types.FrequencyNone}},
		{"weekly_1", types.Frequency{Kind: types.FrequencyWeekly, Interval: 1}},
		{"monthly_3", types.Frequency{Kind: types.FrequencyMonthly, Interval: 3}},
	}
	for _, c := range cases {
		got, err := types.ParseFrequency(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	for _, bad := range []string{"daily_1", "monthly", "weekly_0", "monthly_x", "annually_1"} {
		_, err := types.ParseFrequency(bad)
		var cfgErr *types.ConfigurationError
		require.ErrorAs(t, err, &cfgErr, "input %q", bad)
	}
}
