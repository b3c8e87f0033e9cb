// Package schedule 实现 "每月第N个星期X" 式的周期调度。
// 定投和再平衡都按这种日历规则触发: 保持星期几不变而不是固定几号,
// 当月不存在第N次时回退到当月最后一次 (回退, 不是错误)。
package schedule

import (
	"time"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// DateOnly 截断到 UTC 零点, 引擎内所有日期比较都基于它
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay 两个时间是否为同一自然日
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// OccurrenceInMonth 返回 date 的星期几在当月截至当日出现的次数 (1..5)
func OccurrenceInMonth(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// daysInMonth 当月天数
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NthWeekdayOfMonth 当月第 n 个星期 weekday 的日期。
// 若第 n 次不存在 (比如第5个星期五), 回退到当月最后一次出现。
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7

	day := 1 + offset + (n-1)*7
	last := daysInMonth(year, month)
	for day > last {
		day -= 7
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextOccurrence 计算 reference 之后的下一个调度日。
// Weekly: reference + interval*7 天。
// Monthly: 目标月 = reference 的月份 + interval (跨年进位), 星期几取
// reference 的星期几, 次数优先取 originalOccurrence (<=0 时按 reference
// 自身在当月的次数)。
func NextOccurrence(reference time.Time, freq types.Frequency, originalOccurrence int) time.Time {
	ref := DateOnly(reference)

	switch freq.Kind {
	case types.FrequencyWeekly:
		return ref.AddDate(0, 0, freq.Interval*7)
	case types.FrequencyMonthly:
		occ := originalOccurrence
		if occ <= 0 {
			occ = OccurrenceInMonth(ref)
		}
		year := ref.Year()
		month := int(ref.Month()) + freq.Interval
		year += (month - 1) / 12
		month = (month-1)%12 + 1
		return NthWeekdayOfMonth(year, time.Month(month), ref.Weekday(), occ)
	default:
		return ref
	}
}

// IsDueToday 判断当日是否触发调度。
// 只在 previous < next <= current 这一次边界穿越时为 true, 因此同一个
// 调度点不会重复触发; 首日 (previous 为零值或 current 即 reference 当日)
// 不触发任何动作。
func IsDueToday(current, previous time.Time, freq types.Frequency, reference time.Time, originalOccurrence int) bool {
	if freq.IsNone() {
		return false
	}
	if previous.IsZero() || SameDay(current, reference) {
		return false
	}

	next := NextOccurrence(reference, freq, originalOccurrence)
	return !DateOnly(current).Before(next) && DateOnly(previous).Before(next)
}
