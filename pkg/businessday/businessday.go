package businessday

import (
	"fmt"
	"time"
)

// dateLayout 祝日集合与日期比对所用的日历日期格式
const dateLayout = "2006-01-02"

// HolidaySet 祝日集合，键为 "YYYY-MM-DD" 形式的日历日期
type HolidaySet map[string]struct{}

// NewHolidaySet 从日期字符串列表构建祝日集合
// 无法解析的条目原样忽略——祝日表由配置提供，宁可少跳一天也不中断启动
func NewHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

// Contains 判断某天是否为祝日
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(dateLayout)]
	return ok
}

// IsBusinessDay 判断某天是否为营业日（非周六日且非祝日）
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(t)
}

// AddBusinessDays 返回从 start 起第 n 个营业日的日期。
//
// 逐日前进，跳过周六日与祝日集合中的日期；start 本身不计入。
// n == 0 时同样先前进一天，落在 start 之后的第一个营业日上
// （"前进零个营业日" 的既定行为，详见 businessday_test.go 的显式断言）。
func AddBusinessDays(start time.Time, n int, holidays HolidaySet) (time.Time, error) {
	if n < 0 {
		return time.Time{}, fmt.Errorf("营业日数不能为负数: %d", n)
	}

	current := start
	remaining := n
	for {
		current = current.AddDate(0, 0, 1)
		if !IsBusinessDay(current, holidays) {
			continue
		}
		if remaining <= 1 {
			return current, nil
		}
		remaining--
	}
}
