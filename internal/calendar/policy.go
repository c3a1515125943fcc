// Package calendar 计算一个月里有多少个"该来聚会的日子"。
package calendar

import (
	"strconv"
	"strings"
	"time"

	"RollCall/internal/datekey"
)

// Policy 持有社团固定的聚会星期集合。
// 集合来自配置，默认周二/周四/周六。
type Policy struct {
	weekdays map[time.Weekday]bool
}

var weekdayNames = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

func New(weekdays ...time.Weekday) *Policy {
	set := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		set[d] = true
	}
	return &Policy{weekdays: set}
}

// Default 返回默认的周二/周四/周六聚会策略。
func Default() *Policy {
	return New(time.Tuesday, time.Thursday, time.Saturday)
}

// FromNames 从配置串（"TUE,THU,SAT" 拆出来的切片）构建策略，
// 认不出的名字直接忽略。
func FromNames(names []string) *Policy {
	p := &Policy{weekdays: make(map[time.Weekday]bool)}
	for _, name := range names {
		if d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
			p.weekdays[d] = true
		}
	}
	return p
}

// EligibleDayCount 返回该月里聚会星期的天数，月键无效时返回 0。
func (p *Policy) EligibleDayCount(monthKey string) int {
	if !datekey.IsValidMonthKey(monthKey) {
		return 0
	}

	year, _ := strconv.Atoi(monthKey[:4])
	month, _ := strconv.Atoi(monthKey[5:])
	if month < 1 || month > 12 {
		return 0
	}

	// 下个月第 0 天即本月最后一天
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	count := 0
	for day := 1; day <= last; day++ {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if p.weekdays[d.Weekday()] {
			count++
		}
	}
	return count
}
