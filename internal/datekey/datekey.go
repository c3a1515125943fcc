// Package datekey 把存储里五花八门的日期单元格归一成 YYYY/MM/DD 键。
// 后端至少经历过一次导出格式迁移，老行不会被重写，所以这里必须
// 永远同时容忍新旧两种表示。
package datekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const Layout = "2006/01/02"

var (
	dateKeyRe  = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	monthKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	// 旧导出格式，例如 "2026. 1. 3"，月日不补零，点后空格可有可无
	legacyRe = regexp.MustCompile(`^(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})$`)
)

// Normalize 把一个日期单元格归一成规范键。
// 归一失败返回空串，表示这一行要被聚合跳过，而不是报错。
func Normalize(cell interface{}, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	switch v := cell.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.In(loc).Format(Layout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return Normalize(*v, loc)
	case string:
		return normalizeString(v)
	default:
		return ""
	}
}

func normalizeString(s string) string {
	s = strings.TrimSpace(s)

	if dateKeyRe.MatchString(s) {
		return s
	}

	m := legacyRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}

	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s/%02d/%02d", m[1], month, day)
}

// IsValidDateKey 校验查询方传入的日期键格式。
func IsValidDateKey(s string) bool {
	return dateKeyRe.MatchString(s)
}

// IsValidDate 在格式之上再校验是不是真实存在的日历日。
func IsValidDate(s string) bool {
	if !dateKeyRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

func IsValidMonthKey(s string) bool {
	return monthKeyRe.MatchString(s)
}

// MonthKey 从规范日期键推出月键：取前 7 位，"/" 换 "-"。
// monthKey 永远由 dateKey 重新推导，不独立维护。
func MonthKey(dateKey string) string {
	if !dateKeyRe.MatchString(dateKey) {
		return ""
	}
	return strings.ReplaceAll(dateKey[:7], "/", "-")
}
