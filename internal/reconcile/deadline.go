package reconcile

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Mode 截止日期归一化模式。同一个 "Soon" 在两侧的解析结果不同，必须显式区分
type Mode int

const (
	// ModeCatalog 库内记录侧：Soon 解析为 入库日期 + 30 天，用于计算提前天数
	ModeCatalog Mode = iota
	// ModeVerification 人工核验表侧：Soon 保留字面量 "Soon"，只参与复合键的字符串匹配
	ModeVerification
)

func (m Mode) String() string {
	switch m {
	case ModeCatalog:
		return "catalog"
	case ModeVerification:
		return "verification"
	default:
		return "unknown"
	}
}

const (
	// SoonToken Soon 哨兵的规范写法
	SoonToken = "Soon"
	// SoonOffsetDays 库内 Soon 视为入库后 30 天截止
	SoonOffsetDays = 30
	// DateLayout 对外输出的日期格式
	DateLayout = "2006-01-02"

	serialMin = 1
	serialMax = 100000

	secondsPerDay = 24 * 60 * 60
)

// serialEpoch Excel/Google Sheets 序列日期的 0 点（1899-12-30），序列号 1 即 1899-12-31
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

type deadlineKind uint8

const (
	kindUnresolved deadlineKind = iota
	kindDate
	kindSoon
)

// Deadline 归一化后的截止日期：具体日期、"Soon" 字面量（仅核验侧）或未解析
type Deadline struct {
	date time.Time
	kind deadlineKind
}

// Unresolved 未解析的截止日期
func Unresolved() Deadline { return Deadline{} }

// DeadlineOn 指定日期的截止日期（只保留年月日）
func DeadlineOn(t time.Time) Deadline {
	return Deadline{date: CivilDate(t), kind: kindDate}
}

// Resolved 是否得到了日期或 Soon 字面量
func (d Deadline) Resolved() bool { return d.kind != kindUnresolved }

// IsSoon 是否为核验侧保留的 Soon 字面量
func (d Deadline) IsSoon() bool { return d.kind == kindSoon }

// Date 返回具体日期；Soon 字面量和未解析都返回 false
func (d Deadline) Date() (time.Time, bool) {
	if d.kind != kindDate {
		return time.Time{}, false
	}
	return d.date, true
}

// String 复合键使用的字符串形式：YYYY-MM-DD、Soon 或空串
func (d Deadline) String() string {
	switch d.kind {
	case kindDate:
		return d.date.Format(DateLayout)
	case kindSoon:
		return SoonToken
	default:
		return ""
	}
}

// Normalize 把原始截止日期（ISO 日期、表格序列号、Soon）归一化，按以下顺序首个命中生效：
//  1. 空值 → 未解析
//  2. Soon（不区分大小写）→ ModeCatalog: contextDate + 30 天（contextDate 缺失则未解析）；
//     ModeVerification: 字面量 "Soon"
//  3. [1, 100000] 内的数字 → 序列日期
//  4. 可识别的日期字符串 → 该日期
//  5. 其余 → 未解析
//
// 任何输入都不会返回错误，失败以未解析的形式向下游传递。
func Normalize(raw string, mode Mode, contextDate *time.Time) Deadline {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unresolved()
	}

	if strings.EqualFold(s, SoonToken) {
		switch mode {
		case ModeCatalog:
			if contextDate == nil || contextDate.IsZero() {
				return Unresolved()
			}
			return DeadlineOn(CivilDate(*contextDate).AddDate(0, 0, SoonOffsetDays))
		case ModeVerification:
			return Deadline{kind: kindSoon}
		default:
			return Unresolved()
		}
	}

	if t, ok := parseSerial(s); ok {
		return DeadlineOn(t)
	}

	if t, ok := ParseCalendarDate(s); ok {
		return DeadlineOn(t)
	}
	return Unresolved()
}

// NormalizeCatalog 库内侧归一化，entryDate 为该记录的入库日期
func NormalizeCatalog(raw string, entryDate *time.Time) Deadline {
	return Normalize(raw, ModeCatalog, entryDate)
}

// NormalizeVerification 核验表侧归一化，Soon 保留字面量
func NormalizeVerification(raw string) Deadline {
	return Normalize(raw, ModeVerification, nil)
}

// SerialToDate 表格序列号转日期，小数部分（当天时间）舍去
func SerialToDate(n float64) time.Time {
	return serialEpoch.AddDate(0, 0, int(math.Floor(n)))
}

func parseSerial(s string) (time.Time, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return time.Time{}, false
	}
	if n < serialMin || n > serialMax {
		return time.Time{}, false
	}
	return SerialToDate(n), true
}

// 常见的人工录入格式，cast 无法覆盖的斜杠/紧凑写法放在前面
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"20060102",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006年1月2日",
}

// ParseCalendarDate 解析日期字符串，成功时只保留年月日（UTC 零点）
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CivilDate(t), true
		}
	}
	t, err := cast.ToTimeE(s)
	if err != nil || t.Year() < 1 {
		return time.Time{}, false
	}
	return CivilDate(t), true
}

// CivilDate 取年月日（UTC 零点），丢弃时间与时区
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween 两个日期相差的自然日数（to - from）
func DaysBetween(from, to time.Time) int {
	return int((CivilDate(to).Unix() - CivilDate(from).Unix()) / secondsPerDay)
}
