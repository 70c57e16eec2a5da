package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── 课表时间工具 ──────────────────────────────────────────────
//
// 职责：解析 WebUntis 风格的 "HH:MM" / "HH:MM-HH:MM" 字符串，
// 以及计算 ISO 周对齐的周一日期。纯函数，无状态。
// ─────────────────────────────────────────────────────────────

// ErrBadTimeFormat 时间字符串格式错误
var ErrBadTimeFormat = errors.New("时间格式无效")

// ToMinutes 将 "HH:MM" 转为当日分钟偏移（例: "07:15" → 435）
func ToMinutes(s string) (int, error) {
	h, m, ok := splitClock(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeFormat, s)
	}
	return h*60 + m, nil
}

// ParseRange 将 "HH:MM-HH:MM" 按第一个 '-' 拆为起止时间
// 仅做拆分，不校验两段各自的格式（由 ToMinutes 负责）
func ParseRange(s string) (start, end string, err error) {
	idx := strings.Index(s, "-")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: 时间区间 %q 缺少 '-'", ErrBadTimeFormat, s)
	}
	return s[:idx], s[idx+1:], nil
}

// MondayOf 返回给定日期所在 ISO 周的周一（时间部分归零）
//
// 周日视为一周的末尾而非开头：周日回退 6 天。
// 仅基于本地日历分量计算，不经过绝对时刻换算，
// 避免夏令时切换导致的日期漂移。
func MondayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	// Weekday: 0=周日 … 6=周六
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

func splitClock(s string) (h, m int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}
