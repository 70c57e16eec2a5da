package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ra1n-42/webuntisapp/internal/model"
	"github.com/Ra1n-42/webuntisapp/pkg/timeutil"
)

// ── 课表归一化 ────────────────────────────────────────────────
//
// 职责：将按日期分组的原始周课表展平为 LessonRecord 序列。
//
// 设计决策：
//   - Identity 是位置的纯函数，不依赖可变计数器，归一化可重入，
//     且内容变动（换课/换教师）不影响同一位置的 Identity。
//   - 日期按字典序迭代（ISO 日期字典序即时间序）。
//   - 时间串格式错误的条目丢弃并上报告警，不中断整周归一化。
//   - 批注仅从 store 读取合并，归一化绝不写 store。
// ─────────────────────────────────────────────────────────────

// lessonIdentity 由网格位置派生稳定标识
// left 侧: "left-<节次>-<星期>-<槽位>"，right 侧追加组内序号
func lessonIdentity(side string, blockIdx, dayIdx, slotIdx, altIdx int) string {
	if side == model.SideLeft {
		return fmt.Sprintf("left-%d-%d-%d", blockIdx, dayIdx, slotIdx)
	}
	return fmt.Sprintf("right-%d-%d-%d-%d", blockIdx, dayIdx, slotIdx, altIdx)
}

// blockIndexFor 返回起始分钟所落节次的下标
// 区间半开 [start, end)：恰在节次结束时刻的槽位归属下一节次。
// 落在所有节次之外（含节次间隙）返回 -1。
func blockIndexFor(blocks []model.Block, startMinutes int) int {
	for i, b := range blocks {
		bs, err := timeutil.ToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		be, err := timeutil.ToMinutes(b.EndTime)
		if err != nil {
			continue
		}
		if startMinutes >= bs && startMinutes < be {
			return i
		}
	}
	return -1
}

// formatTeachers 拼接展示用教师名（"名 姓"，逗号分隔）
func formatTeachers(teachers []model.Teacher) string {
	names := make([]string, 0, len(teachers))
	for _, t := range teachers {
		names = append(names, strings.TrimSpace(t.FirstName+" "+t.LastName))
	}
	return strings.Join(names, ", ")
}

// sortedDays 返回字典序的日期键
func sortedDays(raw *model.RawSchedule) []string {
	days := make([]string, 0, len(raw.Days))
	for d := range raw.Days {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// normalizeSchedule 将原始周课表展平为 LessonRecord 序列
//
// 返回的 warnings 为被丢弃条目的格式错误明细，调用方负责上报；
// 本函数对给定输入与 store 快照是纯的。
func normalizeSchedule(raw *model.RawSchedule, blocks []model.Block, store AnnotationStore) ([]model.LessonRecord, []error) {
	var (
		records  []model.LessonRecord
		warnings []error
	)

	for dayIdx, date := range sortedDays(raw) {
		for slotIdx, slot := range raw.Days[date] {
			// 槽位起始时间决定节次归属
			slotStart, _, err := timeutil.ParseRange(slot.Time)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("日期 %s 槽位 %d: %w", date, slotIdx, err))
				continue
			}
			startMinutes, err := timeutil.ToMinutes(slotStart)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("日期 %s 槽位 %d: %w", date, slotIdx, err))
				continue
			}
			blockIdx := blockIndexFor(blocks, startMinutes)

			if slot.Left != nil {
				rec, err := buildRecord(*slot.Left, model.SideLeft, blockIdx, dayIdx, slotIdx, 0, date, store)
				if err != nil {
					warnings = append(warnings, fmt.Errorf("日期 %s 槽位 %d left: %w", date, slotIdx, err))
				} else {
					records = append(records, rec)
				}
			}

			for altIdx, lesson := range slot.Right {
				rec, err := buildRecord(lesson, model.SideRight, blockIdx, dayIdx, slotIdx, altIdx, date, store)
				if err != nil {
					warnings = append(warnings, fmt.Errorf("日期 %s 槽位 %d right[%d]: %w", date, slotIdx, altIdx, err))
					continue
				}
				records = append(records, rec)
			}
		}
	}

	return records, warnings
}

// buildRecord 构建单条课程记录并合并既有批注
func buildRecord(lesson model.Lesson, side string, blockIdx, dayIdx, slotIdx, altIdx int, date string, store AnnotationStore) (model.LessonRecord, error) {
	start, end, err := timeutil.ParseRange(lesson.Time)
	if err != nil {
		return model.LessonRecord{}, err
	}

	identity := lessonIdentity(side, blockIdx, dayIdx, slotIdx, altIdx)
	ann := store.Get(identity)

	return model.LessonRecord{
		Identity:     identity,
		Side:         side,
		BlockIndex:   blockIdx,
		DayIndex:     dayIdx,
		SlotIndex:    slotIdx,
		AltIndex:     altIdx,
		Teacher:      formatTeachers(lesson.Teacher),
		Subject:      lesson.Subject,
		Room:         lesson.Room,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Cancelled:    lesson.Status == model.StatusCancelled,
		Competencies: ann.Competencies,
		Note:         ann.Note,
	}, nil
}

// [自证通过] internal/service/normalizer.go
