package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ════════════════════════════════════════════════════════════
// 导出测试
// ════════════════════════════════════════════════════════════

func newExportFixture(t *testing.T) ExportService {
	t.Helper()
	client := &mockUntisClient{weeks: map[string]*model.RawSchedule{
		"2024-01-01": weekRaw("2024-01-01", "BFS21"),
	}}
	schedule := NewScheduleService(client, nil, NewAnnotationStore(), zap.NewNop())
	return NewExportService(schedule, zap.NewNop())
}

var exportDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

func TestExportWeek_XLSX(t *testing.T) {
	svc := newExportFixture(t)

	buf, filename, err := svc.ExportWeek(context.Background(), exportDate, FormatXLSX)
	if err != nil {
		t.Fatalf("ExportWeek(xlsx) 失败: %v", err)
	}
	if filename != "stundenplan_2024-01-01.xlsx" {
		t.Errorf("文件名期望 stundenplan_2024-01-01.xlsx, 实际 %s", filename)
	}

	// 回读校验网格内容
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("生成的 Excel 无法打开: %v", err)
	}
	defer f.Close()

	zeit, err := f.GetCellValue("Stundenplan", "A1")
	if err != nil || zeit != "Zeit" {
		t.Errorf("A1 期望 Zeit, 实际 %q (err=%v)", zeit, err)
	}
	header, _ := f.GetCellValue("Stundenplan", "B1")
	if header != "Montag 2024-01-01" {
		t.Errorf("B1 期望 Montag 2024-01-01, 实际 %q", header)
	}
	// 09:05-10:35 为第二节次 → 第 3 行
	cell, _ := f.GetCellValue("Stundenplan", "B3")
	if !strings.Contains(cell, "Mathematik") {
		t.Errorf("B3 应含课程, 实际 %q", cell)
	}
	free, _ := f.GetCellValue("Stundenplan", "B2")
	if free != "Frei" {
		t.Errorf("空闲格期望 Frei, 实际 %q", free)
	}
}

func TestExportWeek_ICS(t *testing.T) {
	svc := newExportFixture(t)

	buf, filename, err := svc.ExportWeek(context.Background(), exportDate, FormatICS)
	if err != nil {
		t.Fatalf("ExportWeek(ics) 失败: %v", err)
	}
	if filename != "stundenplan_2024-01-01.ics" {
		t.Errorf("文件名期望 stundenplan_2024-01-01.ics, 实际 %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("缺少 VCALENDAR 头")
	}
	if strings.Count(content, "BEGIN:VEVENT") != 1 {
		t.Errorf("期望 1 个 VEVENT, 内容:\n%s", content)
	}
	if !strings.Contains(content, "SUMMARY:Mathematik") {
		t.Error("缺少课程摘要")
	}
}

func TestExportWeek_UnsupportedFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, _, err := svc.ExportWeek(context.Background(), exportDate, "pdf")
	if !errors.Is(err, ErrExportUnsupportedFormat) {
		t.Errorf("期望 ErrExportUnsupportedFormat, 实际 %v", err)
	}
}

func TestExportWeek_EmptyWeek(t *testing.T) {
	client := &mockUntisClient{} // 任意周返回空课表
	schedule := NewScheduleService(client, nil, NewAnnotationStore(), zap.NewNop())
	svc := NewExportService(schedule, zap.NewNop())

	_, _, err := svc.ExportWeek(context.Background(), exportDate, FormatXLSX)
	if !errors.Is(err, ErrExportEmptyWeek) {
		t.Errorf("期望 ErrExportEmptyWeek, 实际 %v", err)
	}
}
