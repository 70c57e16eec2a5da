package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/model"
	"github.com/Ra1n-42/webuntisapp/internal/service"
	"github.com/Ra1n-42/webuntisapp/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ScheduleService ──

type mockScheduleService struct {
	loadResult    *dto.WeekResponse
	loadErr       error
	loadedDate    time.Time
	currentResult *dto.WeekResponse
	currentErr    error
	annResult     *dto.AnnotationResponse

	lastIdentity string
	lastText     string
	lastIndex    int
}

func (m *mockScheduleService) LoadWeek(_ context.Context, date time.Time) (*dto.WeekResponse, error) {
	m.loadedDate = date
	return m.loadResult, m.loadErr
}
func (m *mockScheduleService) CurrentWeek() (*dto.WeekResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockScheduleService) Blocks() []model.Block {
	return model.DefaultBlocks
}
func (m *mockScheduleService) SetNote(identity, text string) *dto.AnnotationResponse {
	m.lastIdentity, m.lastText = identity, text
	return m.annResult
}
func (m *mockScheduleService) AddCompetency(identity, text string) *dto.AnnotationResponse {
	m.lastIdentity, m.lastText = identity, text
	return m.annResult
}
func (m *mockScheduleService) RemoveCompetency(identity string, index int) *dto.AnnotationResponse {
	m.lastIdentity, m.lastIndex = identity, index
	return m.annResult
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
	format   string
}

func (m *mockExportService) ExportWeek(_ context.Context, _ time.Time, format string) (*bytes.Buffer, string, error) {
	m.format = format
	return m.buf, m.filename, m.err
}

// ── 测试路由 ──

func newTestRouter(sched service.ScheduleService, export service.ExportService) *gin.Engine {
	r := gin.New()
	th := NewTimetableHandler(sched)
	ah := NewAnnotationHandler(sched)
	eh := NewExportHandler(export)

	v1 := r.Group("/api/v1")
	v1.GET("/timetable/week", th.GetWeek)
	v1.GET("/timetable/current", th.GetCurrent)
	v1.GET("/timetable/blocks", th.GetBlocks)
	v1.PUT("/lessons/:id/note", ah.SetNote)
	v1.POST("/lessons/:id/competencies", ah.AddCompetency)
	v1.DELETE("/lessons/:id/competencies/:index", ah.RemoveCompetency)
	v1.GET("/export/week", eh.ExportWeek)
	return r
}

func doRequest(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v, body=%s", err, w.Body.String())
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// 周课表 Handler
// ═══════════════════════════════════════════════════════════

func TestGetWeek_OK(t *testing.T) {
	sched := &mockScheduleService{loadResult: &dto.WeekResponse{Class: "BFS21", From: "2024-01-01"}}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/timetable/week?date=2024-01-03", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != 0 {
		t.Errorf("业务码期望 0, 实际 %d", resp.Code)
	}
	if sched.loadedDate.Format("2006-01-02") != "2024-01-03" {
		t.Errorf("传入日期错误: %v", sched.loadedDate)
	}
}

func TestGetWeek_BadDate(t *testing.T) {
	r := newTestRouter(&mockScheduleService{}, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/timetable/week?date=03.01.2024", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400, 实际 %d", w.Code)
	}
}

func TestGetWeek_FetchError(t *testing.T) {
	sched := &mockScheduleService{
		loadErr: fmt.Errorf("%w: HTTP 502", service.ErrScheduleFetchFailed),
	}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/timetable/week", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("期望 502, 实际 %d", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != 15001 {
		t.Errorf("业务码期望 15001, 实际 %d", resp.Code)
	}
	if !strings.Contains(resp.Details, "HTTP 502") {
		t.Errorf("应透传底层原因: %q", resp.Details)
	}
}

func TestGetCurrent_NotLoaded(t *testing.T) {
	sched := &mockScheduleService{currentErr: service.ErrWeekNotLoaded}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/timetable/current", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404, 实际 %d", w.Code)
	}
}

func TestGetBlocks(t *testing.T) {
	r := newTestRouter(&mockScheduleService{}, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/timetable/blocks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	var resp struct {
		Data []model.Block `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if len(resp.Data) != 7 {
		t.Errorf("节次目录期望 7 项, 实际 %d", len(resp.Data))
	}
}

// ═══════════════════════════════════════════════════════════
// 批注 Handler
// ═══════════════════════════════════════════════════════════

func TestSetNote(t *testing.T) {
	sched := &mockScheduleService{annResult: &dto.AnnotationResponse{ID: "left-1-0-0", Note: "x"}}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodPut, "/api/v1/lessons/left-1-0-0/note", `{"note":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if sched.lastIdentity != "left-1-0-0" || sched.lastText != "x" {
		t.Errorf("参数传递错误: id=%s text=%s", sched.lastIdentity, sched.lastText)
	}
}

func TestAddCompetency(t *testing.T) {
	sched := &mockScheduleService{annResult: &dto.AnnotationResponse{ID: "left-1-0-0", Competencies: []string{"math"}}}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodPost, "/api/v1/lessons/left-1-0-0/competencies", `{"text":"math"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201, 实际 %d: %s", w.Code, w.Body.String())
	}

	// 缺少 text 字段
	w = doRequest(r, http.MethodPost, "/api/v1/lessons/left-1-0-0/competencies", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 text 期望 400, 实际 %d", w.Code)
	}
}

func TestRemoveCompetency(t *testing.T) {
	sched := &mockScheduleService{annResult: &dto.AnnotationResponse{ID: "left-1-0-0"}}
	r := newTestRouter(sched, &mockExportService{})

	w := doRequest(r, http.MethodDelete, "/api/v1/lessons/left-1-0-0/competencies/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if sched.lastIndex != 2 {
		t.Errorf("下标传递错误: %d", sched.lastIndex)
	}

	w = doRequest(r, http.MethodDelete, "/api/v1/lessons/left-1-0-0/competencies/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("非整数下标期望 400, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// 导出 Handler
// ═══════════════════════════════════════════════════════════

func TestExportWeek_Handler(t *testing.T) {
	export := &mockExportService{
		buf:      bytes.NewBufferString("excel-bytes"),
		filename: "stundenplan_2024-01-01.xlsx",
	}
	r := newTestRouter(&mockScheduleService{}, export)

	w := doRequest(r, http.MethodGet, "/api/v1/export/week?date=2024-01-01&format=xlsx", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if export.format != "xlsx" {
		t.Errorf("格式传递错误: %s", export.format)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "stundenplan_2024-01-01.xlsx") {
		t.Errorf("下载头错误: %q", cd)
	}
	if w.Body.String() != "excel-bytes" {
		t.Errorf("响应体错误: %q", w.Body.String())
	}
}

func TestExportWeek_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"不支持的格式", service.ErrExportUnsupportedFormat, http.StatusBadRequest},
		{"空周", service.ErrExportEmptyWeek, http.StatusBadRequest},
		{"上游失败", fmt.Errorf("%w: HTTP 500", service.ErrScheduleFetchFailed), http.StatusBadGateway},
		{"生成失败", service.ErrExportGenerateFail, http.StatusInternalServerError},
	}
	for _, c := range cases {
		r := newTestRouter(&mockScheduleService{}, &mockExportService{err: c.err})
		w := doRequest(r, http.MethodGet, "/api/v1/export/week", "")
		if w.Code != c.want {
			t.Errorf("%s: 期望 %d, 实际 %d", c.name, c.want, w.Code)
		}
	}
}

func TestExportWeek_BadDate(t *testing.T) {
	r := newTestRouter(&mockScheduleService{}, &mockExportService{})

	w := doRequest(r, http.MethodGet, "/api/v1/export/week?date=gestern", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400, 实际 %d", w.Code)
	}
}
