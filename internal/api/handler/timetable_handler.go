package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/service"
	"github.com/Ra1n-42/webuntisapp/pkg/response"
)

// TimetableHandler 周课表模块 Handler
type TimetableHandler struct {
	svc service.ScheduleService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.ScheduleService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// GetWeek 加载指定周课表
// GET /api/v1/timetable/week?date=YYYY-MM-DD
//
// date 可为该周内任意日期（服务端对齐到周一），缺省为今天
func (h *TimetableHandler) GetWeek(c *gin.Context) {
	var req dto.WeekRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15000, "date 格式须为 YYYY-MM-DD")
		return
	}

	date := time.Now()
	if req.Date != "" {
		// binding 已校验格式，此处解析不会失败
		date, _ = time.ParseInLocation("2006-01-02", req.Date, time.Local)
	}

	week, err := h.svc.LoadWeek(c.Request.Context(), date)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, week)
}

// GetCurrent 返回当前已加载的周课表（不触发拉取）
// GET /api/v1/timetable/current
func (h *TimetableHandler) GetCurrent(c *gin.Context) {
	week, err := h.svc.CurrentWeek()
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, week)
}

// GetBlocks 返回静态节次目录（供前端构建行表头）
// GET /api/v1/timetable/blocks
func (h *TimetableHandler) GetBlocks(c *gin.Context) {
	response.OK(c, h.svc.Blocks())
}

// handleTimetableError 统一周课表模块错误映射
func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleFetchFailed):
		// 上游失败向用户透传底层原因，已展示的旧周数据由前端自行保留
		response.ErrorWithDetails(c, http.StatusBadGateway, 15001, "课表数据源不可用", err.Error())
	case errors.Is(err, service.ErrWeekNotLoaded):
		response.NotFound(c, 15002, err.Error())
	default:
		response.InternalError(c)
	}
}
