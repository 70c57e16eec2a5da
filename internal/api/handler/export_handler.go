package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ra1n-42/webuntisapp/internal/service"
	"github.com/Ra1n-42/webuntisapp/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// 导出格式 → Content-Type
var exportContentTypes = map[string]string{
	service.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.FormatICS:  "text/calendar",
}

// ExportWeek 导出周课表
// GET /api/v1/export/week?date=YYYY-MM-DD&format=xlsx|ics
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatXLSX)

	date := time.Now()
	if ds := c.Query("date"); ds != "" {
		parsed, err := time.ParseInLocation("2006-01-02", ds, time.Local)
		if err != nil {
			response.BadRequest(c, 17000, "date 格式须为 YYYY-MM-DD")
			return
		}
		date = parsed
	}

	buf, filename, err := h.exportSvc.ExportWeek(c.Request.Context(), date, format)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	contentType := exportContentTypes[format]
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportUnsupportedFormat):
		response.BadRequest(c, 17001, "format 仅支持 xlsx 或 ics")
	case errors.Is(err, service.ErrExportEmptyWeek):
		response.BadRequest(c, 17002, "该周无课程，无法导出")
	case errors.Is(err, service.ErrScheduleFetchFailed):
		response.ErrorWithDetails(c, http.StatusBadGateway, 15001, "课表数据源不可用", err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
