package dto

// ── 课程批注 ──

// SetNoteRequest 写入笔记请求（整体覆盖，非追加）
type SetNoteRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// AddCompetencyRequest 添加能力标签请求
// 首尾空白在存储层裁剪，纯空白视为无操作
type AddCompetencyRequest struct {
	Text string `json:"text" binding:"required,max=100"`
}

// AnnotationResponse 批注响应
type AnnotationResponse struct {
	ID           string   `json:"id"`
	Note         string   `json:"note"`
	Competencies []string `json:"competencies"`
}
