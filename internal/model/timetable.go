package model

// ── 课表网格模型 ──

// Block 固定教学时段（节次）
// 目录为静态配置，由外部给定，互不重叠且按起始时间升序；
// 服务不从数据推导节次边界。
type Block struct {
	Ordinal   int    `json:"ordinal"`
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM"
}

// DefaultBlocks 参考部署的 7 节固定时段目录
var DefaultBlocks = []Block{
	{Ordinal: 1, StartTime: "07:15", EndTime: "08:45"},
	{Ordinal: 2, StartTime: "09:05", EndTime: "10:35"},
	{Ordinal: 3, StartTime: "10:55", EndTime: "12:25"},
	{Ordinal: 4, StartTime: "12:50", EndTime: "14:20"},
	{Ordinal: 5, StartTime: "14:40", EndTime: "16:10"},
	{Ordinal: 6, StartTime: "17:00", EndTime: "18:30"},
	{Ordinal: 7, StartTime: "18:45", EndTime: "20:15"},
}

// 槽位列侧
const (
	SideLeft  = "left"
	SideRight = "right"
)

// LessonRecord 归一化后的课程记录
//
// Identity 由网格位置（列侧、节次、星期序号、当日槽位序号、
// 平行分组序号）确定性派生，与课程内容无关，同一物理位置
// 在多次拉取间保持同一 Identity，从而让批注得以延续。
// 位置字段一并保留，供放置引擎按 (节次, 星期) 分桶。
type LessonRecord struct {
	Identity   string `json:"id"`
	Side       string `json:"side"`        // left | right
	BlockIndex int    `json:"block_index"` // 所属节次下标，-1 表示落在所有节次之外
	DayIndex   int    `json:"day_index"`   // 当周日期序号（字典序）
	SlotIndex  int    `json:"slot_index"`  // 槽位在当日的序号
	AltIndex   int    `json:"alt_index"`   // right 组内序号，left 恒为 0

	Teacher      string   `json:"teacher"` // 展示用教师名（"名 姓" 逗号连接）
	Subject      string   `json:"subject"`
	Room         string   `json:"room"`
	Date         string   `json:"date"` // ISO 日期
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Cancelled    bool     `json:"cancelled"`
	Competencies []string `json:"competencies"`
	Note         string   `json:"note"`
}

// Annotation 用户对某一课程位置的批注
type Annotation struct {
	Note         string   `json:"note"`
	Competencies []string `json:"competencies"`
}
