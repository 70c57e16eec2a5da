package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ra1n-42/webuntisapp/config"
	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// Client Redis 客户端封装
// 当前用于周课表缓存与接口限流；连接失败时上层以 nil 降级运行
type Client struct {
	rdb     *goredis.Client
	weekTTL time.Duration
	logger  *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	ttl := cfg.WeekTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Client{rdb: rdb, weekTTL: ttl, logger: logger}, nil
}

// ── 周课表缓存 ──
//
// 键 = 周一 ISO 日期。课表随代课/取消随时变动，TTL 取短值，
// 仅吸收快速翻周往返产生的重复拉取。

const weekPrefix = "untis:week:"

// GetWeek 读取缓存的周课表，未命中或反序列化失败返回 (nil, false)
func (c *Client) GetWeek(ctx context.Context, mondayISO string) (*model.RawSchedule, bool) {
	data, err := c.rdb.Get(ctx, weekPrefix+mondayISO).Bytes()
	if err != nil {
		return nil, false
	}
	var raw model.RawSchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("周课表缓存损坏，忽略", zap.String("monday", mondayISO), zap.Error(err))
		return nil, false
	}
	return &raw, true
}

// SetWeek 写入周课表缓存，失败仅记日志不影响主流程
func (c *Client) SetWeek(ctx context.Context, mondayISO string, raw *model.RawSchedule) {
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, weekPrefix+mondayISO, data, c.weekTTL).Err(); err != nil {
		c.logger.Warn("写入周课表缓存失败", zap.String("monday", mondayISO), zap.Error(err))
	}
}

// ── 限流 ──

// CheckRateLimit 固定窗口限流：窗口内第 limit+1 次请求返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
