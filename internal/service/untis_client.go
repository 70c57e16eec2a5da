package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Ra1n-42/webuntisapp/config"
	"github.com/Ra1n-42/webuntisapp/internal/model"
)

// ── 上游课表客户端 ──
//
// 对接 WebUntis 网关：GET {base_url}/json?date=YYYY-MM-DD
// 返回以周一为起点的整周原始课表。非 2xx 状态一律视为拉取失败。

var ErrScheduleFetchFailed = errors.New("课表数据源请求失败")

const untisMaxBodySize = 5 * 1024 * 1024 // 5MB

// UntisClient 上游周课表数据源
type UntisClient interface {
	// FetchWeek 拉取含 monday 所在周的原始课表
	FetchWeek(ctx context.Context, monday time.Time) (*model.RawSchedule, error)
}

type httpUntisClient struct {
	baseURL string
	client  *http.Client
}

// NewUntisClient 创建基于 HTTP 的上游客户端
func NewUntisClient(cfg *config.UntisConfig) UntisClient {
	return &httpUntisClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// upstreamError 上游错误响应体 {"error": "..."}
type upstreamError struct {
	Error string `json:"error"`
}

func (c *httpUntisClient) FetchWeek(ctx context.Context, monday time.Time) (*model.RawSchedule, error) {
	u := fmt.Sprintf("%s/json?date=%s", c.baseURL, url.QueryEscape(monday.Format("2006-01-02")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleFetchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleFetchFailed, err)
	}
	defer resp.Body.Close()

	// 限制响应体大小，防止异常上游返回超大内容导致 OOM
	body := io.LimitReader(resp.Body, untisMaxBodySize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 上游以 {"error": "..."} 描述失败原因，尽量透传
		var ue upstreamError
		if err := json.NewDecoder(body).Decode(&ue); err == nil && ue.Error != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", ErrScheduleFetchFailed, resp.StatusCode, ue.Error)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrScheduleFetchFailed, resp.StatusCode)
	}

	var raw model.RawSchedule
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: 响应解析失败: %v", ErrScheduleFetchFailed, err)
	}
	return &raw, nil
}
