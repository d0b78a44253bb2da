package cache

import (
	"context"
	"time"

	"MindBalance/internal/model/dto"
)

const personalDashboardPrefix = "dashboard:personal"

// DashboardCache 个人仪表盘缓存，新打卡时由 CheckInService 失效；
// 窗口截止时间不参与键，日期切换后旧结果保留到 TTL 到期
type DashboardCache struct {
	personal *ProtectedCache
}

// NewDashboardCache 创建仪表盘缓存
func NewDashboardCache(ttl time.Duration) *DashboardCache {
	return &DashboardCache{
		personal: NewProtectedCache(personalDashboardPrefix, ttl, RedisBreaker),
	}
}

func (d *DashboardCache) GetPersonal(ctx context.Context, userID string) (*dto.PersonalDashboardResponse, bool, error) {
	var resp dto.PersonalDashboardResponse
	hit, err := d.personal.Get(ctx, userID, &resp)
	if err != nil || !hit {
		return nil, false, err
	}
	return &resp, true, nil
}

func (d *DashboardCache) SetPersonal(ctx context.Context, userID string, resp *dto.PersonalDashboardResponse) error {
	return d.personal.Set(ctx, userID, resp)
}

func (d *DashboardCache) InvalidatePersonal(ctx context.Context, userID string) error {
	return d.personal.Delete(ctx, userID)
}

// NoopDashboardCache Redis 未启用时使用，永远未命中
type NoopDashboardCache struct{}

func (NoopDashboardCache) GetPersonal(context.Context, string) (*dto.PersonalDashboardResponse, bool, error) {
	return nil, false, nil
}

func (NoopDashboardCache) SetPersonal(context.Context, string, *dto.PersonalDashboardResponse) error {
	return nil
}

func (NoopDashboardCache) InvalidatePersonal(context.Context, string) error { return nil }
