package service

import (
	"context"
	"sync"
	"time"

	"MindBalance/internal/cache"
	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/internal/repository"
	"MindBalance/internal/wellbeing"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/snowflake"
	"MindBalance/pkg/token"
)

// DashboardCache 个人仪表盘缓存，Redis 关闭时使用 cache.NoopDashboardCache。
// 缓存结果按写入时刻的窗口计算，跨过零点后最多滞后一个 TTL（DASHBOARD_CACHE_SECONDS）
type DashboardCache interface {
	GetPersonal(ctx context.Context, userID string) (*dto.PersonalDashboardResponse, bool, error)
	SetPersonal(ctx context.Context, userID string, resp *dto.PersonalDashboardResponse) error
	InvalidatePersonal(ctx context.Context, userID string) error
}

// EventPublisher 领域事件投递
type EventPublisher interface {
	PublishCheckInCreated(ctx context.Context, msg model.CheckInCreatedMessage) error
	PublishTeamScan(ctx context.Context, msg model.TeamScanMessage) error
}

// Deduper 在 ttl 内对同一个 key 只返回一次 true
type Deduper interface {
	TryMark(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Dependencies 组装各个服务所需的依赖
type Dependencies struct {
	Store     repository.Store
	Matcher   *wellbeing.Matcher
	Cache     DashboardCache
	Publisher EventPublisher
	Deduper   Deduper
	Now       func() time.Time
	NextID    func(prefix string) (string, error)

	// IssueToken 签发 access token，返回 token 与有效秒数
	IssueToken func(userID, role string) (string, int, error)
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Matcher == nil {
		d.Matcher = wellbeing.NewMatcher(wellbeing.DefaultRuleTable())
	}
	if d.Cache == nil {
		d.Cache = cache.NoopDashboardCache{}
	}
	if d.Publisher == nil {
		d.Publisher = NoopPublisher{}
	}
	if d.Deduper == nil {
		d.Deduper = cache.NewLocalDeduper()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NextID == nil {
		d.NextID = snowflake.NextPrefixed
	}
	if d.IssueToken == nil {
		d.IssueToken = token.GenerateAccessToken
	}
	return d
}

var (
	setupOnce sync.Once

	checkInService   *CheckInService
	dashboardService *DashboardService
	authService      *AuthService
	resourceService  *ResourceService
	alertService     *AlertService
)

// Setup 初始化全局服务实例，只有第一次调用生效
func Setup(deps Dependencies) {
	setupOnce.Do(func() {
		checkInService = NewCheckInService(deps)
		dashboardService = NewDashboardService(deps)
		authService = NewAuthService(deps)
		resourceService = NewResourceService(deps)
		alertService = NewAlertService(deps)
	})
}

func mustSetup[T any](s *T) *T {
	if s == nil {
		panic("service: Setup must be called before use")
	}
	return s
}

func CheckIn() *CheckInService     { return mustSetup(checkInService) }
func Dashboard() *DashboardService { return mustSetup(dashboardService) }
func Auth() *AuthService           { return mustSetup(authService) }
func Resource() *ResourceService   { return mustSetup(resourceService) }
func Alert() *AlertService         { return mustSetup(alertService) }

// Viewer 当前请求的身份
type Viewer struct {
	UserID string
	Admin  bool
}

// authorize 员工只能访问自己的数据，管理员不受限制
func (v Viewer) authorize(userID string) error {
	if v.Admin || v.UserID == userID {
		return nil
	}
	return errors.Forbidden
}
