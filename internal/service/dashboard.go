package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/internal/wellbeing"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/metrics"
)

// allDepartments 管理端查询全公司时的 department 取值
const allDepartments = "all"

type DashboardService struct {
	deps Dependencies
}

func NewDashboardService(deps Dependencies) *DashboardService {
	return &DashboardService{deps: deps.withDefaults()}
}

// Personal 个人仪表盘：周、月汇总，最近 14 条折线，以及文字洞察
func (s *DashboardService) Personal(ctx context.Context, viewer Viewer, userID string) (*dto.PersonalDashboardResponse, error) {
	if err := viewer.authorize(userID); err != nil {
		return nil, err
	}

	cached, ok, err := s.deps.Cache.GetPersonal(ctx, userID)
	switch {
	case err != nil:
		metrics.GetMetrics().RecordDashboardCache(ctx, "error")
		logger.Logger.Warn("Failed to read personal dashboard cache",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	case ok:
		metrics.GetMetrics().RecordDashboardCache(ctx, "hit")
		return cached, nil
	default:
		metrics.GetMetrics().RecordDashboardCache(ctx, "miss")
	}

	checkins, err := s.deps.Store.CheckIns().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	now := s.deps.Now()
	week := wellbeing.Aggregate(checkins, wellbeing.WindowWeek, now)
	resp := &dto.PersonalDashboardResponse{
		WeekSummary:  week,
		MonthSummary: wellbeing.Aggregate(checkins, wellbeing.WindowMonth, now),
		ChartData:    wellbeing.ChartSeries(checkins, wellbeing.ChartPoints),
		Insights:     wellbeing.Insights(week),
		Success:      true,
	}

	if err := s.deps.Cache.SetPersonal(ctx, userID, resp); err != nil {
		logger.Logger.Warn("Failed to write personal dashboard cache",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	return resp, nil
}

// Admin 管理端匿名汇总。department 为空或 all 时统计全公司；period 为空按周，无法识别按年。
func (s *DashboardService) Admin(ctx context.Context, viewer Viewer, query dto.AdminDashboardQuery) (*dto.AdminDashboardResponse, error) {
	if !viewer.Admin {
		return nil, errors.Forbidden
	}

	users, err := s.deps.Store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	scopeUsers := users
	var checkins []model.CheckIn
	if query.Department == "" || query.Department == allDepartments {
		checkins, err = s.deps.Store.CheckIns().ListAll(ctx)
	} else {
		scopeUsers = usersInDepartment(users, query.Department)
		checkins, err = s.deps.Store.CheckIns().ListByUsers(ctx, userIDs(scopeUsers))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	window := wellbeing.WindowWeek
	if query.Period != "" {
		window = wellbeing.ParseWindow(query.Period, wellbeing.WindowYear)
	}

	now := s.deps.Now()
	overall := wellbeing.Aggregate(checkins, window, now)
	filtered := wellbeing.FilterWindow(checkins, window, now)

	alerts := []model.TeamAlert{}
	for _, team := range departmentWeeks(scopeUsers, checkins, now) {
		alerts = append(alerts, wellbeing.TeamAlerts(team.Department, team.Week)...)
	}

	return &dto.AdminDashboardResponse{
		OverallWellbeing:     overall.AvgMood,
		ParticipationRate:    wellbeing.ParticipationRate(filtered, len(scopeUsers)),
		Alerts:               alerts,
		Trends:               overall,
		WorkloadDistribution: wellbeing.WorkloadDistribution(filtered),
		Success:              true,
	}, nil
}

func usersInDepartment(users []model.User, department string) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Department == department {
			out = append(out, u)
		}
	}
	return out
}

func userIDs(users []model.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
