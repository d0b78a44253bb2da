package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/internal/wellbeing"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/metrics"
)

// alertTTL 同一部门同一类告警每天最多上报一次
const alertTTL = 24 * time.Hour

type AlertService struct {
	deps Dependencies
}

func NewAlertService(deps Dependencies) *AlertService {
	return &AlertService{deps: deps.withDefaults()}
}

// departmentWeek 部门最近一周的统计
type departmentWeek struct {
	Department string
	Week       model.WellbeingStats
}

// departmentWeeks 按部门名排序返回每个部门的周统计，本周没有打卡的部门跳过
func departmentWeeks(users []model.User, checkins []model.CheckIn, now time.Time) []departmentWeek {
	deptOf := make(map[string]string, len(users))
	for _, u := range users {
		if u.Department != "" {
			deptOf[u.ID] = u.Department
		}
	}

	grouped := make(map[string][]model.CheckIn)
	for _, c := range checkins {
		if dept, ok := deptOf[c.UserID]; ok {
			grouped[dept] = append(grouped[dept], c)
		}
	}

	depts := make([]string, 0, len(grouped))
	for dept := range grouped {
		depts = append(depts, dept)
	}
	sort.Strings(depts)

	out := make([]departmentWeek, 0, len(depts))
	for _, dept := range depts {
		week := wellbeing.Aggregate(grouped[dept], wellbeing.WindowWeek, now)
		if week.CheckinsCompleted == 0 {
			continue
		}
		out = append(out, departmentWeek{Department: dept, Week: week})
	}
	return out
}

// ScanTeams 复算部门风险，返回本次新上报的告警。departments 为空表示全部部门。
func (s *AlertService) ScanTeams(ctx context.Context, date string, departments []string) ([]model.TeamAlert, error) {
	users, err := s.deps.Store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	if len(departments) > 0 {
		wanted := make(map[string]struct{}, len(departments))
		for _, d := range departments {
			wanted[d] = struct{}{}
		}
		scoped := users[:0:0]
		for _, u := range users {
			if _, ok := wanted[u.Department]; ok {
				scoped = append(scoped, u)
			}
		}
		users = scoped
	}
	if len(users) == 0 {
		return []model.TeamAlert{}, nil
	}

	checkins, err := s.deps.Store.CheckIns().ListByUsers(ctx, userIDs(users))
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	raised := []model.TeamAlert{}
	for _, team := range departmentWeeks(users, checkins, s.deps.Now()) {
		for _, alert := range wellbeing.TeamAlerts(team.Department, team.Week) {
			key := fmt.Sprintf("alert:%s:%s:%s", date, alert.Team, alert.Kind)
			fresh, err := s.deps.Deduper.TryMark(ctx, key, alertTTL)
			if err != nil {
				// 去重不可用时宁可重复上报
				logger.Logger.Warn("Failed to dedupe team alert",
					zap.String("key", key),
					zap.Error(err),
				)
			} else if !fresh {
				continue
			}

			logger.Logger.Warn("[TEAM ALERT]",
				zap.String("team", alert.Team),
				zap.String("severity", string(alert.Severity)),
				zap.String("reason", alert.Reason),
				zap.Int("checkins", team.Week.CheckinsCompleted),
			)
			metrics.GetMetrics().RecordTeamAlert(ctx, alert.Team, string(alert.Severity), alert.Kind)
			raised = append(raised, alert)
		}
	}

	return raised, nil
}

// HandleCheckInCreated 打卡后只复算提交者所在部门
func (s *AlertService) HandleCheckInCreated(ctx context.Context, msg model.CheckInCreatedMessage) ([]model.TeamAlert, error) {
	user, err := s.deps.Store.Users().GetByID(ctx, msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", msg.UserID, err)
	}
	if user.Department == "" {
		return []model.TeamAlert{}, nil
	}
	return s.ScanTeams(ctx, msg.Date, []string{user.Department})
}
