package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/internal/wellbeing"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/metrics"
	"MindBalance/pkg/snowflake"
)

type CheckInService struct {
	deps Dependencies
}

func NewCheckInService(deps Dependencies) *CheckInService {
	return &CheckInService{deps: deps.withDefaults()}
}

// Create 创建打卡：匹配建议后追加写入，随后失效仪表盘缓存并投递 checkin.created 事件
func (s *CheckInService) Create(ctx context.Context, viewer Viewer, req dto.CreateCheckInRequest) (*model.CheckIn, error) {
	userID := req.UserID
	if userID == "" {
		userID = viewer.UserID
	}
	if err := viewer.authorize(userID); err != nil {
		return nil, err
	}
	if err := validateCheckIn(req); err != nil {
		return nil, err
	}

	repo := s.deps.Store.CheckIns()
	history, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in history: %w", err)
	}

	id, err := s.deps.NextID(snowflake.PrefixCheckIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate check-in id: %w", err)
	}

	now := s.deps.Now()
	checkIn := model.CheckIn{
		ID:       id,
		UserID:   userID,
		Date:     now.Format(model.DateLayout),
		Time:     now.Format(model.TimeLayout),
		Mood:     req.Mood,
		Energy:   req.Energy,
		Workload: req.Workload,
		Comment:  req.Comment,
	}

	suggestion := s.deps.Matcher.Match(checkIn, history)
	checkIn.ApplySuggestion(suggestion)

	if err := repo.Create(ctx, &checkIn); err != nil {
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	logger.Logger.Info("Check-in created",
		zap.String("check_in_id", checkIn.ID),
		zap.String("user_id", userID),
		zap.String("workload", string(checkIn.Workload)),
		zap.String("rule_id", suggestion.RuleID),
	)
	metrics.GetMetrics().RecordCheckIn(ctx, string(checkIn.Workload), suggestion.RuleID, string(suggestion.Priority))

	if err := s.deps.Cache.InvalidatePersonal(ctx, userID); err != nil {
		logger.Logger.Warn("Failed to invalidate personal dashboard cache",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.publishCreated(ctx, checkIn, suggestion, now)

	return &checkIn, nil
}

func (s *CheckInService) publishCreated(ctx context.Context, checkIn model.CheckIn, suggestion model.Suggestion, now time.Time) {
	messageID, err := s.deps.NextID(snowflake.PrefixMessage)
	if err != nil {
		logger.Logger.Warn("Failed to generate message ID", zap.Error(err))
		return
	}

	msg := model.CheckInCreatedMessage{
		MessageID:  messageID,
		CheckInID:  checkIn.ID,
		UserID:     checkIn.UserID,
		Date:       checkIn.Date,
		Mood:       checkIn.Mood,
		Energy:     checkIn.Energy,
		Workload:   checkIn.Workload,
		RuleID:     suggestion.RuleID,
		Priority:   suggestion.Priority,
		OccurredAt: now.Unix(),
	}
	if err := s.deps.Publisher.PublishCheckInCreated(ctx, msg); err != nil {
		logger.Logger.Warn("Failed to publish check-in created event",
			zap.String("check_in_id", checkIn.ID),
			zap.Error(err),
		)
	}
}

func validateCheckIn(req dto.CreateCheckInRequest) error {
	if req.Mood < model.MinScore || req.Mood > model.MaxScore {
		return errors.InvalidCheckIn.WithMessage("mood must be between 1 and 5")
	}
	if req.Energy < model.MinScore || req.Energy > model.MaxScore {
		return errors.InvalidCheckIn.WithMessage("energy must be between 1 and 5")
	}
	if !req.Workload.Valid() {
		return errors.InvalidCheckIn.WithMessage("workload must be one of light, adequate, heavy")
	}
	return nil
}

// History 返回窗口内的打卡记录，按 (date, time) 倒序
func (s *CheckInService) History(ctx context.Context, viewer Viewer, userID, period string) ([]model.CheckIn, error) {
	if err := viewer.authorize(userID); err != nil {
		return nil, err
	}

	checkins, err := s.deps.Store.CheckIns().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in history: %w", err)
	}

	window := wellbeing.ParseWindow(period, wellbeing.WindowWeek)
	history := wellbeing.FilterWindow(checkins, window, s.deps.Now())
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].Time > history[j].Time
	})
	return history, nil
}
