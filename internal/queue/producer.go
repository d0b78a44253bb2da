package queue

import (
	"context"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/metrics"
	"MindBalance/storage/mq"
)

type publishFunc func(ctx context.Context, exchange, routingKey, messageID string, body interface{}) error

// Publisher 把领域事件投递到 mindbalance.events 交换机
type Publisher struct {
	publish publishFunc
}

func NewPublisher() *Publisher {
	return &Publisher{publish: mq.PublishMessage}
}

// PublishCheckInCreated 发布打卡创建事件
func (p *Publisher) PublishCheckInCreated(ctx context.Context, msg model.CheckInCreatedMessage) error {
	err := p.publish(ctx, mq.EventsExchange, mq.RoutingKeyCheckInCreated, msg.MessageID, msg)
	if err != nil {
		metrics.GetMetrics().RecordPublishFailed(ctx, mq.RoutingKeyCheckInCreated)
		logger.Logger.Error("Failed to publish check-in created event",
			zap.String("message_id", msg.MessageID),
			zap.String("check_in_id", msg.CheckInID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Debug("Published check-in created event",
		zap.String("message_id", msg.MessageID),
		zap.String("check_in_id", msg.CheckInID),
	)
	return nil
}

// PublishTeamScan 发布团队风险扫描任务
func (p *Publisher) PublishTeamScan(ctx context.Context, msg model.TeamScanMessage) error {
	err := p.publish(ctx, mq.EventsExchange, mq.RoutingKeyTeamScan, msg.MessageID, msg)
	if err != nil {
		metrics.GetMetrics().RecordPublishFailed(ctx, mq.RoutingKeyTeamScan)
		logger.Logger.Error("Failed to publish team scan task",
			zap.String("message_id", msg.MessageID),
			zap.String("date", msg.Date),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published team scan task",
		zap.String("message_id", msg.MessageID),
		zap.String("date", msg.Date),
		zap.Int("departments", len(msg.Departments)),
	)
	return nil
}
