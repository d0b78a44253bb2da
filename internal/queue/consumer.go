package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/internal/repository"
	"MindBalance/pkg/logger"
	"MindBalance/storage/mq"
)

// processedTTL 消息去重标记的保留时间
const processedTTL = 24 * time.Hour

// AlertHandler 由 service.AlertService 实现
type AlertHandler interface {
	ScanTeams(ctx context.Context, date string, departments []string) ([]model.TeamAlert, error)
	HandleCheckInCreated(ctx context.Context, msg model.CheckInCreatedMessage) ([]model.TeamAlert, error)
}

// Deduper 消息级幂等；Release 撤销标记，使重投的消息能被再次处理
type Deduper interface {
	TryMark(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Consumers worker 端的消息处理
type Consumers struct {
	alerts AlertHandler
	dedupe Deduper
}

func NewConsumers(alerts AlertHandler, dedupe Deduper) *Consumers {
	return &Consumers{alerts: alerts, dedupe: dedupe}
}

// firstDelivery 同一 MessageID 只处理一次；去重不可用时继续处理，可能重复
func (c *Consumers) firstDelivery(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}

	fresh, err := c.dedupe.TryMark(ctx, processedKey(messageID), processedTTL)
	if err != nil {
		logger.Logger.Warn("Failed to check message processed status",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		return true
	}
	if !fresh {
		logger.Logger.Info("Message already processed, skipping",
			zap.String("message_id", messageID),
		)
	}
	return fresh
}

func processedKey(messageID string) string {
	return "msg:" + messageID
}

// releaseOnRetry 处理失败且消息会重投时撤销去重标记；ErrDrop 的消息不会回来，保留标记
func (c *Consumers) releaseOnRetry(ctx context.Context, messageID string, err error) error {
	if err == nil || messageID == "" || errors.Is(err, mq.ErrDrop) {
		return err
	}

	if releaseErr := c.dedupe.Release(ctx, processedKey(messageID)); releaseErr != nil {
		logger.Logger.Warn("Failed to release message processed mark",
			zap.String("message_id", messageID),
			zap.Error(releaseErr),
		)
	}
	return err
}

// HandleCheckInCreated 打卡后复算提交者所在部门的风险
func (c *Consumers) HandleCheckInCreated(ctx context.Context, body []byte) error {
	var msg model.CheckInCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: failed to unmarshal check-in created message: %v", mq.ErrDrop, err)
	}
	if !c.firstDelivery(ctx, msg.MessageID) {
		return nil
	}

	alerts, err := c.alerts.HandleCheckInCreated(ctx, msg)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: %v", mq.ErrDrop, err)
		}
		return c.releaseOnRetry(ctx, msg.MessageID, err)
	}

	logger.Logger.Info("Processed check-in created event",
		zap.String("message_id", msg.MessageID),
		zap.String("check_in_id", msg.CheckInID),
		zap.Int("alerts", len(alerts)),
	)
	return nil
}

// HandleTeamScan 定时扫描全部或指定部门
func (c *Consumers) HandleTeamScan(ctx context.Context, body []byte) error {
	var msg model.TeamScanMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: failed to unmarshal team scan message: %v", mq.ErrDrop, err)
	}
	if !c.firstDelivery(ctx, msg.MessageID) {
		return nil
	}

	alerts, err := c.alerts.ScanTeams(ctx, msg.Date, msg.Departments)
	if err != nil {
		return c.releaseOnRetry(ctx, msg.MessageID, err)
	}

	logger.Logger.Info("Processed team scan",
		zap.String("message_id", msg.MessageID),
		zap.String("date", msg.Date),
		zap.Int("alerts", len(alerts)),
	)
	return nil
}

// StartCheckInCreatedConsumer 启动打卡事件消费者，阻塞到 ctx 取消
func (c *Consumers) StartCheckInCreatedConsumer(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueCheckInCreated,
		ConsumerTag:   "checkin_created_consumer",
		PrefetchCount: 20,
		Handler:       c.HandleCheckInCreated,
	})
}

// StartTeamScanConsumer 启动团队扫描消费者
func (c *Consumers) StartTeamScanConsumer(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueTeamScan,
		ConsumerTag:   "team_scan_consumer",
		PrefetchCount: 1,
		Handler:       c.HandleTeamScan,
	})
}

// StartAll 并发启动全部消费者，阻塞到所有消费者退出
func (c *Consumers) StartAll(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"checkin_created", c.StartCheckInCreatedConsumer},
		{"team_scan", c.StartTeamScanConsumer},
	}

	for _, item := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(item.name, item.consumer)
	}

	wg.Wait()
}
