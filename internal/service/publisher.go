package service

import (
	"context"

	"MindBalance/internal/model"
)

// NoopPublisher RabbitMQ 关闭时使用，事件直接丢弃
type NoopPublisher struct{}

func (NoopPublisher) PublishCheckInCreated(context.Context, model.CheckInCreatedMessage) error {
	return nil
}

func (NoopPublisher) PublishTeamScan(context.Context, model.TeamScanMessage) error {
	return nil
}
