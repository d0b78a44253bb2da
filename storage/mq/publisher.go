package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	mqotel "MindBalance/pkg/mq"
	"MindBalance/pkg/logger"
)

var (
	publisherCh *amqp.Channel
	pubMutex    sync.RWMutex
)

func getPublisherChannel() (*amqp.Channel, error) {
	pubMutex.RLock()
	if publisherCh != nil && !publisherCh.IsClosed() {
		ch := publisherCh
		pubMutex.RUnlock()
		return ch, nil
	}
	pubMutex.RUnlock()

	pubMutex.Lock()
	defer pubMutex.Unlock()

	if publisherCh != nil && !publisherCh.IsClosed() {
		return publisherCh, nil
	}

	c := Connection()
	if c == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := c.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}
	publisherCh = ch

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		<-closeChan

		pubMutex.Lock()
		if publisherCh == ch {
			publisherCh = nil
		}
		pubMutex.Unlock()

		logger.Logger.Warn("Publisher channel closed, will recreate on next publish",
			zap.String("component", "rabbitmq"),
		)
	}()

	logger.Logger.Info("Publisher channel created", zap.String("component", "rabbitmq"))
	return ch, nil
}

func closePublisherChannel() {
	pubMutex.Lock()
	defer pubMutex.Unlock()
	if publisherCh != nil {
		publisherCh.Close()
		publisherCh = nil
	}
}

// PublishMessage 以 JSON 发布持久化消息，追踪上下文写入消息头
func PublishMessage(ctx context.Context, exchange, routingKey, messageID string, body interface{}) error {
	ch, err := getPublisherChannel()
	if err != nil {
		return err
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, span, headers := mqotel.StartPublishSpan(ctx, exchange, routingKey, nil)
	defer span.End()

	err = ch.PublishWithContext(ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Headers:      headers,
			Body:         bodyBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}
