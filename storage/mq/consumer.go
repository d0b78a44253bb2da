package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"MindBalance/pkg/logger"
	mqotel "MindBalance/pkg/mq"
)

// MessageHandler 处理一条消息；返回 ErrDrop 包装的错误时消息被丢弃而不是重回队列
type MessageHandler func(ctx context.Context, body []byte) error

// ErrDrop 标记无法处理的消息（如格式错误），不再重投
var ErrDrop = errors.New("drop message")

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费直到 ctx 取消或 channel 关闭
func Consume(ctx context.Context, opts ConsumeOptions) error {
	c := Connection()
	if c == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel for %s closed", opts.Queue)
			}
			handleDelivery(ctx, opts, msg)
		}
	}
}

func handleDelivery(ctx context.Context, opts ConsumeOptions, msg amqp.Delivery) {
	msgCtx, span := mqotel.StartConsumeSpan(ctx, opts.Queue, msg)
	defer span.End()

	err := opts.Handler(msgCtx, msg.Body)
	if err == nil {
		msg.Ack(false)
		return
	}

	span.SetStatus(codes.Error, err.Error())
	// 已重投过一次的消息不再回队，避免毒消息循环
	requeue := !errors.Is(err, ErrDrop) && !msg.Redelivered
	logger.Logger.Error("Failed to process message",
		zap.String("queue", opts.Queue),
		zap.String("message_id", msg.MessageId),
		zap.Bool("requeue", requeue),
		zap.Error(err),
	)
	msg.Nack(false, requeue)
}
