package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/pkg/logger"
)

// 交换机、路由键与队列
const (
	EventsExchange = "mindbalance.events"

	RoutingKeyCheckInCreated = "checkin.created"
	RoutingKeyTeamScan       = "team.scan"

	QueueCheckInCreated = "mindbalance.checkin.created"
	QueueTeamScan       = "mindbalance.team.scan"
)

var (
	conn   *amqp.Connection
	connMu sync.RWMutex
)

// Init 建立 RabbitMQ 连接并声明拓扑；RABBITMQ_ENABLED=false 时跳过
func Init() error {
	if !config.Cfg.RabbitMQEnabled {
		return nil
	}

	c, err := amqp.Dial(config.Cfg.GetRabbitMQURL())
	if err != nil {
		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	if err := DeclareTopology(c); err != nil {
		c.Close()
		return err
	}

	connMu.Lock()
	conn = c
	connMu.Unlock()

	logger.Logger.Info("RabbitMQ connected",
		zap.String("component", "rabbitmq"),
		zap.String("exchange", EventsExchange),
	)
	return nil
}

// Enabled 是否已建立连接
func Enabled() bool {
	return Connection() != nil
}

// Connection 返回当前连接，未启用时为 nil
func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

// DeclareTopology 声明 topic 交换机和两个持久化队列
func DeclareTopology(c *amqp.Connection) error {
	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(EventsExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", EventsExchange, err)
	}

	bindings := map[string]string{
		QueueCheckInCreated: RoutingKeyCheckInCreated,
		QueueTeamScan:       RoutingKeyTeamScan,
	}
	for queue, key := range bindings {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, key, EventsExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}
	return nil
}

func Close(ctx context.Context) error {
	closePublisherChannel()

	connMu.Lock()
	c := conn
	conn = nil
	connMu.Unlock()

	if c == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
