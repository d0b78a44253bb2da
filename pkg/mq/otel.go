package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mindbalance.rabbitmq"

// MessageHeaderCarrier 让 amqp.Table 满足 propagation.TextMapCarrier
type MessageHeaderCarrier struct {
	Headers amqp.Table
}

func (m *MessageHeaderCarrier) Get(key string) string {
	if val, ok := m.Headers[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (m *MessageHeaderCarrier) Set(key, value string) {
	if m.Headers == nil {
		m.Headers = make(amqp.Table)
	}
	m.Headers[key] = value
}

func (m *MessageHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	return keys
}

// StartPublishSpan 开启发布 span，并把追踪上下文写入消息头
func StartPublishSpan(ctx context.Context, exchange, routingKey string, headers amqp.Table) (context.Context, trace.Span, amqp.Table) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rabbitmq.publish "+routingKey,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingDestinationName(exchange),
			semconv.MessagingRabbitmqDestinationRoutingKey(routingKey),
		),
	)

	carrier := &MessageHeaderCarrier{Headers: amqp.Table{}}
	for k, v := range headers {
		carrier.Headers[k] = v
	}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return ctx, span, carrier.Headers
}

// StartConsumeSpan 从消息头恢复上游追踪上下文并开启处理 span
func StartConsumeSpan(ctx context.Context, queue string, msg amqp.Delivery) (context.Context, trace.Span) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, &MessageHeaderCarrier{Headers: msg.Headers})
	return otel.Tracer(tracerName).Start(ctx, "rabbitmq.process "+queue,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingMessageID(msg.MessageId),
			semconv.MessagingRabbitmqDestinationRoutingKey(msg.RoutingKey),
			attribute.String("messaging.rabbitmq.queue", queue),
		),
	)
}
