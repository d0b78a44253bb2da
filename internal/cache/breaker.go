package cache

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"MindBalance/pkg/logger"
)

// ErrBreakerOpen 熔断期间直接拒绝
var ErrBreakerOpen = errors.New("circuit breaker is open")

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 正常工作
	StateOpen                  // 熔断中
	StateHalfOpen              // 尝试恢复
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker Redis 访问的熔断器，Redis 故障时让请求快速退化为缓存未命中
type CircuitBreaker struct {
	name             string
	maxFailures      int
	resetTimeout     time.Duration
	halfOpenMaxCalls int
	now              func() time.Time

	mu            sync.Mutex
	state         State
	failures      int
	lastFailTime  time.Time
	halfOpenCalls int
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:             name,
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenMaxCalls: 3,
		now:              time.Now,
		state:            StateClosed,
	}
}

// Call 执行带熔断保护的操作
func (cb *CircuitBreaker) Call(operation func() error) error {
	if !cb.allowRequest() {
		return ErrBreakerOpen
	}

	err := operation()
	cb.recordResult(err)
	return err
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailTime) < cb.resetTimeout {
			return false
		}
		cb.transitionTo(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenCalls >= cb.halfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		if cb.state == StateHalfOpen {
			cb.transitionTo(StateClosed)
		}
		cb.failures = 0
		return
	}

	cb.failures++
	cb.lastFailTime = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.maxFailures {
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.transitionTo(StateOpen)
	}
}

func (cb *CircuitBreaker) transitionTo(state State) {
	cb.state = state
	cb.halfOpenCalls = 0
	if state == StateClosed {
		cb.failures = 0
	}

	logger.Logger.Info("Circuit breaker state changed",
		zap.String("breaker", cb.name),
		zap.String("state", state.String()),
		zap.Int("failures", cb.failures),
	)
}

// GetState 获取当前状态
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// RedisBreaker 连续失败 5 次后熔断，30 秒后尝试恢复
var RedisBreaker = NewCircuitBreaker("redis_cache", 5, 30*time.Second)
