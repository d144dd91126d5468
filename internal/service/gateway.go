package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// Gateway is the interface for the external payment processor. It turns
// an amount into an opaque client-side confirmation handle; the currency
// and payment method are fixed configuration on the processor side.
type Gateway interface {
	CreateIntent(ctx context.Context, amountInCents int64) (string, error)
}

// MockGateway is a mock implementation of Gateway for development and
// testing.
type MockGateway struct{}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateIntent fabricates a confirmation handle. Always succeeds.
func (g *MockGateway) CreateIntent(ctx context.Context, amountInCents int64) (string, error) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("pi_%s_secret_%s", id[:16], id[16:]), nil
}

// BreakerGateway wraps a Gateway with a circuit breaker so a failing
// processor sheds load instead of queueing requests against it.
type BreakerGateway struct {
	next    Gateway
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerGateway wraps the given gateway with a circuit breaker.
func NewBreakerGateway(next Gateway) *BreakerGateway {
	return &BreakerGateway{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "payment-gateway",
			MaxRequests: 3,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// CreateIntent delegates to the wrapped gateway through the breaker.
func (g *BreakerGateway) CreateIntent(ctx context.Context, amountInCents int64) (string, error) {
	secret, err := g.breaker.Execute(func() (any, error) {
		return g.next.CreateIntent(ctx, amountInCents)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrGatewayUnavailable
		}
		return "", err
	}

	return secret.(string), nil
}

var (
	_ Gateway = (*MockGateway)(nil)
	_ Gateway = (*BreakerGateway)(nil)
)
