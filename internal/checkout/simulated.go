package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/pkg/config"
)

// SimulatedProvider stands in for an external wallet that has no live
// integration yet. Implementations return a provider reference on success.
type SimulatedProvider interface {
	Execute(ctx context.Context, userID uuid.UUID, planID uuid.UUID) (string, error)
}

// ErrSimulatedDecline is returned when the configured outcome is a decline.
var ErrSimulatedDecline = fmt.Errorf("simulated payment declined")

type configuredSimulator struct {
	delay   time.Duration
	decline bool
}

// NewSimulatedProvider builds a provider whose outcome and latency come from
// configuration, so environments behave deterministically.
func NewSimulatedProvider(cfg config.CheckoutConfig) SimulatedProvider {
	return &configuredSimulator{
		delay:   cfg.SimulatedDelay,
		decline: cfg.SimulatedOutcome == "declined",
	}
}

func (p *configuredSimulator) Execute(ctx context.Context, userID, planID uuid.UUID) (string, error) {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.decline {
		return "", ErrSimulatedDecline
	}
	return "paypal_" + uuid.NewString(), nil
}
