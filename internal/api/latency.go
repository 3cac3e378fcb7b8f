package api

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/bamic-rtp-server/internal/domain"
)

// deliveryDelay simulates the round trip of a remote scoring backend. The
// delay grows with the severity score and carries random jitter.
type deliveryDelay struct {
	cfg    domain.TransportConfig
	jitter func(max time.Duration) time.Duration
}

func newDeliveryDelay(cfg domain.TransportConfig) *deliveryDelay {
	return &deliveryDelay{cfg: cfg, jitter: randomJitter}
}

// For returns the delay for a score, or zero when simulation is off
func (d *deliveryDelay) For(score int) time.Duration {
	if !d.cfg.SimulateLatency {
		return 0
	}
	scorePart := time.Duration(float64(d.cfg.ScoreDelay) * float64(score) / 100)
	return d.cfg.BaseDelay + scorePart + d.jitter(d.cfg.MaxJitter)
}

// Wait blocks for the delay of score or until ctx is done
func (d *deliveryDelay) Wait(ctx context.Context, score int) error {
	delay := d.For(score)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max) + 1))
}
