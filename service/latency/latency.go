// Package latency delays simulated backend calls the way a remote service would.
package latency

import (
	"context"
	"time"
)

type Kind int

const (
	Read Kind = iota
	Mutation
	Auth
)

var base = map[Kind]time.Duration{
	Read:     300 * time.Millisecond,
	Mutation: 500 * time.Millisecond,
	Auth:     1000 * time.Millisecond,
}

// Simulator sleeps for the base delay of a call kind multiplied by Scale.
// A zero Scale (or a nil Simulator) never sleeps.
type Simulator struct {
	Scale float64
}

func New(scale float64) *Simulator {
	if scale < 0 {
		scale = 0
	}
	return &Simulator{Scale: scale}
}

// Delay returns the sleep duration for kind.
func (s *Simulator) Delay(kind Kind) time.Duration {
	if s == nil || s.Scale == 0 {
		return 0
	}
	return time.Duration(float64(base[kind]) * s.Scale)
}

// Wait blocks for the kind's delay or until ctx is done.
func (s *Simulator) Wait(ctx context.Context, kind Kind) error {
	d := s.Delay(kind)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
