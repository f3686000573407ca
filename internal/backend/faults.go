package backend

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/talentflow/pipeline/internal/metrics"
)

// FaultConfig mirrors the reference backend's simulated unreliability:
// uniform latency within [MinLatency, MaxLatency] plus a random failure
// probability on every mutating call. Seed 0 draws from the clock.
type FaultConfig struct {
	FailureRate float64
	MinLatency  time.Duration
	MaxLatency  time.Duration
	Seed        int64
}

// DefaultFaultConfig matches the reference handlers: 200ms-1.2s latency
// and roughly one mutating call in twelve failing.
func DefaultFaultConfig() FaultConfig {
	return FaultConfig{
		FailureRate: 0.08,
		MinLatency:  200 * time.Millisecond,
		MaxLatency:  1200 * time.Millisecond,
	}
}

type FaultPolicy struct {
	mu     sync.Mutex
	cfg    FaultConfig
	rng    *rand.Rand
	script []error
}

func NewFaultPolicy(cfg FaultConfig) *FaultPolicy {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FaultPolicy{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Disabled returns a policy with no latency and no failures, for tests
// that only care about the happy path.
func Disabled() *FaultPolicy {
	return NewFaultPolicy(FaultConfig{})
}

// Script queues exact outcomes for upcoming mutating calls, consumed in
// order before any randomness applies; nil means success. Tests use this
// to force deterministic failure sequences.
func (p *FaultPolicy) Script(outcomes ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append(p.script, outcomes...)
}

func (p *FaultPolicy) inject(ctx context.Context) error {
	if delay := p.latency(); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.script) > 0 {
		outcome := p.script[0]
		p.script = p.script[1:]
		if outcome != nil {
			metrics.InjectedFaultsCounter.Inc()
		}
		return outcome
	}

	if p.cfg.FailureRate > 0 && p.rng.Float64() < p.cfg.FailureRate {
		metrics.InjectedFaultsCounter.Inc()
		return ErrServerFault
	}
	return nil
}

func (p *FaultPolicy) latency() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.MaxLatency <= 0 {
		return 0
	}
	if p.cfg.MaxLatency <= p.cfg.MinLatency {
		return p.cfg.MinLatency
	}
	return p.cfg.MinLatency + time.Duration(p.rng.Int63n(int64(p.cfg.MaxLatency-p.cfg.MinLatency)))
}
