package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const healthCacheTTL = 30 * time.Second

type healthEntry struct {
	err       error
	checkedAt time.Time
}

// Resolver walks an ordered provider chain and returns the first viable
// result. Provider health probes are cached for a short window so routine
// requests do not re-probe the local runtime every time.
type Resolver struct {
	log *zap.Logger

	mu     sync.Mutex
	health map[string]healthEntry
	ttl    time.Duration
}

func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		log:    log,
		health: make(map[string]healthEntry),
		ttl:    healthCacheTTL,
	}
}

// ResetHealth clears cached probe results. Wired to the explicit
// "test connection" action so a retry probes for real.
func (r *Resolver) ResetHealth() {
	r.mu.Lock()
	r.health = make(map[string]healthEntry)
	r.mu.Unlock()
}

func (r *Resolver) available(ctx context.Context, p Provider) error {
	r.mu.Lock()
	if e, ok := r.health[p.Name()]; ok && time.Since(e.checkedAt) < r.ttl {
		r.mu.Unlock()
		return e.err
	}
	r.mu.Unlock()

	err := p.Available(ctx)

	r.mu.Lock()
	r.health[p.Name()] = healthEntry{err: err, checkedAt: time.Now()}
	r.mu.Unlock()
	return err
}

// Generate tries each provider in order. A provider is skipped when its
// health probe fails, its call errors, or its output fails validation; the
// error is recorded and the next provider gets its turn.
func (r *Resolver) Generate(ctx context.Context, providers []Provider, req Request) (Result, error) {
	var lastErr error
	for _, p := range providers {
		if err := r.available(ctx, p); err != nil {
			r.log.Debug("provider_unavailable",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		text, err := p.Generate(ctx, req)
		if err != nil {
			if errors.Is(err, ErrAuth) {
				// Kept verbatim in the log to guide remediation.
				r.log.Warn("provider_auth_failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
			} else {
				r.log.Warn("provider_generate_failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
			}
			lastErr = err
			continue
		}

		if req.Validate != nil {
			if err := req.Validate(text); err != nil {
				r.log.Warn("provider_output_invalid",
					zap.String("provider", p.Name()),
					zap.String("kind", string(req.Kind)),
					zap.Error(err),
				)
				lastErr = fmt.Errorf("%w: %v", ErrProvider, err)
				continue
			}
		}

		return Result{Text: text, Source: p.Name()}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: empty provider chain", ErrProvider)
	}
	return Result{}, lastErr
}
