package consensus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

type countingSource struct {
	calls atomic.Int64
	fail  atomic.Bool
	delay time.Duration
}

func (s *countingSource) FetchAlgorithmWeights(ctx context.Context) ([]events.AlgorithmWeight, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return nil, errors.New("store unavailable")
	}
	return []events.AlgorithmWeight{
		{AlgorithmID: "momentum", Weight: 0.5, WinRate: 58},
		{AlgorithmID: "value", Weight: 0.5, WinRate: 55},
	}, nil
}

func TestCachedWeightProviderCachesWithinTTL(t *testing.T) {
	src := &countingSource{}
	p := NewCachedWeightProviderTTL(src, time.Minute)

	for i := 0; i < 5; i++ {
		w, err := p.Get(context.Background())
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(w) != 2 {
			t.Fatalf("got %d weights", len(w))
		}
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times within TTL, want 1", got)
	}
}

func TestCachedWeightProviderExpires(t *testing.T) {
	src := &countingSource{}
	p := NewCachedWeightProviderTTL(src, 10*time.Millisecond)

	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Força expiração movendo o relógio do provider.
	p.mu.Lock()
	p.fetchedAt = p.fetchedAt.Add(-time.Second)
	p.mu.Unlock()

	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times after expiry, want 2", got)
	}
}

// Miss concorrente deve compartilhar uma única busca (single-flight).
func TestCachedWeightProviderSingleFlight(t *testing.T) {
	src := &countingSource{delay: 30 * time.Millisecond}
	p := NewCachedWeightProviderTTL(src, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Get(context.Background()); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times for concurrent miss, want 1", got)
	}
}

func TestCachedWeightProviderStaleFallback(t *testing.T) {
	src := &countingSource{}
	p := NewCachedWeightProviderTTL(src, time.Minute)

	if _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Expira o cache e faz o store falhar: deve servir o valor stale.
	p.mu.Lock()
	p.fetchedAt = p.fetchedAt.Add(-2 * time.Minute)
	p.mu.Unlock()
	src.fail.Store(true)

	w, err := p.Get(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if len(w) != 2 {
		t.Fatalf("stale fallback returned %d weights", len(w))
	}

	// Sem cache populado, o erro propaga.
	p.Invalidate()
	if _, err := p.Get(context.Background()); err == nil {
		t.Fatal("expected error with empty cache and failing store")
	}
}
