package consensus

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// WeightTTL é a validade do cache de pesos. Os pesos são recalculados
// fora deste sistema conforme apostas liquidadas se acumulam.
const WeightTTL = 15 * time.Minute

// WeightSource é o colaborador externo que fornece os pesos dos algoritmos.
type WeightSource interface {
	FetchAlgorithmWeights(ctx context.Context) ([]events.AlgorithmWeight, error)
}

// WeightSourceFunc adapta uma função para WeightSource.
type WeightSourceFunc func(ctx context.Context) ([]events.AlgorithmWeight, error)

func (f WeightSourceFunc) FetchAlgorithmWeights(ctx context.Context) ([]events.AlgorithmWeight, error) {
	return f(ctx)
}

// CachedWeightProvider guarda os pesos em memória com TTL e deduplica buscas
// concorrentes num cache miss (single-flight), evitando estouro no store.
// Instância própria injetada no serviço, sem estado global de processo.
type CachedWeightProvider struct {
	src WeightSource
	ttl time.Duration

	mu        sync.RWMutex
	cached    []events.AlgorithmWeight
	fetchedAt time.Time

	group singleflight.Group
	now   func() time.Time // substituível em teste
}

// NewCachedWeightProvider cria o provider com o TTL padrão.
func NewCachedWeightProvider(src WeightSource) *CachedWeightProvider {
	return NewCachedWeightProviderTTL(src, WeightTTL)
}

// NewCachedWeightProviderTTL cria o provider com TTL customizado.
func NewCachedWeightProviderTTL(src WeightSource, ttl time.Duration) *CachedWeightProvider {
	return &CachedWeightProvider{src: src, ttl: ttl, now: time.Now}
}

// Get retorna os pesos correntes, buscando do store quando o cache expira.
// Falha na busca com cache ainda populado degrada para o valor stale
// (falha soft): a pipeline de recomendação nunca aborta por causa de pesos.
func (p *CachedWeightProvider) Get(ctx context.Context) ([]events.AlgorithmWeight, error) {
	p.mu.RLock()
	if p.cached != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		w := p.cached
		p.mu.RUnlock()
		return w, nil
	}
	p.mu.RUnlock()

	// Chamadores concorrentes durante o miss compartilham uma única busca.
	v, err, _ := p.group.Do("weights", func() (any, error) {
		// Outro chamador pode ter preenchido o cache enquanto aguardávamos.
		p.mu.RLock()
		if p.cached != nil && p.now().Sub(p.fetchedAt) < p.ttl {
			w := p.cached
			p.mu.RUnlock()
			return w, nil
		}
		p.mu.RUnlock()

		weights, err := p.src.FetchAlgorithmWeights(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.cached = weights
		p.fetchedAt = p.now()
		p.mu.Unlock()
		return weights, nil
	})
	if err != nil {
		// fallback stale-if-error
		p.mu.RLock()
		defer p.mu.RUnlock()
		if p.cached != nil {
			return p.cached, nil
		}
		return nil, err
	}
	return v.([]events.AlgorithmWeight), nil
}

// Invalidate descarta o cache; a próxima chamada busca do store.
func (p *CachedWeightProvider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.fetchedAt = time.Time{}
	p.mu.Unlock()
}
