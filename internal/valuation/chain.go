package valuation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonhee/gavel/internal/metrics"
	"github.com/wonhee/gavel/pkg/logger"
)

// Tier is one priority class of data sources. All providers in a tier are
// equally authoritative and are queried together.
type Tier struct {
	Name      string
	Providers []SourceProvider
}

// ProgressEvent reports chain progress to an observer (CLI output,
// websocket stream)
type ProgressEvent struct {
	Kind     string `json:"kind"` // tier_start, provider_hit, provider_miss, tier_done
	Tier     int    `json:"tier"`
	TierName string `json:"tierName"`
	SourceID string `json:"sourceId,omitempty"`
	Hits     int    `json:"hits,omitempty"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ev ProgressEvent)

// FallbackChain executes source tiers in strict priority order: stop at the
// first tier that yields a price-bearing record, fan out within it.
// 상위 티어가 응답하면 하위 티어는 절대 호출하지 않는다.
// ⭐ SSOT: 소스 폴백 순서는 이 체인에서만
type FallbackChain struct {
	tiers   []Tier
	timeout time.Duration
	logger  *logger.Logger
}

// NewFallbackChain builds a chain from an ordered tier list. An empty chain
// or an empty tier is a configuration error, the only fatal failure class
// here.
func NewFallbackChain(log *logger.Logger, timeout time.Duration, tiers ...Tier) (*FallbackChain, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("fallback chain needs at least one tier")
	}
	for i, tier := range tiers {
		if len(tier.Providers) == 0 {
			return nil, fmt.Errorf("tier %d (%s) has no providers", i, tier.Name)
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &FallbackChain{
		tiers:   tiers,
		timeout: timeout,
		logger:  log.Component("fallback_chain"),
	}, nil
}

// Tiers returns the configured tier names in priority order
func (c *FallbackChain) Tiers() []string {
	names := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.Name
	}
	return names
}

// Resolve runs the chain for a request. It returns the index of the winning
// tier and every price-bearing record that tier produced, or
// ErrChainExhausted when all tiers missed.
func (c *FallbackChain) Resolve(ctx context.Context, req Request) (int, []ValuationRecord, error) {
	return c.ResolveObserved(ctx, req, nil)
}

// ResolveObserved is Resolve with a progress observer
func (c *FallbackChain) ResolveObserved(ctx context.Context, req Request, progress ProgressFunc) (int, []ValuationRecord, error) {
	if err := req.Validate(); err != nil {
		return 0, nil, err
	}

	for i, tier := range c.tiers {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}

		emit(progress, ProgressEvent{Kind: "tier_start", Tier: i, TierName: tier.Name})

		records := c.runTier(ctx, i, tier, req, progress)

		emit(progress, ProgressEvent{Kind: "tier_done", Tier: i, TierName: tier.Name, Hits: len(records)})

		if len(records) > 0 {
			c.logger.WithFields(map[string]interface{}{
				"tier":    i,
				"name":    tier.Name,
				"sources": len(records),
				"case":    req.CaseNumber,
			}).Info("Tier resolved")
			return i, records, nil
		}

		c.logger.WithFields(map[string]interface{}{
			"tier": i,
			"name": tier.Name,
		}).Debug("Tier exhausted, advancing")
	}

	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	return 0, nil, ErrChainExhausted
}

// runTier fans out to every provider in the tier concurrently. Each call
// carries its own timeout; a failure or timeout of one provider never
// aborts its siblings.
func (c *FallbackChain) runTier(ctx context.Context, tierIdx int, tier Tier, req Request, progress ProgressFunc) []ValuationRecord {
	var (
		mu      sync.Mutex
		records []ValuationRecord
		wg      sync.WaitGroup
	)

	for _, provider := range tier.Providers {
		wg.Add(1)
		go func(p SourceProvider) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			rec, err := p.Fetch(callCtx, req)
			if err != nil {
				// Every provider failure is a recoverable miss
				if !errors.Is(err, ErrMiss) {
					c.logger.WithError(err).WithField("source", p.ID()).Warn("Provider error treated as miss")
				} else {
					c.logger.WithField("source", p.ID()).Debug("Provider miss")
				}
				metrics.ProviderMissesTotal.WithLabelValues(p.ID()).Inc()
				emit(progress, ProgressEvent{Kind: "provider_miss", Tier: tierIdx, TierName: tier.Name, SourceID: p.ID()})
				return
			}

			if rec == nil || !rec.PriceBearing() {
				c.logger.WithField("source", p.ID()).Debug("Provider returned no usable prices")
				metrics.ProviderMissesTotal.WithLabelValues(p.ID()).Inc()
				emit(progress, ProgressEvent{Kind: "provider_miss", Tier: tierIdx, TierName: tier.Name, SourceID: p.ID()})
				return
			}

			out := *rec
			out.SourceID = p.ID()
			out.Tier = tierIdx
			if out.ObservedAt.IsZero() {
				out.ObservedAt = time.Now()
			}

			mu.Lock()
			records = append(records, out)
			mu.Unlock()

			emit(progress, ProgressEvent{Kind: "provider_hit", Tier: tierIdx, TierName: tier.Name, SourceID: p.ID()})
		}(provider)
	}

	wg.Wait()
	return records
}

func emit(progress ProgressFunc, ev ProgressEvent) {
	if progress != nil {
		progress(ev)
	}
}
