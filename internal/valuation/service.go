package valuation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wonhee/gavel/internal/metrics"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

// HistoryRecord is one completed valuation, as persisted
type HistoryRecord struct {
	RequestID  string            `json:"requestId"`
	CaseNumber string            `json:"caseNumber"`
	Region     string            `json:"region,omitempty"`
	District   string            `json:"district,omitempty"`
	TierUsed   int               `json:"tierUsed"`
	TierName   string            `json:"tierName"`
	Result     CombinedValuation `json:"result"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// HistoryStore persists completed valuations. Implemented by
// internal/storage; nil disables persistence.
type HistoryStore interface {
	SaveValuation(ctx context.Context, rec HistoryRecord) error
	RecentValuations(ctx context.Context, limit int) ([]HistoryRecord, error)
}

// Result is the full outcome of one valuation request
type Result struct {
	Request  Request           `json:"request"`
	TierUsed int               `json:"tierUsed"`
	TierName string            `json:"tierName"`
	Records  []ValuationRecord `json:"records"`
	Combined CombinedValuation `json:"combined"`
	Cached   bool              `json:"cached,omitempty"`
}

// Service runs the full valuation flow: cache lookup, fallback chain,
// aggregation, persistence.
// ⭐ SSOT: 감정 요청 처리 흐름은 이 서비스에서만
type Service struct {
	chain      *FallbackChain
	aggregator *Aggregator
	cache      *redis.Cache
	history    HistoryStore
	cacheTTL   time.Duration
	logger     *logger.Logger
}

// NewService creates the valuation service. cache and history may be nil.
func NewService(chain *FallbackChain, agg *Aggregator, cache *redis.Cache, history HistoryStore, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		chain:      chain,
		aggregator: agg,
		cache:      cache,
		history:    history,
		cacheTTL:   cacheTTL,
		logger:     log.Component("valuation_service"),
	}
}

// Valuate resolves and aggregates one request
func (s *Service) Valuate(ctx context.Context, req Request) (*Result, error) {
	return s.ValuateObserved(ctx, req, nil)
}

// ValuateObserved is Valuate with a chain progress observer
func (s *Service) ValuateObserved(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	log := s.logger.WithFields(map[string]interface{}{
		"request_id": req.RequestID,
		"case":       req.CaseNumber,
	})

	// Cache hit short-circuits the chain entirely
	if s.cache != nil && req.CaseNumber != "" {
		var cached Result
		if found, err := s.cache.Get(ctx, redis.ValuationKey(req.CaseNumber), &cached); err == nil && found {
			cached.Cached = true
			cached.Request.RequestID = req.RequestID
			log.Debug("Valuation served from cache")
			return &cached, nil
		}
	}

	start := time.Now()
	tierUsed, records, err := s.chain.ResolveObserved(ctx, req, progress)
	metrics.ChainDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, ErrChainExhausted) {
			// Defined "no data available" outcome, not a crash
			metrics.ValuationsTotal.WithLabelValues("exhausted").Inc()
			log.Warn("All source tiers exhausted")
			return &Result{Request: req, Combined: CombinedValuation{}}, err
		}
		return nil, err
	}

	tierName := s.chain.Tiers()[tierUsed]
	combined := s.aggregator.Combine(records)

	metrics.ValuationsTotal.WithLabelValues(tierName).Inc()
	metrics.ValuationConfidence.Observe(float64(combined.Confidence))

	result := &Result{
		Request:  req,
		TierUsed: tierUsed,
		TierName: tierName,
		Records:  records,
		Combined: combined,
	}

	if s.cache != nil && req.CaseNumber != "" {
		if err := s.cache.Set(ctx, redis.ValuationKey(req.CaseNumber), result, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache valuation")
		}
	}

	if s.history != nil {
		rec := HistoryRecord{
			RequestID:  req.RequestID,
			CaseNumber: req.CaseNumber,
			Region:     req.Region,
			District:   req.District,
			TierUsed:   tierUsed,
			TierName:   tierName,
			Result:     combined,
			CreatedAt:  time.Now(),
		}
		if err := s.history.SaveValuation(ctx, rec); err != nil {
			// 저장 실패는 응답을 막지 않는다
			log.WithError(err).Error("Failed to persist valuation history")
		}
	}

	log.WithFields(map[string]interface{}{
		"tier":       tierName,
		"sources":    combined.SourceCount,
		"confidence": combined.Confidence,
	}).Info("Valuation completed")

	return result, nil
}

// History returns recent stored valuations
func (s *Service) History(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.RecentValuations(ctx, limit)
}
