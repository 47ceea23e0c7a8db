package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHistory is an in-memory HistoryStore for service tests
type memoryHistory struct {
	saved []HistoryRecord
}

func (m *memoryHistory) SaveValuation(_ context.Context, rec HistoryRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memoryHistory) RecentValuations(_ context.Context, limit int) ([]HistoryRecord, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[len(m.saved)-limit:], nil
}

func newTestService(t *testing.T, history HistoryStore, tiers ...Tier) *Service {
	t.Helper()
	chain, err := NewFallbackChain(testLogger(), time.Second, tiers...)
	require.NoError(t, err)
	return NewService(chain, NewAggregator(DefaultPolicy()), nil, history, time.Minute, testLogger())
}

func TestService_Valuate(t *testing.T) {
	history := &memoryHistory{}
	svc := newTestService(t, history,
		Tier{Name: "official", Providers: []SourceProvider{
			hit("courtapi", 240_000_000),
			hit("kbland", 260_000_000),
		}},
	)

	result, err := svc.Valuate(context.Background(), testRequest)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Request.RequestID, "request id is assigned when absent")
	assert.Equal(t, "official", result.TierName)
	assert.Equal(t, int64(250_000_000), result.Combined.MarketPrice)
	assert.Equal(t, 2, result.Combined.SourceCount)
	assert.False(t, result.Cached)

	// 완료된 평가는 이력에 남는다
	require.Len(t, history.saved, 1)
	assert.Equal(t, result.Request.RequestID, history.saved[0].RequestID)
	assert.Equal(t, "official", history.saved[0].TierName)
}

func TestService_Valuate_InvalidRequest(t *testing.T) {
	svc := newTestService(t, nil,
		Tier{Name: "synthetic", Providers: []SourceProvider{hit("synthetic", 1)}},
	)

	_, err := svc.Valuate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_Valuate_Exhausted(t *testing.T) {
	svc := newTestService(t, nil,
		Tier{Name: "official", Providers: []SourceProvider{miss("courtapi")}},
	)

	result, err := svc.Valuate(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrChainExhausted)
	require.NotNil(t, result)
	assert.True(t, result.Combined.Empty(), "exhausted chain yields the zeroed valuation")
}

func TestService_History_NoStore(t *testing.T) {
	svc := newTestService(t, nil,
		Tier{Name: "synthetic", Providers: []SourceProvider{hit("synthetic", 1)}},
	)

	records, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, records, "history disabled without a store")
}
