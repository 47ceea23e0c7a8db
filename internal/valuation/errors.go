package valuation

import "errors"

var (
	// ErrMiss means a single provider found nothing for the request.
	// Always recoverable; the chain logs it and moves on.
	ErrMiss = errors.New("source miss")

	// ErrChainExhausted means every configured tier missed.
	// 합성 티어가 구성돼 있으면 발생하지 않아야 한다.
	ErrChainExhausted = errors.New("all source tiers exhausted")

	// ErrInvalidRequest means the request failed validation before the
	// chain ran. Caller error, distinct from data unavailability.
	ErrInvalidRequest = errors.New("invalid valuation request")
)
