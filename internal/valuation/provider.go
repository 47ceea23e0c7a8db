package valuation

import "context"

// SourceProvider produces one source's valuation for a request.
// Implementations live in internal/providers; the core only depends on
// this contract.
//
// Fetch returns ErrMiss (wrapped allowed) for ordinary not-found
// conditions. Any other error is treated by the chain as a miss too; only
// chain construction can fail structurally.
type SourceProvider interface {
	// ID identifies the data origin (e.g. "courtapi", "kbland")
	ID() string

	// Fetch produces a valuation record or a miss. The context carries
	// the per-provider timeout; implementations must honor cancellation.
	Fetch(ctx context.Context, req Request) (*ValuationRecord, error)
}
