package sheets

import (
	"context"

	"salon/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter appends bookkeeping rows to the external ledger.
	LedgerWriter interface {
		AppendEntry(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
	}
)
