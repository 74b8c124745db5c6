// Package backend selects and builds the ledger the worker appends
// appointment events to.
package backend

import (
	"context"

	"salon/internal/sheets"
)

// CleanupFunc releases resources held by a ledger
type CleanupFunc func() error

// LedgerResult contains the ledger instance and optional cleanup function
type LedgerResult struct {
	Ledger  sheets.LedgerWriter
	Cleanup CleanupFunc
}

// Factory creates ledgers based on configuration
type Factory interface {
	CreateLedger(ctx context.Context, config Config) (*LedgerResult, error)
}

// Config holds configuration for ledger creation
type Config struct {
	Type LedgerType

	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
}

// LedgerType names a ledger implementation
type LedgerType string

const (
	SheetsLedger LedgerType = "sheets"
	MemoryLedger LedgerType = "memory"
)

func (lt LedgerType) String() string {
	return string(lt)
}

// IsValid returns true if the ledger type is known
func (lt LedgerType) IsValid() bool {
	switch lt {
	case SheetsLedger, MemoryLedger:
		return true
	default:
		return false
	}
}
