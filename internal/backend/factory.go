package backend

import (
	"context"
	"fmt"

	applog "salon/internal/log"
	gsheet "salon/internal/sheets/google"
	"salon/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentSheets)}
}

func (f *DefaultFactory) CreateLedger(ctx context.Context, config Config) (*LedgerResult, error) {
	switch config.Type {
	case SheetsLedger:
		return f.createSheetsLedger(ctx, config)
	case MemoryLedger:
		return f.createMemoryLedger()
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", config.Type)
	}
}

func (f *DefaultFactory) createSheetsLedger(ctx context.Context, config Config) (*LedgerResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsFile: config.GoogleCredentialsFile,
		CredentialsJSON: config.GoogleCredentialsJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets ledger: %w", err)
	}

	f.logger.Info("Initialized Google Sheets ledger",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)

	return &LedgerResult{Ledger: cli}, nil
}

// createMemoryLedger keeps entries in process; they are lost on restart.
func (f *DefaultFactory) createMemoryLedger() (*LedgerResult, error) {
	f.logger.Warn("Using in-memory ledger, entries are not persisted")
	return &LedgerResult{Ledger: memory.New()}, nil
}
