package backend

import (
	"fmt"

	"salon/internal/config"
)

// FromAppConfig converts the application config to ledger config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	ledgerType := LedgerType(appConfig.LedgerBackend)
	if !ledgerType.IsValid() {
		return Config{}, fmt.Errorf("invalid ledger backend in config: %s", appConfig.LedgerBackend)
	}

	return Config{
		Type:                  ledgerType,
		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSheetName:       appConfig.GoogleSheetName,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
	}, nil
}
