package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"salon/internal/core"
	ports "salon/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ ports.LedgerWriter = (*Client)(nil)

// ledgerHeader documents the column order written by AppendEntry.
var ledgerHeader = []string{"Recorded", "Event", "Appointment", "Date", "Time", "Customer", "Services", "Payment", "Total"}

type Config struct {
	SpreadsheetID   string
	SheetName       string // base name; the entry year is prefixed
	CredentialsFile string
	CredentialsJSON string
}

// Client appends ledger rows to a Google spreadsheet, one sheet per year.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

// New creates a Sheets client authenticated with service-account
// credentials from cfg. Inline JSON wins over the file path.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Agenda"
	}

	if len(opts) == 0 {
		creds, err := credentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets ledger ready", "spreadsheet_id", spreadsheetID, "sheet", base)

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetBase: base}, nil
}

func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read credentials file", "path", cfg.CredentialsFile, "size", len(data))
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
}

// AppendEntry appends one row after the last non-empty row of the year's
// sheet and returns the updated A1 range.
func (c *Client) AppendEntry(ctx context.Context, e core.LedgerEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	year := e.Date.Year()
	if e.Date.IsZero() {
		// deletions carry no appointment date
		year = e.RecordedAt.Year()
	}
	sheet := yearPrefixedName(c.sheetBase, year)
	rng := fmt.Sprintf("%s!A:%c", sheet, 'A'+len(ledgerHeader)-1)
	vr := &gsheet.ValueRange{Values: [][]any{ledgerRow(e)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

func ledgerRow(e core.LedgerEntry) []any {
	return []any{
		e.RecordedAt.Format("2006-01-02 15:04:05"),
		e.Event,
		e.AppointmentID,
		e.Date.String(),
		e.Time,
		e.Customer,
		e.Services,
		string(e.PaymentMethod),
		e.Total.Decimal(),
	}
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
