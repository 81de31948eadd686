package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/pkg/logger"
)

// SheetColumns defines the column headers for the analyzed-cases sheet
var SheetColumns = []string{
	"Case ID",
	"Title",
	"Author",
	"Platform",
	"Impact",
	"Top Dimensions",
	"Highlights",
	"Link",
	"Analyzed At",
}

// SheetsTracker exports analyzed cases to a shared Google Sheet so the
// team can review scoring runs outside the CLI
type SheetsTracker struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	log           *logger.Logger
}

// Config holds Google Sheets tracker configuration
type Config struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SheetName          string `mapstructure:"sheet_name"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// NewSheetsTracker creates a new Google Sheets tracker. Returns nil when
// the tracker is disabled.
func NewSheetsTracker(cfg Config, log *logger.Logger) (*SheetsTracker, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ctx := context.Background()

	var srv *sheets.Service
	var err error

	// Try service account JSON first (for env var injection)
	if cfg.ServiceAccountJSON != "" {
		srv, err = sheets.NewService(ctx, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	} else if cfg.CredentialsFile != "" {
		srv, err = sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		return nil, fmt.Errorf("no Google credentials provided: set credentials_file or service_account_json")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Cases"
	}

	return &SheetsTracker{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		log:           log.WithComponent("sheets-tracker"),
	}, nil
}

// InitializeSheet writes the column headers to the first row
func (t *SheetsTracker) InitializeSheet(ctx context.Context) error {
	header := make([]interface{}, len(SheetColumns))
	for i, col := range SheetColumns {
		header[i] = col
	}

	writeRange := fmt.Sprintf("%s!A1", t.sheetName)
	_, err := t.service.Spreadsheets.Values.Update(t.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	t.log.Info().Str("sheet", t.sheetName).Msg("Initialized tracking sheet")
	return nil
}

// TrackAnalysis appends one analyzed case and its result to the sheet
func (t *SheetsTracker) TrackAnalysis(ctx context.Context, cs *models.Case, result *models.AnalysisResult) error {
	top := result.RadarScores.Top(3)
	topNames := make([]string, len(top))
	for i, d := range top {
		topNames[i] = fmt.Sprintf("%s (%d)", d, result.RadarScores[d])
	}

	row := []interface{}{
		cs.ID,
		cs.Title,
		cs.Author,
		string(cs.Platform),
		cs.DisplayScore(),
		strings.Join(topNames, ", "),
		result.Highlights,
		cs.Link,
		time.Now().Format(time.RFC3339),
	}

	appendRange := fmt.Sprintf("%s!A:I", t.sheetName)
	_, err := t.service.Spreadsheets.Values.Append(t.spreadsheetID, appendRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append analysis row: %w", err)
	}

	t.log.Info().
		Str("case_id", cs.ID).
		Str("sheet", t.sheetName).
		Msg("Tracked analysis")
	return nil
}
