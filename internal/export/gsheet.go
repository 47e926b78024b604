package export

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GSheetExporter mirrors the sheets into tabs of an existing spreadsheet,
// replacing whatever the tabs held before.
type GSheetExporter struct {
	spreadsheetID string
	sheetsService *sheets.Service
}

func NewGSheetExporter(ctx context.Context, spreadsheetID, credentialsPath string) (*GSheetExporter, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GSheetExporter{
		spreadsheetID: spreadsheetID,
		sheetsService: svc,
	}, nil
}

func (e *GSheetExporter) Export(ctx context.Context, tabs []Sheet) error {
	if err := e.ensureTabs(ctx, tabs); err != nil {
		return err
	}

	for _, tab := range tabs {
		_, err := e.sheetsService.Spreadsheets.Values.Clear(e.spreadsheetID, tab.Name,
			&sheets.ClearValuesRequest{}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to clear tab %s: %w", tab.Name, err)
		}

		_, err = e.sheetsService.Spreadsheets.Values.Update(e.spreadsheetID, tab.Name+"!A1",
			&sheets.ValueRange{Values: Values(tab)}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update tab %s: %w", tab.Name, err)
		}
		logger.Debug.Printf("Exported %d rows to tab %s", len(tab.Rows), tab.Name)
	}
	return nil
}

func (e *GSheetExporter) ensureTabs(ctx context.Context, tabs []Sheet) error {
	doc, err := e.sheetsService.Spreadsheets.Get(e.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	existing := make(map[string]bool)
	for _, s := range doc.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, tab := range tabs {
		if !existing[tab.Name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tab.Name}},
			})
		}
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = e.sheetsService.Spreadsheets.BatchUpdate(e.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add tabs: %w", err)
	}
	return nil
}

// Values flattens a sheet, header first, into the API's row format.
func Values(tab Sheet) [][]interface{} {
	out := make([][]interface{}, 0, len(tab.Rows)+1)
	header := make([]interface{}, len(tab.Header))
	for i, h := range tab.Header {
		header[i] = h
	}
	out = append(out, header)
	for _, row := range tab.Rows {
		out = append(out, row)
	}
	return out
}
