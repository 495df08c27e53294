// Package sheets wraps the Google Sheets values API for the list tab.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// NewClientWithOptions is used with option.WithEndpoint and option.WithHTTPClient in tests.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{service: service}, nil
}

// TabName returns the tab part of an A1 range ("List!A1" -> "List").
func TabName(a1 string) string {
	return strings.Split(a1, "!")[0]
}

// ReadSheet returns unformatted values so checkbox cells arrive as booleans.
func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

func (c *Client) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: rows,
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}

	return nil
}

// CellUpdate is one cell write in a BatchUpdateCells call.
type CellUpdate struct {
	Range string
	Value interface{}
}

// BatchUpdateCells writes many single cells in one request.
func (c *Client) BatchUpdateCells(ctx context.Context, spreadsheetID string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  u.Range,
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to batch update cells: %w", err)
	}
	return nil
}

func (c *Client) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear range: %w", err)
	}
	return nil
}

// DeleteRow removes a 1-based row from a tab, shifting later rows up.
func (c *Client) DeleteRow(ctx context.Context, spreadsheetID, tab string, row int) error {
	sheetID, err := c.sheetID(ctx, spreadsheetID, tab)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
					// the first tab's id is 0, which would otherwise be dropped
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete row %d: %w", row, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, spreadsheetID, tab string) (int64, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("tab %q not found", tab)
}
