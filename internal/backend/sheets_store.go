package backend

import (
	"context"
	"fmt"

	"poptique_list/internal/config"
	"poptique_list/internal/listview"
	"poptique_list/internal/retry"
	"poptique_list/internal/sheets"

	"github.com/rs/zerolog/log"
)

// sheetsAPI is the part of *sheets.Client the store uses.
type sheetsAPI interface {
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
	AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	BatchUpdateCells(ctx context.Context, spreadsheetID string, updates []sheets.CellUpdate) error
	ClearRange(ctx context.Context, spreadsheetID, range_ string) error
	DeleteRow(ctx context.Context, spreadsheetID, tab string, row int) error
}

// SheetsStore keeps the list in columns A:C of one tab, header in row 1.
type SheetsStore struct {
	client        sheetsAPI
	spreadsheetID string
	tab           string
	readPolicy    retry.Config
}

// NewSheetsStore uses the tab named in sheetRange ("List!A1").
func NewSheetsStore(client sheetsAPI, spreadsheetID, sheetRange string) *SheetsStore {
	return &SheetsStore{
		client:        client,
		spreadsheetID: spreadsheetID,
		tab:           sheets.TabName(sheetRange),
		readPolicy:    config.DefaultResilienceConfig.SheetRead,
	}
}

// WithReadPolicy replaces the retry policy used for reads.
func (s *SheetsStore) WithReadPolicy(p retry.Config) *SheetsStore {
	s.readPolicy = p
	return s
}

func (s *SheetsStore) dataRange() string {
	return fmt.Sprintf("%s!A%d:C", s.tab, listview.FirstDataRow)
}

func (s *SheetsStore) cell(column string, row int) string {
	return fmt.Sprintf("%s!%s%d", s.tab, column, row)
}

func (s *SheetsStore) Rows(ctx context.Context) ([]Product, error) {
	values, err := retry.WithRetry(ctx, s.readPolicy, func(ctx context.Context) ([][]interface{}, error) {
		return s.client.ReadSheet(ctx, s.spreadsheetID, s.dataRange())
	})
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(values))
	for _, v := range values {
		products = append(products, Product{
			Product:  listview.Text(cellAt(v, 0)),
			Platform: listview.Text(cellAt(v, 1)),
			Picked:   listview.IsPicked(cellAt(v, 2)),
		})
	}
	log.Debug().Int("rows", len(products)).Str("tab", s.tab).Msg("Read sheet rows")
	return products, nil
}

func (s *SheetsStore) Append(ctx context.Context, p Product) error {
	return s.client.AppendRows(ctx, s.spreadsheetID, s.cell("A", 1), [][]interface{}{
		{p.Product, p.Platform, p.Picked},
	})
}

func (s *SheetsStore) SetPicked(ctx context.Context, row int, picked bool) error {
	return s.client.UpdateRange(ctx, s.spreadsheetID, s.cell("C", row), [][]interface{}{{picked}})
}

func (s *SheetsStore) SetPlatform(ctx context.Context, row int, platform string) error {
	return s.client.UpdateRange(ctx, s.spreadsheetID, s.cell("B", row), [][]interface{}{{platform}})
}

func (s *SheetsStore) Delete(ctx context.Context, row int) error {
	return s.client.DeleteRow(ctx, s.spreadsheetID, s.tab, row)
}

func (s *SheetsStore) Clear(ctx context.Context) error {
	return s.client.ClearRange(ctx, s.spreadsheetID, s.dataRange())
}

func (s *SheetsStore) SetPickedForPlatform(ctx context.Context, platform string, picked bool) error {
	rows, err := s.Rows(ctx)
	if err != nil {
		return err
	}
	var updates []sheets.CellUpdate
	for i, p := range rows {
		if MatchesPlatform(p.Platform, platform) {
			updates = append(updates, sheets.CellUpdate{Range: s.cell("C", listview.SheetRowFor(i)), Value: picked})
		}
	}
	return s.client.BatchUpdateCells(ctx, s.spreadsheetID, updates)
}

func cellAt(row []interface{}, i int) interface{} {
	if i < len(row) {
		return row[i]
	}
	return nil
}
