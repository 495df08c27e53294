package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"poptique_list/internal/retry"
	"poptique_list/internal/sheets"
)

// fakeSheet is an in-memory tab; values[0] is the header row.
type fakeSheet struct {
	values     [][]interface{}
	readFails  int
	reads      int
	lastRanges []string
	batches    [][]sheets.CellUpdate
}

func (f *fakeSheet) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	f.reads++
	if f.readFails > 0 {
		f.readFails--
		return nil, errors.New("backend error")
	}
	f.lastRanges = append(f.lastRanges, range_)
	return f.values[1:], nil
}

func (f *fakeSheet) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error {
	f.lastRanges = append(f.lastRanges, range_)
	f.values = append(f.values, rows...)
	return nil
}

func (f *fakeSheet) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	f.lastRanges = append(f.lastRanges, range_)
	var col rune
	var row int
	if _, err := fmt.Sscanf(range_, "List!%c%d", &col, &row); err != nil {
		return err
	}
	cells := f.values[row-1]
	for len(cells) < 3 {
		cells = append(cells, nil)
	}
	cells[col-'A'] = values[0][0]
	f.values[row-1] = cells
	return nil
}

func (f *fakeSheet) BatchUpdateCells(ctx context.Context, spreadsheetID string, updates []sheets.CellUpdate) error {
	f.batches = append(f.batches, updates)
	return nil
}

func (f *fakeSheet) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	f.lastRanges = append(f.lastRanges, range_)
	f.values = f.values[:1]
	return nil
}

func (f *fakeSheet) DeleteRow(ctx context.Context, spreadsheetID, tab string, row int) error {
	f.values = append(f.values[:row-1], f.values[row:]...)
	return nil
}

func fastRead() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Timeout: time.Second}
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{values: [][]interface{}{
		{"Product", "Platform", "Picked"},
		{"Mug", "Depop", false},
		{"Lamp"},
		{"Vase", "eBay", "TRUE"},
	}}
}

func TestSheetsStoreRowsCoercesCells(t *testing.T) {
	fake := newFakeSheet()
	s := NewSheetsStore(fake, "id", "List!A1").WithReadPolicy(fastRead())

	rows, err := s.Rows(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fake.lastRanges[0] != "List!A2:C" {
		t.Errorf("Expected data range List!A2:C, got %s", fake.lastRanges[0])
	}
	want := []Product{
		{Product: "Mug", Platform: "Depop"},
		{Product: "Lamp"},
		{Product: "Vase", Platform: "eBay", Picked: true},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}
}

func TestSheetsStoreRetriesReads(t *testing.T) {
	fake := newFakeSheet()
	fake.readFails = 2
	s := NewSheetsStore(fake, "id", "List!A1").WithReadPolicy(fastRead())

	if _, err := s.Rows(context.Background()); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if fake.reads != 3 {
		t.Errorf("Expected 3 reads, got %d", fake.reads)
	}
}

func TestSheetsStoreWrites(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSheet()
	s := NewSheetsStore(fake, "id", "List!A1").WithReadPolicy(fastRead())

	if err := s.SetPicked(ctx, 3, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.SetPlatform(ctx, 2, "Vinted"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fake.values[2][2] != true || fake.values[1][1] != "Vinted" {
		t.Errorf("Unexpected values %v", fake.values)
	}

	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fake.values) != 3 || fake.values[1][0] != "Lamp" {
		t.Errorf("Expected Lamp to move up, got %v", fake.values)
	}

	if err := s.Append(ctx, Product{Product: "Bowl", Platform: "eBay"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if last := fake.values[len(fake.values)-1]; last[0] != "Bowl" || last[2] != false {
		t.Errorf("Unexpected appended row %v", last)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fake.values) != 1 {
		t.Errorf("Expected only the header to remain, got %v", fake.values)
	}
}

func TestSheetsStoreSetPickedForPlatformBatches(t *testing.T) {
	fake := newFakeSheet()
	s := NewSheetsStore(fake, "id", "List!A1").WithReadPolicy(fastRead())

	if err := s.SetPickedForPlatform(context.Background(), "Other", true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fake.batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(fake.batches))
	}
	batch := fake.batches[0]
	if len(batch) != 1 || batch[0].Range != "List!C3" || batch[0].Value != true {
		t.Errorf("Expected only Lamp (row 3) updated, got %+v", batch)
	}
}
