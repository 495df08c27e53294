// Package backend is a stand-in for the spreadsheet web app: it answers the
// same GET/POST action convention on top of a Store.
package backend

import (
	"context"
	"errors"

	"poptique_list/internal/listview"
)

var (
	// ErrStaleRow is returned when a row no longer holds the product the
	// client saw.
	ErrStaleRow    = errors.New("row no longer holds that product")
	ErrRowNotFound = errors.New("row not found")
)

// Product is one data row. Its row number is its index plus listview.FirstDataRow.
type Product struct {
	Product  string
	Platform string
	Picked   bool
}

// Store holds the list in row order. Row arguments are sheet row numbers.
type Store interface {
	Rows(ctx context.Context) ([]Product, error)
	Append(ctx context.Context, p Product) error
	SetPicked(ctx context.Context, row int, picked bool) error
	SetPlatform(ctx context.Context, row int, platform string) error
	Delete(ctx context.Context, row int) error
	Clear(ctx context.Context) error
	// SetPickedForPlatform updates every row whose platform matches.
	SetPickedForPlatform(ctx context.Context, platform string, picked bool) error
}

// MatchesPlatform reports whether a stored platform belongs to the named
// group. Rows without a platform are shown under "Other".
func MatchesPlatform(stored, group string) bool {
	if stored == group {
		return true
	}
	return group == listview.OtherPlatform && stored == ""
}

func rowIndex(row, n int) (int, bool) {
	i := row - listview.FirstDataRow
	return i, i >= 0 && i < n
}
