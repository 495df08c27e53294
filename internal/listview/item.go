// Package listview turns the backend's flat row list into platform groups and
// a render tree the frontends draw from.
package listview

import (
	"fmt"
	"math"
	"strconv"
)

// OtherPlatform is the group for rows without a platform.
const OtherPlatform = "Other"

// FirstDataRow is the sheet row of the first item; row 1 holds the header.
const FirstDataRow = 2

// Row is one backend tuple: [product, platform, picked]. Cells may be missing.
type Row []any

// Item is a row with its derived fields. SheetRow is the item's only identity:
// it is the row's physical position in the backend, so any insert or delete
// on the backend invalidates row numbers held by the client.
type Item struct {
	Product  string
	Platform string
	Picked   bool
	SheetRow int
}

// SheetRowFor returns the backend row number of the row at zero-based index i.
func SheetRowFor(i int) int { return i + FirstDataRow }

// ItemFromRow derives an Item from the row at zero-based index i.
func ItemFromRow(i int, row Row) Item {
	platform := OtherPlatform
	if p := row.cell(1); Truthy(p) {
		platform = Text(p)
	}
	return Item{
		Product:  Text(row.cell(0)),
		Platform: platform,
		Picked:   IsPicked(row.cell(2)),
		SheetRow: SheetRowFor(i),
	}
}

func (r Row) cell(i int) any {
	if i < len(r) {
		return r[i]
	}
	return nil
}

// IsPicked coerces a picked cell. Booleans and "true"/"TRUE"/"false"/"FALSE"
// map directly; anything else follows Truthy.
func IsPicked(v any) bool {
	switch v {
	case true, "true", "TRUE":
		return true
	case false, "false", "FALSE":
		return false
	}
	return Truthy(v)
}

// Truthy mirrors the loose truthiness spreadsheet values get in the browser:
// nil, false, "", 0 and NaN are false, everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	default:
		return true
	}
}

// Text renders a cell as the text shown to the user.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
