package listview

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Group is the items of one platform, unpicked first.
type Group struct {
	Platform string
	Items    []Item
}

// GroupAndSort groups rows by platform in first-seen order. Within a group
// unpicked items come before picked ones and each tier is ordered by locale
// collation of the product name; equal names keep their row order.
func GroupAndSort(rows []Row) []Group {
	var groups []Group
	index := make(map[string]int)

	for i, row := range rows {
		item := ItemFromRow(i, row)
		gi, ok := index[item.Platform]
		if !ok {
			gi = len(groups)
			index[item.Platform] = gi
			groups = append(groups, Group{Platform: item.Platform})
		}
		groups[gi].Items = append(groups[gi].Items, item)
	}

	// collators keep internal buffers, so one per call
	col := collate.New(language.Und)
	for gi := range groups {
		slices.SortStableFunc(groups[gi].Items, func(a, b Item) int {
			if a.Picked != b.Picked {
				if a.Picked {
					return 1
				}
				return -1
			}
			return col.CompareString(a.Product, b.Product)
		})
	}
	return groups
}

// Find returns the item with the given sheet row.
func Find(groups []Group, sheetRow int) (Item, bool) {
	for _, g := range groups {
		for _, it := range g.Items {
			if it.SheetRow == sheetRow {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Count returns the number of items across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}
