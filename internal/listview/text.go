package listview

import (
	"fmt"
	"strings"
)

// FormatList renders groups as plain text, one block per platform. With
// rows set each item carries its sheet row number.
func FormatList(groups []Group, rows bool) string {
	if len(groups) == 0 {
		return "The list is empty.\n"
	}
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", g.Platform, len(g.Items))
		for _, it := range g.Items {
			mark := "[ ]"
			if it.Picked {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "  %s %s", mark, it.Product)
			if rows {
				fmt.Fprintf(&b, "  #%d", it.SheetRow)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
