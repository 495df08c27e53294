package tui

import (
	"fmt"
	"strings"

	"poptique_list/internal/gesture"
	"poptique_list/internal/listview"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type hitKind int

const (
	hitNone hitKind = iota
	hitFormTitle
	hitProduct
	hitPlatform
	hitAdd
	hitRefresh
	hitClear
	hitError
	hitGroup
	hitItem
	hitSheetTitle
	hitSheetOption
)

// hit is what a click on a screen line targets. Spans override the line's
// target for a column range.
type hit struct {
	kind   hitKind
	action listview.Action
	toggle listview.Action
	heart  bool
	entry  int
	option int
	spans  []span
}

type span struct {
	from, to int
	hit      hit
}

func (h hit) at(col int) hit {
	for _, s := range h.spans {
		if col >= s.from && col < s.to {
			return s.hit
		}
	}
	return h
}

const (
	minWidth     = 36
	maxWidth     = 72
	defaultWidth = 60
)

func (m Model) lineWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return min(max(w, minWidth), maxWidth)
}

// layout renders the screen line by line alongside the click target of each
// line. View and mouse handling share it so hits always match what is drawn.
func (m Model) layout() ([]string, []hit) {
	var (
		lines []string
		hits  []hit
	)
	add := func(line string, h hit) {
		lines = append(lines, line)
		hits = append(hits, h)
	}
	w := m.lineWidth()
	dim := m.sheet.BackdropShown()

	add(styleTitle.Render("Poptique List"), hit{})

	refresh, clearLabel := "[Refresh]", "[Clear all]"
	if m.clearing {
		clearLabel = "[Clearing…]"
	}
	toolbar := styleButton.Render(refresh) + " " + styleButton.Render(clearLabel)
	add(toolbar, hit{spans: []span{
		{from: 0, to: runewidth.StringWidth(refresh), hit: hit{kind: hitRefresh}},
		{from: runewidth.StringWidth(refresh) + 1, to: runewidth.StringWidth(refresh+" "+clearLabel), hit: hit{kind: hitClear}},
	}})

	chevron := "▾"
	if !m.formOpen {
		chevron = "▸"
	}
	add(styleTitle.Render(chevron+" Add item"), hit{kind: hitFormTitle})
	if m.formOpen {
		add("  Product:  "+m.input.View(), hit{kind: hitProduct})
		platform := fmt.Sprintf("‹ %s ›", m.selectedPlatform())
		if m.focus == fieldPlatform {
			platform = styleChosen.Render(platform)
		}
		add("  Platform: "+platform, hit{kind: hitPlatform})
		addLabel := "[Add]"
		if m.adding {
			addLabel = "[Adding…]"
		}
		add("  "+styleButton.Render(addLabel), hit{spans: []span{
			{from: 2, to: 2 + runewidth.StringWidth(addLabel), hit: hit{kind: hitAdd}},
		}})
	}
	add("", hit{})

	if m.err != "" {
		add(styleError.Render(runewidth.Truncate(m.err+"  (esc)", w, "…")), hit{kind: hitError})
	}
	if m.notice != "" {
		add(styleMuted.Render(m.notice), hit{})
	}
	if m.loading {
		add(m.spinner.View()+" Loading…", hit{})
	}

	entryIdx := 0
	tree := m.tree()
	for gi, g := range tree.Groups {
		if gi > 0 {
			add("", hit{})
		}
		line, h := m.headerLine(g, w, entryIdx == m.cursor)
		h.entry = entryIdx
		entryIdx++
		add(maybeDim(line, dim), h)
		if !g.Expanded {
			continue
		}
		for _, it := range g.Items {
			line, h := m.itemLine(g, it, w, entryIdx == m.cursor)
			h.entry = entryIdx
			entryIdx++
			add(maybeDim(line, dim), h)
		}
	}
	if m.loaded && !m.loading && len(tree.Groups) == 0 {
		add(styleMuted.Render("The list is empty."), hit{})
	}

	switch m.confirm {
	case confirmDelete:
		add("", hit{})
		add(styleConfirm.Render("Delete this item? (y/n)"), hit{})
	case confirmClear:
		add("", hit{})
		add(styleConfirm.Render("Clear the entire list? This cannot be undone. (y/n)"), hit{})
	}

	if m.sheet.Visible() {
		add("", hit{})
		add(styleMuted.Render(strings.Repeat("─", w)), hit{kind: hitSheetTitle})
		add(styleTitle.Render("Edit marketplace"), hit{kind: hitSheetTitle})
		for i, p := range m.cfg.Platforms {
			label := "  " + p
			style := styleOption
			if i == m.sheetIdx {
				label = "› " + p
				style = styleChosen
			}
			add(style.Render(label), hit{kind: hitSheetOption, option: i})
		}
		add(styleButton.Render("[Cancel]"), hit{})
	}

	add("", hit{})
	add(m.helpLine(), hit{})
	return lines, hits
}

func maybeDim(line string, dim bool) string {
	if !dim {
		return line
	}
	return lipgloss.NewStyle().Faint(true).Render(line)
}

func (m Model) headerLine(g listview.GroupNode, w int, selected bool) (string, hit) {
	chevron := "▾"
	if !g.Expanded {
		chevron = "▸"
	}
	marker := " "
	if selected {
		marker = "›"
	}
	left := fmt.Sprintf("%s%s %s (%d)", marker, chevron, g.Platform, len(g.Items))

	var labels []string
	for _, b := range g.Toolbar {
		labels = append(labels, "["+b.Label+"]")
	}
	right := strings.Join(labels, " ") + " "
	room := w - runewidth.StringWidth(right)
	left = runewidth.FillRight(runewidth.Truncate(left, room, "…"), room)

	h := hit{kind: hitGroup, action: g.Header}
	col := room
	for i, b := range g.Toolbar {
		width := runewidth.StringWidth(labels[i])
		h.spans = append(h.spans, span{from: col, to: col + width, hit: hit{kind: hitGroup, action: b.Action}})
		col += width + 1
	}

	style := cardStyle(g.Color).Bold(true)
	return style.Render(left) + style.Render(right), h
}

func (m Model) itemLine(g listview.GroupNode, it listview.ItemNode, w int, selected bool) (string, hit) {
	cw := m.cfg.Interaction.CellWidth
	fb := m.feedback[it.SheetRow]

	marker := "  "
	if selected {
		marker = "› "
	}
	heart := "♡"
	if it.Picked {
		heart = "♥"
	}
	badge := ""
	if it.Picked {
		badge = "Picked "
	}

	const heartCols = 3
	textRoom := w - heartCols - runewidth.StringWidth(marker) - runewidth.StringWidth(badge)
	product := runewidth.FillRight(runewidth.Truncate(it.Product, textRoom, "…"), textRoom)

	card := cardStyle(g.Color)
	if m.fading[it.SheetRow] {
		card = card.Faint(true).Strikethrough(true)
	}

	h := hit{kind: hitItem, action: it.Swipe, toggle: it.Toggle}
	heartHit := h
	heartHit.heart = true
	h.spans = []span{{from: w - heartCols, to: w, hit: heartHit}}

	segments := []string{card.Render(marker)}
	if badge != "" {
		segments = append(segments, styleBadge.Render(strings.TrimSpace(badge)), card.Render(" "))
	}
	segments = append(segments, card.Render(product), card.Render(" "+heart+" "))
	body := strings.Join(segments, "")

	return shift(body, fb, cw, w, card), h
}

// shift draws drag feedback: the row slides by the offset and a leftward
// drag reveals the delete strip on the right.
func shift(body string, fb gesture.Feedback, cellWidth, w int, card lipgloss.Style) string {
	if cellWidth <= 0 || fb.Offset == 0 {
		return body
	}
	cells := fb.Offset / cellWidth
	if cells > 0 {
		return card.Render(strings.Repeat(" ", cells)) + lipgloss.NewStyle().MaxWidth(w-cells).Render(body)
	}
	strip := min(fb.DeleteWidth/cellWidth, w)
	if strip <= 0 {
		return body
	}
	label := runewidth.FillRight(runewidth.Truncate(" Delete", strip, ""), strip)
	return lipgloss.NewStyle().MaxWidth(w-strip).Render(body) + styleDelete.Render(label)
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch {
	case m.confirm != confirmNone:
		bindings = []key.Binding{keys.Yes, keys.No}
	case m.sheet.BackdropShown():
		bindings = []key.Binding{keys.Up, keys.Submit, keys.Dismiss}
	case m.focus != fieldNone:
		bindings = []key.Binding{keys.Next, keys.Submit, keys.Dismiss}
	default:
		bindings = keys.listHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styleButton.Render(h.Key)+" "+h.Desc)
	}
	return styleMuted.Render(strings.Join(parts, "  "))
}

func (m Model) View() string {
	lines, _ := m.layout()
	return strings.Join(lines, "\n")
}
