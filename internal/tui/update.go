package tui

import (
	"context"
	"time"

	"poptique_list/internal/gesture"
	"poptique_list/internal/listview"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// entry is one cursor stop: a card header or a visible item.
type entry struct {
	group listview.GroupNode
	item  *listview.ItemNode
}

func (m Model) tree() listview.Tree {
	return listview.Render(m.groups, m.collapse, m.cfg.Color)
}

func (m Model) entries() []entry {
	var out []entry
	for _, g := range m.tree().Groups {
		out = append(out, entry{group: g})
		if !g.Expanded {
			continue
		}
		for i := range g.Items {
			out = append(out, entry{group: g, item: &g.Items[i]})
		}
	}
	return out
}

func (m Model) current() (entry, bool) {
	es := m.entries()
	if m.cursor < 0 || m.cursor >= len(es) {
		return entry{}, false
	}
	return es[m.cursor], true
}

func (m Model) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.entries())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		e, ok := m.current()
		if !ok {
			return m, nil
		}
		if e.item == nil {
			m.collapse.Toggle(e.group.Platform)
			return m, nil
		}
		svc, row := m.svc, e.item.SheetRow
		return m, m.writeCmd(opPicked, row, func(ctx context.Context) ([]listview.Group, error) {
			return svc.TogglePicked(ctx, row)
		})
	case key.Matches(msg, keys.Edit):
		if e, ok := m.current(); ok && e.item != nil {
			cmd := m.openSheet(e.item.SheetRow)
			return m, cmd
		}
	case key.Matches(msg, keys.Delete):
		if e, ok := m.current(); ok && e.item != nil {
			m.askDelete(e.item.SheetRow)
		}
	case key.Matches(msg, keys.MarkPicked):
		if e, ok := m.current(); ok {
			return m, m.applyCmd(e.group.Toolbar[0].Action)
		}
	case key.Matches(msg, keys.MarkUnpicked):
		if e, ok := m.current(); ok {
			return m, m.applyCmd(e.group.Toolbar[1].Action)
		}
	case key.Matches(msg, keys.Add):
		cmd := m.focusForm(fieldProduct)
		return m, cmd
	case key.Matches(msg, keys.Form):
		m.formOpen = !m.formOpen
	case key.Matches(msg, keys.Refresh):
		cmd := m.reload()
		return m, cmd
	case key.Matches(msg, keys.Clear):
		m.askClear()
	case key.Matches(msg, keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, keys.Dismiss):
		m.err = ""
	}
	return m, nil
}

func (m Model) updateFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Dismiss):
		m.blurForm()
		return m, nil
	case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
		if m.focus == fieldProduct {
			cmd := m.focusForm(fieldPlatform)
			return m, cmd
		}
		cmd := m.focusForm(fieldProduct)
		return m, cmd
	case key.Matches(msg, keys.Submit):
		cmd := m.submitAdd()
		return m, cmd
	}

	if m.focus == fieldPlatform {
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
			m.cyclePlatform(-1)
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down), msg.String() == " ":
			m.cyclePlatform(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		kind, row := m.confirm, m.confirmRow
		m.confirm, m.confirmRow = confirmNone, 0
		switch kind {
		case confirmDelete:
			m.fading[row] = true
			return m, tea.Tick(m.cfg.Interaction.DeleteFade, func(time.Time) tea.Msg { return deleteDueMsg{row: row} })
		case confirmClear:
			m.clearing = true
			svc := m.svc
			return m, tea.Batch(m.spinner.Tick, m.writeCmd(opClear, 0, svc.ClearList))
		}
	case key.Matches(msg, keys.No):
		m.confirm, m.confirmRow = confirmNone, 0
	}
	return m, nil
}

func (m Model) updateSheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Dismiss), key.Matches(msg, keys.Quit):
		cmd := m.closeSheet()
		return m, cmd
	case key.Matches(msg, keys.Up):
		if m.sheetIdx > 0 {
			m.sheetIdx--
		}
	case key.Matches(msg, keys.Down):
		if m.sheetIdx < len(m.cfg.Platforms)-1 {
			m.sheetIdx++
		}
	case key.Matches(msg, keys.Submit):
		if m.sheet.Visible() {
			return m, m.chooseMarketplace(m.sheetIdx)
		}
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := msg.X * m.cfg.Interaction.CellWidth

	switch msg.Action {
	case tea.MouseActionPress:
		// a release can be lost outside the window; drop that drag first
		m.cancelDrag()
		if msg.Button != tea.MouseButtonLeft || m.confirm != confirmNone {
			return m, nil
		}
		_, hits := m.layout()
		var h hit
		if msg.Y >= 0 && msg.Y < len(hits) {
			h = hits[msg.Y].at(msg.X)
		}
		return m.press(h, x)

	case tea.MouseActionMotion:
		if m.drag == nil || !m.tracker.Active(m.drag.row) {
			return m, nil
		}
		m.feedback[m.drag.row] = m.tracker.Move(m.drag.row, x)

	case tea.MouseActionRelease:
		if m.drag == nil {
			return m, nil
		}
		d := *m.drag
		m.drag = nil
		s, _ := m.tracker.Session(d.row)
		outcome, _ := m.tracker.End(d.row)
		delete(m.feedback, d.row)

		switch outcome {
		case gesture.OutcomeEditPlatform:
			cmd := m.openSheet(d.row)
			return m, cmd
		case gesture.OutcomeConfirmDelete:
			m.askDelete(d.row)
		default:
			if d.onHeart && !s.Swiping {
				return m, m.applyCmd(d.toggle)
			}
		}
	}
	return m, nil
}

func (m Model) press(h hit, x int) (tea.Model, tea.Cmd) {
	if m.sheet.BackdropShown() {
		switch h.kind {
		case hitSheetOption:
			if m.sheet.Visible() {
				m.sheetIdx = h.option
				return m, m.chooseMarketplace(h.option)
			}
			return m, nil
		case hitSheetTitle:
			return m, nil
		default:
			// anywhere else is the backdrop
			cmd := m.closeSheet()
			return m, cmd
		}
	}

	switch h.kind {
	case hitFormTitle:
		m.formOpen = !m.formOpen
		if !m.formOpen {
			m.blurForm()
		}
	case hitProduct:
		cmd := m.focusForm(fieldProduct)
		return m, cmd
	case hitPlatform:
		m.cyclePlatform(1)
		cmd := m.focusForm(fieldPlatform)
		return m, cmd
	case hitAdd:
		cmd := m.submitAdd()
		return m, cmd
	case hitRefresh:
		cmd := m.reload()
		return m, cmd
	case hitClear:
		m.askClear()
	case hitError:
		m.err = ""
	case hitGroup:
		m.blurForm()
		switch h.action.Kind {
		case listview.ActionToggleGroup:
			m.collapse.Toggle(h.action.Platform)
		case listview.ActionMarkAllPicked, listview.ActionMarkAllUnpicked:
			return m, m.applyCmd(h.action)
		}
	case hitItem:
		m.blurForm()
		m.cursor = h.entry
		m.tracker.Start(h.action.Row, x)
		m.drag = &dragState{row: h.action.Row, onHeart: h.heart, toggle: h.toggle}
	}
	return m, nil
}

func (m *Model) cancelDrag() {
	if m.drag == nil {
		return
	}
	m.tracker.Cancel(m.drag.row)
	delete(m.feedback, m.drag.row)
	m.drag = nil
}
