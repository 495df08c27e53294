// Package tui is the terminal frontend: platform cards with swipeable rows,
// an add form and the edit-marketplace sheet.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"poptique_list/internal/api"
	"poptique_list/internal/config"
	"poptique_list/internal/gesture"
	"poptique_list/internal/listview"
	"poptique_list/internal/shopping"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

type formField int

const (
	fieldNone formField = iota
	fieldProduct
	fieldPlatform
)

type writeOp int

const (
	opAdd writeOp = iota
	opClear
	opPicked
	opPlatform
	opDelete
	opMarkAll
)

func (o writeOp) String() string {
	switch o {
	case opAdd:
		return "add"
	case opClear:
		return "clear"
	case opPicked:
		return "picked"
	case opPlatform:
		return "platform"
	case opDelete:
		return "delete"
	case opMarkAll:
		return "mark all"
	default:
		return "unknown"
	}
}

type loadedMsg struct {
	groups []listview.Group
	err    error
}

type writeDoneMsg struct {
	op     writeOp
	row    int
	groups []listview.Group
	err    error
}

type sheetFrameMsg struct{}

type sheetSettleMsg struct{ at time.Time }

type deleteDueMsg struct{ row int }

type copiedMsg struct {
	items int
	err   error
}

type configMsg struct{ cfg config.File }

// dragState is the row a mouse press landed on; motion events follow it
// wherever the pointer goes until release.
type dragState struct {
	row     int
	onHeart bool
	toggle  listview.Action
}

type Model struct {
	ctx context.Context
	svc *shopping.Service
	cfg config.File

	groups   []listview.Group
	collapse listview.Collapse
	loading  bool
	loaded   bool
	err      string
	notice   string
	cursor   int

	spinner     spinner.Model
	input       textinput.Model
	formOpen    bool
	focus       formField
	platformIdx int
	adding      bool
	clearing    bool

	tracker  *gesture.Tracker
	drag     *dragState
	feedback map[int]gesture.Feedback

	sheet    *gesture.Sheet
	sheetIdx int

	confirm    confirmKind
	confirmRow int
	fading     map[int]bool

	width  int
	height int
}

func New(ctx context.Context, svc *shopping.Service, cfg config.File) Model {
	in := textinput.New()
	in.Placeholder = "Product name"
	in.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		svc:      svc,
		cfg:      cfg,
		loading:  true,
		spinner:  sp,
		input:    in,
		formOpen: true,
		tracker:  gesture.NewTracker(gesture.ThresholdsFrom(cfg.Interaction)),
		feedback: make(map[int]gesture.Feedback),
		sheet:    gesture.NewSheet(cfg.Interaction.Settle),
		fading:   make(map[int]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) busy() bool { return m.loading || m.adding || m.clearing }

func (m Model) loadCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		groups, err := svc.Load(ctx)
		return loadedMsg{groups: groups, err: err}
	}
}

// reload clears the error and the list, then fetches again.
func (m *Model) reload() tea.Cmd {
	m.err = ""
	m.loading = true
	m.groups = nil
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) writeCmd(op writeOp, row int, call func(ctx context.Context) ([]listview.Group, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		groups, err := call(ctx)
		return writeDoneMsg{op: op, row: row, groups: groups, err: err}
	}
}

func (m Model) applyCmd(a listview.Action) tea.Cmd {
	op := opMarkAll
	if a.Kind == listview.ActionSetPicked {
		op = opPicked
	}
	svc := m.svc
	return m.writeCmd(op, a.Row, func(ctx context.Context) ([]listview.Group, error) {
		return svc.Apply(ctx, a)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Load failed")
			m.err = errorText(msg.err, "Failed to load list.")
			return m, nil
		}
		m.setGroups(msg.groups)
		return m, nil
	case writeDoneMsg:
		return m.finishWrite(msg)
	case sheetFrameMsg:
		m.sheet.Frame()
		return m, nil
	case sheetSettleMsg:
		m.sheet.Advance(msg.at)
		return m, nil
	case deleteDueMsg:
		svc, row := m.svc, msg.row
		return m, m.writeCmd(opDelete, row, func(ctx context.Context) ([]listview.Group, error) {
			return svc.DeleteRow(ctx, row)
		})
	case copiedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("Failed to copy list")
			m.err = "Clipboard unavailable"
			return m, nil
		}
		m.notice = fmt.Sprintf("Copied %d items", msg.items)
		return m, nil
	case configMsg:
		m.applyConfig(msg.cfg)
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.confirm != confirmNone:
			return m.updateConfirmKey(msg)
		case m.sheet.BackdropShown():
			return m.updateSheetKey(msg)
		case m.focus != fieldNone:
			return m.updateFormKey(msg)
		default:
			return m.updateListKey(msg)
		}
	}

	if m.focus == fieldProduct {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// copyCmd puts the list on the system clipboard as plain text.
func (m Model) copyCmd() tea.Cmd {
	groups := m.groups
	return func() tea.Msg {
		err := clipboard.WriteAll(listview.FormatList(groups, false))
		return copiedMsg{items: listview.Count(groups), err: err}
	}
}

// applyConfig swaps in a reloaded config file. Gesture state in use keeps
// its old thresholds until it is idle.
func (m *Model) applyConfig(cfg config.File) {
	m.cfg = cfg
	if m.drag == nil {
		m.tracker = gesture.NewTracker(gesture.ThresholdsFrom(cfg.Interaction))
	}
	if m.sheet.State() == gesture.SheetClosed {
		m.sheet = gesture.NewSheet(cfg.Interaction.Settle)
	}
	if m.platformIdx >= len(cfg.Platforms) {
		m.platformIdx = 0
	}
	if m.sheetIdx >= len(cfg.Platforms) {
		m.sheetIdx = 0
	}
}

func (m *Model) setGroups(groups []listview.Group) {
	m.groups = groups
	m.loaded = true
	m.loading = false
	m.fading = make(map[int]bool)
	if n := len(m.entries()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) finishWrite(msg writeDoneMsg) (tea.Model, tea.Cmd) {
	// a failed reload still means the backend took the write
	accepted := msg.err == nil || errors.Is(msg.err, shopping.ErrReloadFailed)

	var cmd tea.Cmd
	switch msg.op {
	case opAdd:
		m.adding = false
		if accepted {
			m.input.SetValue("")
		}
	case opClear:
		m.clearing = false
	case opPlatform:
		if accepted {
			cmd = m.closeSheet()
		}
	case opDelete:
		if !accepted {
			delete(m.fading, msg.row)
		}
	}

	if msg.err != nil {
		log.Error().Err(msg.err).Stringer("op", msg.op).Bool("accepted", accepted).Msg("Write failed")
		m.err = errorText(msg.err, "Something went wrong.")
		return m, cmd
	}
	m.err = ""
	m.setGroups(msg.groups)
	return m, cmd
}

// errorText is the message shown for err. Wrapping context is dropped for
// the typed errors users can act on.
func errorText(err error, fallback string) string {
	switch {
	case errors.Is(err, shopping.ErrStaleRow):
		return "The list changed since it was loaded. Press r to refresh."
	case errors.Is(err, shopping.ErrEmptyProduct):
		return shopping.ErrEmptyProduct.Error()
	case errors.Is(err, shopping.ErrReloadFailed):
		return "Saved, but the list could not be reloaded. Press r to refresh."
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func (m *Model) openSheet(row int) tea.Cmd {
	if !m.sheet.Open(row, time.Now()) {
		return nil
	}
	m.sheetIdx = 0
	if item, ok := listview.Find(m.groups, row); ok {
		for i, p := range m.cfg.Platforms {
			if p == item.Platform {
				m.sheetIdx = i
				break
			}
		}
	}
	log.Debug().Int("row", row).Msg("Opening marketplace sheet")
	return tea.Batch(
		func() tea.Msg { return sheetFrameMsg{} },
		settleCmd(m.sheet.Settle()),
	)
}

func (m *Model) closeSheet() tea.Cmd {
	if !m.sheet.Close(time.Now()) {
		return nil
	}
	return settleCmd(m.sheet.Settle())
}

func settleCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return sheetSettleMsg{at: t} })
}

// chooseMarketplace saves the platform for the edited row. Choices are only
// taken once the sheet has settled open so the close that follows can start.
func (m Model) chooseMarketplace(idx int) tea.Cmd {
	row, ok := m.sheet.EditingRow()
	if !ok || m.sheet.State() != gesture.SheetOpen || idx < 0 || idx >= len(m.cfg.Platforms) {
		return nil
	}
	svc, platform := m.svc, m.cfg.Platforms[idx]
	return m.writeCmd(opPlatform, row, func(ctx context.Context) ([]listview.Group, error) {
		return svc.UpdatePlatform(ctx, row, platform)
	})
}

func (m *Model) askDelete(row int) {
	m.confirm = confirmDelete
	m.confirmRow = row
}

func (m *Model) askClear() {
	if m.clearing {
		return
	}
	m.confirm = confirmClear
}

// submitAdd adds the form's product. An empty name is reported without a request.
func (m *Model) submitAdd() tea.Cmd {
	if m.adding {
		return nil
	}
	product := strings.TrimSpace(m.input.Value())
	if product == "" {
		m.err = shopping.ErrEmptyProduct.Error()
		return nil
	}
	m.err = ""
	m.adding = true
	svc, platform := m.svc, m.selectedPlatform()
	return tea.Batch(m.spinner.Tick, m.writeCmd(opAdd, 0, func(ctx context.Context) ([]listview.Group, error) {
		return svc.Add(ctx, product, platform)
	}))
}

func (m Model) selectedPlatform() string {
	if m.platformIdx >= 0 && m.platformIdx < len(m.cfg.Platforms) {
		return m.cfg.Platforms[m.platformIdx]
	}
	return "eBay"
}

func (m *Model) focusForm(f formField) tea.Cmd {
	m.formOpen = true
	m.focus = f
	if f == fieldProduct {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) blurForm() {
	m.focus = fieldNone
	m.input.Blur()
}

func (m *Model) cyclePlatform(delta int) {
	n := len(m.cfg.Platforms)
	if n == 0 {
		return
	}
	m.platformIdx = ((m.platformIdx+delta)%n + n) % n
}

// Run starts the program with mouse motion reporting. When configPath is
// set, edits to it are applied while the program runs.
func Run(ctx context.Context, svc *shopping.Service, cfg config.File, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, svc, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if configPath != "" {
		err := config.Watch(ctx, configPath, func(f config.File) { p.Send(configMsg{cfg: f}) })
		if err != nil {
			log.Warn().Err(err).Msg("Config changes will not be picked up")
		}
	}
	_, err := p.Run()
	return err
}
