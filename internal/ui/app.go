package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/catalog"
	"github.com/jscyril/soundboard/internal/config"
	"github.com/jscyril/soundboard/internal/export"
	"github.com/jscyril/soundboard/internal/metronome"
	"github.com/jscyril/soundboard/internal/pads"
	"github.com/jscyril/soundboard/internal/ui/views"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
	"github.com/jscyril/soundboard/pkg/events"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewPads ViewType = iota
	ViewPicker
	ViewLoops
)

const (
	viewCount = 3
	tempoStep = 5
	padFlash  = 150 * time.Millisecond
)

// Controller is the soundboard core as seen by the UI
type Controller interface {
	api.Soundboard
	Pads() [pads.Count]*api.SoundItem
	Bus() *events.EventBus
}

// ScanFunc scans one directory into the catalog and makes its files loadable
type ScanFunc func(ctx context.Context, dir string) (added int, errs []error)

// Options configures the application model
type Options struct {
	Board     Controller
	Catalog   *catalog.Catalog
	Keys      config.KeyMap
	ExportDir string
	Scan      ScanFunc
}

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	// Current view
	activeView ViewType

	// Views
	transportView views.TransportView
	padsView      views.PadsView
	pickerView    views.PickerView
	loopsView     views.LoopsView
	help          help.Model
	keys          KeyMap

	// Components
	board     Controller
	events    <-chan api.Event
	exportDir string
	scan      ScanFunc

	// State
	status   api.Status
	litUntil time.Time
	notice   string
	ctx      context.Context
	cancel   context.CancelFunc
	err      error

	// Styles
	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	noticeStyle    lipgloss.Style
	errorStyle     lipgloss.Style
}

// TickMsg is sent periodically to refresh the countdown
type TickMsg time.Time

// BusMsg carries one event from the core
type BusMsg struct {
	Event api.Event
}

// ExportDoneMsg reports a finished export
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ScanDoneMsg reports a finished directory scan
type ScanDoneMsg struct {
	Path  string
	Added int
	Errs  []error
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		width:      80,
		height:     24,
		activeView: ViewPads,
		help:       help.New(),
		keys:       NewKeyMap(opts.Keys),
		board:      opts.Board,
		events:     opts.Board.Bus().SubscribeAll(),
		exportDir:  opts.ExportDir,
		scan:       opts.Scan,
		ctx:        ctx,
		cancel:     cancel,
		tabStyle: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("240")),
		activeTabStyle: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("236")),
		noticeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}

	m.transportView = views.NewTransportView(m.width, 7)
	m.padsView = views.NewPadsView(m.width, m.height-12)
	m.pickerView = views.NewPickerView(opts.Catalog, m.width, m.height-10)
	if opts.Keys.Search != "" {
		m.pickerView.SearchKey = opts.Keys.Search
	}
	if opts.Keys.Category != "" {
		m.pickerView.CategoryKey = opts.Keys.Category
	}
	m.loopsView = views.NewLoopsView(m.width, m.height-10)
	m.refresh()

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.listenForEvents(),
	)
}

// tickCmd returns a command that ticks every 100ms, the countdown resolution
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// listenForEvents returns a command that waits for the next core event
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-m.events:
			if !ok {
				return nil
			}
			return BusMsg{Event: event}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// refresh pulls a fresh snapshot from the core into the views
func (m *Model) refresh() {
	m.status = m.board.Status()
	m.transportView.SetStatus(m.status)
	m.padsView.Slots = m.board.Pads()
	m.loopsView.SetLoops(m.status.Loops, m.status.PlayingIndex)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()

	case TickMsg:
		if m.padsView.Lit >= 0 && time.Time(msg).After(m.litUntil) {
			m.padsView.Lit = -1
		}
		m.refresh()
		cmds = append(cmds, tickCmd())

	case BusMsg:
		m.handleEvent(msg.Event)
		m.refresh()
		if msg.Event.Type == api.EventLoopStored {
			m.loopsView.SelectLast()
		}
		cmds = append(cmds, m.listenForEvents())

	case views.AssignMsg:
		if err := m.board.AssignPad(msg.Pad, msg.SoundID); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.activeView = ViewPads
		}
		m.refresh()

	case views.ScanDirMsg:
		m.notice = fmt.Sprintf("Scanning %s...", msg.Path)
		cmds = append(cmds, m.scanCmd(msg.Path))

	case ScanDoneMsg:
		m.pickerView.Refresh()
		m.notice = fmt.Sprintf("Added %d sounds from %s", msg.Added, msg.Path)
		m.err = errors.Join(msg.Errs...)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.err = nil
			m.notice = "Exported " + msg.Path
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		if m.activeView == ViewPicker {
			var cmd tea.Cmd
			m.pickerView, cmd = m.pickerView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(e api.Event) {
	switch e.Type {
	case api.EventTick:
		m.transportView.Beat = !m.transportView.Beat
	case api.EventPadHit:
		id, _ := e.Payload.(string)
		for i, item := range m.board.Pads() {
			if item != nil && item.ID == id {
				m.flash(i)
				break
			}
		}
	case api.EventError:
		if err, ok := e.Payload.(error); ok {
			m.err = err
		}
	}
}

func (m *Model) flash(pad int) {
	m.padsView.Lit = pad
	m.litUntil = time.Now().Add(padFlash)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	// text entry and the folder browser get every key
	if m.activeView == ViewPicker && m.pickerView.Capturing() {
		var cmd tea.Cmd
		m.pickerView, cmd = m.pickerView.Update(msg)
		return m, cmd
	}

	// the first key of the session is the gesture that brings audio up
	if !m.status.Ready {
		if err := m.board.Unlock(); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		m.refresh()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		m.activeView = (m.activeView + 1) % viewCount
		if m.activeView == ViewPicker {
			m.pickerView.Open(m.padsView.Selected)
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.activeView = ViewPads
		return m, nil
	}

	if m.activeView == ViewPicker {
		var cmd tea.Cmd
		m.pickerView, cmd = m.pickerView.Update(msg)
		return m, cmd
	}

	if pad, ok := pads.ForKey(strings.ToLower(msg.String())); ok {
		m.report(m.board.HitPad(pad))
		m.flash(pad)
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Record):
		switch m.status.State {
		case api.StatePreRoll, api.StateRecording:
			m.report(m.board.StopRecording())
		default:
			m.report(m.board.BeginRecording())
		}

	case key.Matches(msg, m.keys.Play):
		m.togglePlayback()

	case key.Matches(msg, m.keys.Export):
		cmd = m.exportCmd(m.loopsView.Selected)

	case key.Matches(msg, m.keys.Metronome):
		m.report(m.board.SetMetronomeEnabled(!m.status.MetronomeEnabled))

	case key.Matches(msg, m.keys.TempoUp):
		m.report(m.board.SetTempo(min(m.status.BPM+tempoStep, metronome.MaxBPM)))

	case key.Matches(msg, m.keys.TempoDown):
		m.report(m.board.SetTempo(max(m.status.BPM-tempoStep, metronome.MinBPM)))

	case key.Matches(msg, m.keys.Duration):
		next := 8
		if m.status.LoopDuration == 8 {
			next = 4
		}
		m.report(m.board.SetLoopDuration(next))

	case key.Matches(msg, m.keys.Assign) && m.activeView == ViewPads:
		m.activeView = ViewPicker
		m.pickerView.Open(m.padsView.Selected)

	case key.Matches(msg, m.keys.Assign) && m.activeView == ViewLoops:
		m.togglePlayback()

	case key.Matches(msg, m.keys.Clear) && m.activeView == ViewPads:
		m.report(m.board.AssignPad(m.padsView.Selected, ""))

	default:
		switch m.activeView {
		case ViewPads:
			m.padsView, cmd = m.padsView.Update(msg)
		case ViewLoops:
			m.loopsView, cmd = m.loopsView.Update(msg)
		}
	}

	m.refresh()
	return m, cmd
}

// togglePlayback plays the selected loop, or stops it when it is the one playing
func (m *Model) togglePlayback() {
	if m.status.State == api.StatePlayback {
		playing := m.status.PlayingIndex
		m.report(m.board.StopStoredLoopPlayback())
		if playing == m.loopsView.Selected {
			return
		}
	}
	m.report(m.board.PlayStoredLoop(m.loopsView.Selected))
}

func (m *Model) report(err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
}

func (m Model) exportCmd(index int) tea.Cmd {
	if len(m.status.Loops) == 0 {
		return func() tea.Msg { return ExportDoneMsg{Err: sberrors.ErrLoopNotFound} }
	}
	board, dir := m.board, m.exportDir
	return func() tea.Msg {
		file, err := board.ExportLoop(index)
		if err != nil {
			return ExportDoneMsg{Err: fmt.Errorf("export loop: %w", err)}
		}
		path, err := export.WriteFile(dir, file)
		if err != nil {
			return ExportDoneMsg{Err: fmt.Errorf("write export: %w", err)}
		}
		return ExportDoneMsg{Path: path}
	}
}

func (m Model) scanCmd(dir string) tea.Cmd {
	scan, ctx := m.scan, m.ctx
	if scan == nil {
		return nil
	}
	return func() tea.Msg {
		added, errs := scan(ctx, dir)
		return ScanDoneMsg{Path: dir, Added: added, Errs: errs}
	}
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.transportView.Width = m.width
	m.padsView.Width = m.width
	m.padsView.Height = m.height - 12
	m.pickerView.Width = m.width
	m.pickerView.Height = m.height - 10
	m.loopsView.Width = m.width
	m.loopsView.Height = m.height - 10
	m.help.Width = m.width
	m.transportView.SetStatus(m.status)
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	// Header with tabs
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")

	sb.WriteString(m.transportView.View())
	sb.WriteString("\n")

	switch m.activeView {
	case ViewPads:
		sb.WriteString(m.padsView.View())
	case ViewPicker:
		sb.WriteString(m.pickerView.View())
	case ViewLoops:
		sb.WriteString(m.loopsView.View())
	}
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(m.errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		sb.WriteString("\n")
	} else if m.notice != "" {
		sb.WriteString(m.noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	tabs := []string{"Pads", "Sounds", "Loops"}

	var rendered []string
	for i, tab := range tabs {
		if ViewType(i) == m.activeView {
			rendered = append(rendered, m.activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, m.tabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Run starts the bubbletea program
func Run(opts Options) error {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	model.cancel()
	opts.Board.Bus().Unsubscribe(model.events)
	return err
}
