package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/waitwatch/internal/prefs"
	"github.com/five82/waitwatch/internal/state"
	"github.com/five82/waitwatch/internal/waitlist"
)

// Selector is the engine operation the UI invokes.
type Selector interface {
	SelectOption(ctx context.Context, id waitlist.ID) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Selector  Selector
	Feedback  *Feedback
	Endpoint  string
	PollEvery time.Duration
	ThemeName string
	Bell      bool
	PrefsPath string
}

const (
	flashDuration  = 700 * time.Millisecond
	noticeDuration = 2 * time.Second
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	store       *state.Store
	selector    Selector
	feedback    *Feedback
	changes     chan struct{}
	unsubscribe func()
	endpoint    string
	pollEvery   time.Duration
	prefsPath   string
	bellOut     io.Writer
	copyText    func(string) error

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	spinning bool
	width    int
	height   int
	ready    bool
	showHelp bool
	bell     bool

	// Data state
	snapshot    state.Snapshot
	options     []waitlist.Option
	cursor      int
	cursorMoved bool
	pending     bool // a select command has been issued but not finished

	// Alert and transient feedback
	alert      bool
	alertShown time.Time // Message.At of the last alert raised
	flash      bool
	flashSeq   int
	notice     string
	noticeSeq  int
}

// New creates a new Bubble Tea model and subscribes it to the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		selector:    opts.Selector,
		feedback:    opts.Feedback,
		changes:     make(chan struct{}, 1),
		unsubscribe: func() {},
		endpoint:    opts.Endpoint,
		pollEvery:   opts.PollEvery,
		prefsPath:   prefsPath,
		bellOut:     os.Stderr,
		copyText:    clipboard.WriteAll,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		bell:        opts.Bell,
		options:     waitlist.All(),
	}

	if m.store != nil {
		changes := m.changes
		m.unsubscribe = m.store.Subscribe(func(state.Snapshot) {
			// Coalesce: the UI re-reads the store, so one pending signal is enough.
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		// Init starts the spinner when this leaves it marked as spinning.
		_ = m.refreshSnapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes), waitForFeedback(m.feedback)}
	if m.spinning {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case storeChangedMsg:
		cmd := m.refreshSnapshot()
		return m, tea.Batch(waitForChange(m.changes), cmd)

	case selectDoneMsg:
		m.pending = false
		return m, nil

	case feedbackMsg:
		cmd := m.handleFeedback(bool(msg))
		return m, tea.Batch(waitForFeedback(m.feedback), cmd)

	case flashDoneMsg:
		if int(msg) == m.flashSeq {
			m.flash = false
		}
		return m, nil

	case noticeDoneMsg:
		if int(msg) == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// refreshSnapshot copies the latest store state into the model.
func (m *Model) refreshSnapshot() tea.Cmd {
	if m.store == nil {
		return nil
	}
	snap := m.store.Snapshot()
	m.snapshot = snap

	if !snap.Message.IsZero() && !snap.Message.At.Equal(m.alertShown) {
		m.alert = true
		m.alertShown = snap.Message.At
	}

	if !m.cursorMoved && snap.HasSelection() {
		if idx := m.indexOf(snap.Selected); idx >= 0 {
			m.cursor = idx
		}
	}

	if snap.Loading && !m.spinning {
		m.spinning = true
		return m.spinner.Tick
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// The status alert is modal until acknowledged.
	if m.alert {
		switch {
		case key.Matches(msg, m.keys.Dismiss):
			m.alert = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.cursorMoved = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
			m.cursorMoved = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.options) == 0 {
			return m, nil
		}
		return m.choose(m.options[m.cursor].ID)

	case key.Matches(msg, m.keys.Option):
		id := waitlist.ID(msg.Runes[0] - '0')
		if idx := m.indexOf(id); idx >= 0 {
			m.cursor = idx
			m.cursorMoved = true
		}
		return m.choose(id)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()

	case key.Matches(msg, m.keys.ToggleBell):
		m.bell = !m.bell
		label := "Bell off"
		if m.bell {
			label = "Bell on"
		}
		return m, tea.Batch(m.savePrefs(), m.setNotice(label))

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, tea.Batch(m.savePrefs(), m.setNotice("Theme: "+m.theme.Name))
	}

	return m, nil
}

// disabled reports whether selection is blocked by an in-flight push.
func (m Model) disabled() bool {
	return m.snapshot.Loading || m.pending
}

func (m Model) choose(id waitlist.ID) (tea.Model, tea.Cmd) {
	if m.disabled() || m.selector == nil {
		return m, nil
	}
	m.pending = true
	return m, selectCmd(m.ctx, m.selector, id)
}

func (m *Model) handleFeedback(success bool) tea.Cmd {
	if success {
		m.flash = true
		m.flashSeq++
		seq := m.flashSeq
		return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg(seq) })
	}
	if m.bell && m.bellOut != nil {
		_, _ = io.WriteString(m.bellOut, "\a")
	}
	return nil
}

func (m *Model) copySelection() tea.Cmd {
	if !m.snapshot.HasSelection() {
		return m.setNotice("Nothing selected yet")
	}
	text := "Current wait: " + m.snapshot.Selected.Label()
	if err := m.copyText(text); err != nil {
		return m.setNotice("Copy failed: " + err.Error())
	}
	return m.setNotice("Copied: " + m.snapshot.Selected.Label())
}

func (m *Model) savePrefs() tea.Cmd {
	bell := m.bell
	p := prefs.Prefs{Theme: m.theme.Name, Bell: &bell}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		return m.setNotice("Save prefs failed: " + err.Error())
	}
	return nil
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return noticeDoneMsg(seq) })
}

func (m Model) indexOf(id waitlist.ID) int {
	for i, opt := range m.options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

// Messages

type storeChangedMsg struct{}

type selectDoneMsg struct {
	id  waitlist.ID
	err error
}

type feedbackMsg bool

type flashDoneMsg int

type noticeDoneMsg int

// Commands

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func waitForFeedback(f *Feedback) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return feedbackMsg(<-f.ch)
	}
}

func selectCmd(ctx context.Context, sel Selector, id waitlist.ID) tea.Cmd {
	return func() tea.Msg {
		err := sel.SelectOption(ctx, id)
		return selectDoneMsg{id: id, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	ctx := m.ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled from outside (signal); not a UI failure.
		return nil
	}
	return err
}
