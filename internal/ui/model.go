package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/eldlog/internal/config"
	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/files"
	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/logging"
	"github.com/faizmokh/eldlog/internal/logsheet"
	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/render"
)

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx    context.Context
	reader *logbook.Reader
	writer *logbook.Writer
	cfg    *config.Config
	rows   logsheet.RowMap
	theme  render.Theme
	now    func() time.Time

	currentDate time.Time
	day         logbook.Day
	sheet       logsheet.Sheet
	selected    int

	mode               mode
	input              textinput.Model
	inputLabel         string
	editingIndex       int
	selectLast         bool
	pendingSelectIndex int

	keys        keyMap
	help        help.Model
	sidebarOpen bool

	loading    bool
	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeStatus
	modeEdit
	modeConfirmDelete
)

// Option customises a Model.
type Option func(*Model)

// WithConfig sets the driver, carrier and timezone settings.
func WithConfig(cfg *config.Config) Option {
	return func(m *Model) {
		if cfg != nil {
			m.cfg = cfg
		}
	}
}

// WithTheme overrides the render theme.
func WithTheme(theme render.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRows overrides the row each duty status is drawn on.
func WithRows(rows logsheet.RowMap) Option {
	return func(m *Model) {
		if rows != nil {
			m.rows = rows
		}
	}
}

type dayLoadedMsg struct {
	date    time.Time
	day     logbook.Day
	history []logbook.Day
	err     error
}

type statusResultMsg struct {
	entry logbook.Entry
	err   error
}

type endResultMsg struct {
	entry logbook.Entry
	err   error
}

type editResultMsg struct {
	index int
	err   error
}

type deleteResultMsg struct {
	index int
	entry logbook.Entry
	err   error
}

// NewModel seeds a Bubble Tea model with required collaborators.
func NewModel(ctx context.Context, manager *files.Manager, opts ...Option) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256

	m := Model{
		ctx:                ctx,
		cfg:                config.Default(),
		rows:               logsheet.DefaultRows(),
		theme:              render.DefaultTheme(),
		now:                time.Now,
		input:              input,
		keys:               defaultKeyMap(),
		help:               help.New(),
		mode:               modeNormal,
		editingIndex:       -1,
		pendingSelectIndex: -1,
		loading:            true,
		statusLine:         "Loading today's log...",
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.reader = logbook.NewReader(manager)
	m.writer = logbook.NewWriter(manager, logbook.WithCarryDays(m.cfg.CarryDays))
	m.currentDate = logbook.StartOfDay(m.clock())
	m.day = logbook.Day{Date: m.currentDate}
	m.sheet = logsheet.Build(m.day, nil, m.cfg, m.rows, m.clock())
	return m
}

// Init loads the initial day.
func (m Model) Init() tea.Cmd {
	return m.loadDayCmd(m.currentDate)
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case dayLoadedMsg:
		return m.handleDayLoaded(msg)
	case statusResultMsg:
		return m.handleStatusResult(msg)
	case endResultMsg:
		return m.handleEndResult(msg)
	case editResultMsg:
		return m.handleEditResult(msg)
	case deleteResultMsg:
		return m.handleDeleteResult(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.day.Entries)-1 {
			m.selected++
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.day.Entries))
			m.errorLine = ""
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 && len(m.day.Entries) > 0 {
			m.selected--
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.day.Entries))
			m.errorLine = ""
		}
	case key.Matches(msg, m.keys.Prev):
		return m.gotoDate(m.currentDate.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Next):
		return m.gotoDate(m.currentDate.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Today):
		return m.gotoDate(logbook.StartOfDay(m.clock()))
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Status):
		return m.beginStatus()
	case key.Matches(msg, m.keys.End):
		return m.endPeriod()
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Delete):
		return m.beginDelete()
	case key.Matches(msg, m.keys.Sidebar):
		m.sidebarOpen = !m.sidebarOpen
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeStatus, modeEdit:
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitInput()
		case tea.KeyEsc:
			return m.cancelInput("Cancelled.")
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			return m.confirmDelete()
		case "n", "N", "esc":
			return m.cancelInput("Delete cancelled.")
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) beginStatus() (tea.Model, tea.Cmd) {
	m.mode = modeStatus
	m.editingIndex = -1
	m.input.SetValue("")
	m.inputLabel = "Change duty status (!off|!sb|!driving|!on, optional @HH:MM, remarks, | location; Enter to save, Esc to cancel):"
	m.statusLine = ""
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if len(m.day.Entries) == 0 || m.loading {
		return m, nil
	}

	index := m.selected
	m.mode = modeEdit
	m.editingIndex = index
	m.input.SetValue(entryToInput(m.day.Entries[index]))
	m.input.CursorEnd()
	m.inputLabel = fmt.Sprintf("Edit entry %d (!status, @HH:MM-HH:MM or @HH:MM- for running, remarks, | location):", index+1)
	m.statusLine = ""
	m.errorLine = ""
	return m, m.input.Focus()
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	if len(m.day.Entries) == 0 || m.loading {
		return m, nil
	}

	m.mode = modeConfirmDelete
	m.editingIndex = m.selected
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeStatus:
		parsed, err := parseInputLine(m.input.Value(), m.currentDate)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		if parsed.status == nil {
			m.errorLine = "Status is required (e.g. !driving)."
			return m, nil
		}
		if parsed.end != nil || parsed.open {
			m.errorLine = "A status change takes a single @HH:MM."
			return m, nil
		}
		at := m.clockOnCurrentDate()
		if parsed.start != nil {
			at = *parsed.start
		}
		cmd := m.changeStatusCmd(at, *parsed.status, parsed.remarks, parsed.location)
		m = m.resetInput()
		m.statusLine = fmt.Sprintf("Changing status to %s...", parsed.status.Label())
		m.selectLast = true
		return m, cmd
	case modeEdit:
		if m.editingIndex < 0 || m.editingIndex >= len(m.day.Entries) {
			return m.cancelInput("No entry selected.")
		}
		original := m.day.Entries[m.editingIndex]
		parsed, err := parseInputLine(m.input.Value(), m.currentDate)
		if err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		index := m.editingIndex
		cmd := m.editEntryCmd(m.currentDate, index, parsed.apply(original))
		m = m.resetInput()
		m.statusLine = "Updating entry..."
		m.pendingSelectIndex = index
		return m, cmd
	default:
		return m, nil
	}
}

func (m Model) resetInput() Model {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
	m.inputLabel = ""
	m.editingIndex = -1
	m.errorLine = ""
	return m
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m = m.resetInput()
	m.selectLast = false
	m.pendingSelectIndex = -1
	if message != "" {
		m.statusLine = message
	}
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	if m.editingIndex < 0 || m.editingIndex >= len(m.day.Entries) {
		return m.cancelInput("No entry selected.")
	}
	index := m.editingIndex
	cmd := m.deleteEntryCmd(m.currentDate, index)
	m = m.resetInput()
	m.statusLine = "Deleting entry..."
	return m, cmd
}

func (m Model) endPeriod() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.statusLine = "Ending duty period..."
	m.errorLine = ""
	return m, m.endCmd(m.clockOnCurrentDate())
}

func (m Model) handleDayLoaded(msg dayLoadedMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results for dates we no longer display.
	if !logbook.SameDay(m.currentDate, msg.date) {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load %s: %v", msg.date.Format("2006-01-02"), msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	day := msg.day
	if day.Date.IsZero() {
		day.Date = logbook.StartOfDay(msg.date)
	}
	m.day = day
	m.sheet = logsheet.Build(day, msg.history, m.cfg, m.rows, m.clock())

	count := len(day.Entries)
	switch {
	case count == 0:
		m.selected = 0
		m.statusLine = fmt.Sprintf("%s has no entries.", msg.date.Format("2006-01-02"))
	case m.selectLast:
		m.selected = count - 1
	case m.pendingSelectIndex >= 0:
		m.selected = min(m.pendingSelectIndex, count-1)
	case m.selected >= count:
		m.selected = count - 1
	}
	if count > 0 {
		m.statusLine = fmt.Sprintf("Loaded %d entr%s.", count, plural(count))
	}
	m.selectLast = false
	m.pendingSelectIndex = -1
	return m, nil
}

func (m Model) handleStatusResult(msg statusResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Status change failed: %v", msg.err)
		m.statusLine = ""
		m.selectLast = false
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("%s since %s.", msg.entry.Status.Label(), msg.entry.Start.Format("15:04"))
	m.loading = true
	return m, m.loadDayCmd(m.currentDate)
}

func (m Model) handleEndResult(msg endResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, logbook.ErrNoOpenEntry) {
			m.errorLine = "No duty period is running."
		} else {
			m.errorLine = fmt.Sprintf("End failed: %v", msg.err)
		}
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Closed %s at %s.", msg.entry.Status.Label(), msg.entry.End.Format("15:04"))
	m.loading = true
	return m, m.loadDayCmd(m.currentDate)
}

func (m Model) handleEditResult(msg editResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Edit failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Updated entry %d.", msg.index+1)
	m.loading = true
	m.pendingSelectIndex = msg.index
	return m, m.loadDayCmd(m.currentDate)
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Delete failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Deleted entry %d (%s).", msg.index+1, msg.entry.Status.Label())
	m.loading = true
	m.pendingSelectIndex = msg.index
	return m, m.loadDayCmd(m.currentDate)
}

func (m Model) gotoDate(date time.Time) (tea.Model, tea.Cmd) {
	date = logbook.StartOfDay(date)
	if logbook.SameDay(m.currentDate, date) {
		return m.reload()
	}

	m.currentDate = date
	m.day = logbook.Day{Date: date}
	m.sheet = logsheet.Build(m.day, nil, m.cfg, m.rows, m.clock())
	m.selected = 0
	m.loading = true
	m = m.resetInput()
	m.statusLine = fmt.Sprintf("Loading %s...", date.Format("2006-01-02"))
	m.pendingSelectIndex = -1
	m.selectLast = false
	return m, m.loadDayCmd(date)
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusLine = fmt.Sprintf("Refreshing %s...", m.currentDate.Format("2006-01-02"))
	m.errorLine = ""
	return m, m.loadDayCmd(m.currentDate)
}

func (m Model) clock() time.Time {
	return m.now().In(m.cfg.Location())
}

// clockOnCurrentDate is the wall-clock time pinned to the displayed date.
func (m Model) clockOnCurrentDate() time.Time {
	now := m.clock()
	d := m.currentDate
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, d.Location())
}

func (m Model) loadDayCmd(date time.Time) tea.Cmd {
	reader := m.reader
	ctx := m.ctx
	return func() tea.Msg {
		history, err := reader.DaysBetween(ctx, recap.Window(date), date)
		if err != nil {
			return dayLoadedMsg{date: date, err: err}
		}
		day, err := reader.Day(ctx, date)
		if err != nil {
			if errors.Is(err, logbook.ErrDayNotFound) {
				return dayLoadedMsg{date: date, day: logbook.Day{Date: logbook.StartOfDay(date)}, history: history}
			}
			return dayLoadedMsg{date: date, err: err}
		}
		return dayLoadedMsg{date: date, day: day, history: history}
	}
}

func (m Model) changeStatusCmd(at time.Time, status duty.Status, remarks, location string) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		entry, err := writer.ChangeStatus(ctx, at, status, remarks, location)
		if err != nil {
			logging.From(ctx).Warn().Err(err).Str("status", string(status)).Msg("status change failed")
		}
		return statusResultMsg{entry: entry, err: err}
	}
}

func (m Model) endCmd(at time.Time) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		entry, err := writer.End(ctx, at)
		return endResultMsg{entry: entry, err: err}
	}
}

func (m Model) editEntryCmd(date time.Time, index int, entry logbook.Entry) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		if err := writer.Edit(ctx, date, index+1, entry); err != nil {
			logging.From(ctx).Warn().Err(err).Int("index", index+1).Msg("edit failed")
			return editResultMsg{index: index, err: err}
		}
		return editResultMsg{index: index}
	}
}

func (m Model) deleteEntryCmd(date time.Time, index int) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		entry, err := writer.Delete(ctx, date, index+1)
		return deleteResultMsg{index: index, entry: entry, err: err}
	}
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
