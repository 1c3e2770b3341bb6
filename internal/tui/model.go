package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"github.com/glabrego/sponsored-cli/internal/page"
	tuitheme "github.com/glabrego/sponsored-cli/internal/tui/theme"
	"github.com/glabrego/sponsored-cli/internal/tui/view"
	"github.com/glabrego/sponsored-cli/internal/widget"
)

const (
	defaultCellWidth  = 8
	defaultLineHeight = 20
)

type clearStatusMsg struct {
	id int
}

// Options configures the conversion from terminal cells to the logical
// pixels the widget thresholds are expressed in.
type Options struct {
	CellWidth  int
	LineHeight int
	Logger     logr.Logger
}

// Model is the host page with the sponsored widget docked below it.
type Model struct {
	ctrl  *widget.Controller
	resp  *widget.Responsive
	board *view.Board
	theme tuitheme.Theme
	doc   page.Document

	viewport viewport.Model
	spinner  spinner.Model

	cellWidth  int
	lineHeight int
	width      int
	height     int
	started    bool
	showHelp   bool
	status     string
	statusID   int
	log        logr.Logger
}

// NewModel wires the controller and board to the host document.
func NewModel(ctrl *widget.Controller, resp *widget.Responsive, board *view.Board, doc page.Document, opts Options) Model {
	if opts.CellWidth < 1 {
		opts.CellWidth = defaultCellWidth
	}
	if opts.LineHeight < 1 {
		opts.LineHeight = defaultLineHeight
	}
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		ctrl:       ctrl,
		resp:       resp,
		board:      board,
		theme:      tuitheme.Default(),
		doc:        doc,
		viewport:   viewport.New(0, 0),
		spinner:    sp,
		cellWidth:  opts.CellWidth,
		lineHeight: opts.LineHeight,
		log:        logger.WithName("tui"),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		before := m.viewport.YOffset
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		model, scrollCmd := m.afterScroll(before)
		return model, tea.Batch(cmd, scrollCmd)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	cmd, _ := m.ctrl.Update(msg)
	return m.afterWidget(cmd)
}

func (m Model) resize(width, height int) (tea.Model, tea.Cmd) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.SetContent(strings.Join(m.doc.Lines(width), "\n"))

	logical := width * m.cellWidth
	var cmd tea.Cmd
	if !m.started {
		m.started = true
		m.resp.SetWidth(logical)
		m.log.V(1).Info("starting widget", "width", logical, "mode", m.resp.Mode().String())
		cmd = m.ctrl.Start()
	} else {
		cmd = m.resp.Resize(logical)
	}
	return m.afterWidget(cmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m.afterWidget(nil)
	case "esc":
		if m.showHelp {
			m.showHelp = false
		}
		return m.afterWidget(nil)
	case "tab", "right":
		m.board.MoveFocus(1)
		return m, nil
	case "shift+tab", "left":
		m.board.MoveFocus(-1)
		return m, nil
	case "enter", "o":
		card, ok := m.board.Focused()
		if !ok || card.State != view.SlotReady {
			return m, nil
		}
		return m, m.ctrl.Open(card.Slot)
	case "x":
		return m.dismissFocused()
	case "r":
		return m.retry()
	case "t":
		return m.afterWidget(m.resp.Toggle())
	case "g", "home":
		m.viewport.GotoTop()
		return m.afterScroll(-1)
	case "G", "end":
		m.viewport.GotoBottom()
		return m.afterScroll(-1)
	}

	before := m.viewport.YOffset
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	model, scrollCmd := m.afterScroll(before)
	return model, tea.Batch(cmd, scrollCmd)
}

// afterScroll reports the page position to the widget when the offset
// moved away from before. A negative before always reports.
func (m Model) afterScroll(before int) (tea.Model, tea.Cmd) {
	if before >= 0 && m.viewport.YOffset == before {
		return m, nil
	}
	return m.afterWidget(m.resp.Scroll(m.scrollEvent()))
}

func (m Model) scrollEvent() widget.ScrollEvent {
	return widget.ScrollEvent{
		Offset:         m.viewport.YOffset * m.lineHeight,
		ViewportHeight: m.viewport.Height * m.lineHeight,
		PageHeight:     m.viewport.TotalLineCount() * m.lineHeight,
	}
}

func (m Model) dismissFocused() (tea.Model, tea.Cmd) {
	card, ok := m.board.Focused()
	if !ok {
		return m, nil
	}
	if m.ctrl.FailedSlot(card.Slot) {
		cmd, err := m.ctrl.RetrySlot(card.Slot)
		return m.replaceResult(cmd, err)
	}
	rec, ok := m.ctrl.ItemAt(card.Slot)
	if !ok {
		return m, nil
	}
	cmd, err := m.ctrl.Replace(card.Slot, rec)
	return m.replaceResult(cmd, err)
}

func (m Model) replaceResult(cmd tea.Cmd, err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		return m.afterWidget(cmd)
	case errors.Is(err, widget.ErrDuplicateReplacement):
		return m, nil
	default:
		m.log.Error(err, "dismiss recommendation failed")
		return m, nil
	}
}

func (m Model) retry() (tea.Model, tea.Cmd) {
	if card, ok := m.board.Focused(); ok && m.ctrl.FailedSlot(card.Slot) {
		cmd, err := m.ctrl.RetrySlot(card.Slot)
		return m.replaceResult(cmd, err)
	}
	return m.afterWidget(m.ctrl.Retry())
}

// afterWidget relayouts for the current widget height and moves any notice
// from the controller into the status line.
func (m Model) afterWidget(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.layout()
	if notice := m.ctrl.TakeNotice(); notice != "" {
		m.status = notice
		m.statusID++
		return m, tea.Batch(cmd, clearStatusCmd(m.statusID, 4*time.Second))
	}
	return m, cmd
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	chrome := lipgloss.Height(m.header()) + lipgloss.Height(m.footer())
	widgetHeight := 0
	if w := m.board.Render(m.width, m.spinner.View()); w != "" {
		widgetHeight = lipgloss.Height(w)
	}
	m.viewport.Height = max(1, m.height-chrome-widgetHeight)
	if maxOffset := max(0, m.viewport.TotalLineCount()-m.viewport.Height); m.viewport.YOffset > maxOffset {
		m.viewport.SetYOffset(maxOffset)
	}
}

func (m Model) header() string {
	return view.Header(m.doc.Title, m.theme)
}

func (m Model) footer() string {
	return view.StatusLine(m.statusInfo(), m.theme) + "\n" + view.Toolbar(m.resp.Mode() == widget.ModeMobile, m.showHelp)
}

func (m Model) statusInfo() view.StatusInfo {
	state := m.ctrl.State()
	info := view.StatusInfo{
		Phase:   state.Phase.String(),
		Mode:    m.resp.Mode().String(),
		Retries: state.RetryCount,
		Shown:   len(state.Items),
		Notice:  m.status,
	}
	if m.resp.Mode() == widget.ModeMobile {
		info.Visibility = m.resp.Visibility().String()
	}
	return info
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading page...\n"
	}
	parts := []string{m.header(), m.viewport.View()}
	if w := m.board.Render(m.width, m.spinner.View()); w != "" {
		parts = append(parts, w)
	}
	parts = append(parts, m.footer())
	return strings.Join(parts, "\n")
}
