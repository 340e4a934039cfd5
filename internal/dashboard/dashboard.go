package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/thevedantmod/stand-clear/internal/board"
	"github.com/thevedantmod/stand-clear/internal/layout"
	"github.com/thevedantmod/stand-clear/internal/model"
	"github.com/thevedantmod/stand-clear/internal/refresh"
)

const (
	clockInterval = time.Second
	boardGap      = 2
	minBoardWidth = 20
)

type dashboardMode int

const (
	modeDashboard dashboardMode = iota
	modeHelp
)

// Options configures a Dashboard.
type Options struct {
	// Requests is the full resolved platform list, in display order.
	Requests   []model.PlatformRequest
	Fetcher    refresh.Fetcher
	Refresh    refresh.Options
	Breakpoint layout.Breakpoint
	Logger     zerolog.Logger
}

// Dashboard is the bubbletea model for the arrivals screen. It keeps one
// refresh controller per visible platform.
type Dashboard struct {
	requests []model.PlatformRequest
	group    *refresh.Group
	viewport *layout.Viewport
	boards   []*refresh.Controller
	logger   zerolog.Logger

	updates chan string
	closed  chan struct{}

	width  int
	height int

	mode    dashboardMode
	message string
	spinner spinner.Model
	keymap  KeyMap
	styles  Styles
	board   board.Styles

	pollInterval time.Duration
	now          func() time.Time
}

type boardUpdateMsg struct {
	key string
}

type clockMsg time.Time

// New creates a dashboard. No controller runs until Init.
func New(opts Options) *Dashboard {
	d := &Dashboard{
		requests: opts.Requests,
		viewport: layout.NewViewport(opts.Breakpoint),
		logger:   opts.Logger,
		updates:  make(chan string, 16),
		closed:   make(chan struct{}),
		mode:     modeDashboard,
		keymap:   DefaultKeyMap(),
		styles:   DefaultStyles(),
		board:    board.DefaultStyles(),
		now:      time.Now,
	}
	d.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(d.styles.Spinner),
	)
	d.pollInterval = opts.Refresh.PollInterval
	if d.pollInterval <= 0 {
		d.pollInterval = refresh.DefaultPollInterval
	}
	d.group = refresh.NewGroup(opts.Fetcher, opts.Refresh, d.notify)
	return d
}

// Run starts the bubbletea program and stops every controller when it
// exits.
func (d *Dashboard) Run() error {
	program := tea.NewProgram(d, tea.WithAltScreen())
	_, err := program.Run()
	d.shutdown()
	return err
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	d.syncBoards()
	return tea.Batch(d.listenCmd(), d.spinner.Tick, d.clockCmd())
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		if d.viewport.Resize(msg.Width, msg.Height) {
			d.logger.Debug().
				Int("columns", msg.Width).
				Bool("compact", d.viewport.Compact()).
				Msg("layout changed")
			d.syncBoards()
		}
		return d, nil
	case boardUpdateMsg:
		d.message = ""
		return d, d.listenCmd()
	case clockMsg:
		return d, d.clockCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.KeyMsg:
		return d.handleKey(msg)
	default:
		return d, nil
	}
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	switch d.mode {
	case modeHelp:
		return d.styles.Box.Render(d.viewHelp())
	default:
		return d.styles.Box.Render(d.viewDashboard())
	}
}

// Boards returns the controllers currently on screen, in display order.
func (d *Dashboard) Boards() []*refresh.Controller {
	return append([]*refresh.Controller(nil), d.boards...)
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return d.quit()
	}

	if d.mode == modeHelp {
		d.mode = modeDashboard
		return d, nil
	}

	switch msg.String() {
	case d.keymap.Quit:
		return d.quit()
	case d.keymap.Refresh:
		d.group.RefreshAll()
		d.message = "refreshing..."
		return d, nil
	case d.keymap.Help:
		d.mode = modeHelp
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) quit() (tea.Model, tea.Cmd) {
	d.shutdown()
	return d, tea.Quit
}

func (d *Dashboard) shutdown() {
	select {
	case <-d.closed:
		return
	default:
	}
	close(d.closed)
	d.group.StopAll()
	d.boards = nil
}

func (d *Dashboard) syncBoards() {
	select {
	case <-d.closed:
		return
	default:
	}
	visible := layout.Visible(d.requests, d.viewport.Compact())
	d.boards = d.group.Sync(visible)
}

// notify is the controller listener. It runs under the controller lock, so
// it only signals; View reads the state itself.
func (d *Dashboard) notify(req model.PlatformRequest, _ refresh.State) {
	select {
	case d.updates <- req.Key():
	default:
	}
}

func (d *Dashboard) listenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case key := <-d.updates:
			return boardUpdateMsg{key: key}
		case <-d.closed:
			return nil
		}
	}
}

func (d *Dashboard) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (d *Dashboard) viewDashboard() string {
	lines := []string{
		d.styles.Title.Render("STAND CLEAR"),
		"",
		d.renderMeta(),
		"",
	}
	if boards := d.renderBoards(); boards != "" {
		lines = append(lines, boards, "")
	}
	if d.message != "" {
		lines = append(lines, d.styles.Faint.Render(d.message), "")
	}
	lines = append(lines, d.renderFooter())
	return strings.Join(lines, "\n")
}

func (d *Dashboard) viewHelp() string {
	lines := []string{
		d.styles.Title.Render("HELP - KEYBOARD SHORTCUTS"),
		"",
		d.styles.Header.Render("Boards"),
		fmt.Sprintf("  %-10s Refresh every board now", d.keymap.Refresh),
		"",
		d.styles.Header.Render("Other"),
		fmt.Sprintf("  %-10s Quit", d.keymap.Quit+" / ctrl+c"),
		fmt.Sprintf("  %-10s Show this help", d.keymap.Help),
		"",
		d.styles.Muted.Render(fmt.Sprintf("Boards side by side from %d columns.", d.viewport.Breakpoint().WideColumns())),
		"",
		d.styles.Faint.Render("Press any key to close this help"),
	}
	return strings.Join(lines, "\n")
}

func (d *Dashboard) renderMeta() string {
	mode := "wide"
	if d.viewport.Compact() {
		mode = "compact"
	}
	parts := []string{
		fmt.Sprintf("layout: %s", mode),
		fmt.Sprintf("boards: %d/%d", len(d.boards), len(d.requests)),
		d.renderSyncStatus(),
	}
	return d.styles.Muted.Render(truncate(strings.Join(parts, "  "), d.safeWidth()))
}

func (d *Dashboard) renderSyncStatus() string {
	last := d.lastUpdate()
	if last.IsZero() {
		return "sync: pending"
	}
	ago := formatRelativeTime(last, d.now())
	label := fmt.Sprintf("sync: %s", ago)
	if d.now().Sub(last) > d.pollInterval*3 {
		label += " (stale)"
	}
	return label
}

func (d *Dashboard) lastUpdate() time.Time {
	var last time.Time
	for _, c := range d.boards {
		if at := c.State().UpdatedAt; at.After(last) {
			last = at
		}
	}
	return last
}

func (d *Dashboard) renderFooter() string {
	return d.styles.HelpBar.Render(d.keymap.HelpLine())
}

func (d *Dashboard) renderBoards() string {
	width := d.boardWidth()
	var cells []string
	for _, c := range d.boards {
		if cell := d.renderCell(c.State(), width); cell != "" {
			cells = append(cells, cell)
		}
	}
	if len(cells) == 0 {
		return ""
	}
	if d.viewport.Compact() {
		return cells[0]
	}
	return strings.Join(wrapCells(cells, d.safeWidth()), "\n\n")
}

func (d *Dashboard) renderCell(st refresh.State, width int) string {
	switch st.Status {
	case refresh.StatusLoading:
		text := fmt.Sprintf("%s Loading arrivals...", d.spinner.View())
		return d.styles.Loading.Width(width + 2).Render(text)
	case refresh.StatusError:
		return d.styles.Error.Width(width + 2).Render("Error: " + st.Err)
	default:
		return board.Render(st.Arrivals, width, d.board)
	}
}

// wrapCells joins cells left to right, starting a new row whenever the next
// cell would overflow width.
func wrapCells(cells []string, width int) []string {
	var rows []string
	var row []string
	used := 0
	for _, cell := range cells {
		w := lipgloss.Width(cell)
		need := w
		if len(row) > 0 {
			need += boardGap
		}
		if len(row) > 0 && used+need > width {
			rows = append(rows, joinRow(row))
			row = nil
			used = 0
			need = w
		}
		row = append(row, cell)
		used += need
	}
	if len(row) > 0 {
		rows = append(rows, joinRow(row))
	}
	return rows
}

func joinRow(cells []string) string {
	gap := strings.Repeat(" ", boardGap)
	parts := make([]string, 0, len(cells)*2-1)
	for i, cell := range cells {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// boardWidth is the inner width of one board: the default width, narrowed
// to fit a small terminal.
func (d *Dashboard) boardWidth() int {
	frame := d.board.Box.GetHorizontalFrameSize()
	width := d.safeWidth() - frame
	if width > board.DefaultWidth {
		width = board.DefaultWidth
	}
	if width < minBoardWidth {
		width = minBoardWidth
	}
	return width
}

func (d *Dashboard) safeWidth() int {
	frame := d.styles.Box.GetHorizontalFrameSize()
	if d.width > frame {
		return d.width - frame
	}
	return 80
}
