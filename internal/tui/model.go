package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"

	"booklog/internal/calendar"
	"booklog/internal/catalog"
	"booklog/internal/core"
	"booklog/internal/log"
)

// Grid geometry. The grid starts below the title, its margin and the
// weekday header; every week is one line of cellWidth-wide cells.
const (
	cellWidth = 9
	gridTop   = 3

	// columnPixels converts terminal columns to the pixel distances the
	// swipe threshold is expressed in.
	columnPixels = 8.0

	// clickSlop is the largest drag, in columns, still treated as a click.
	clickSlop = 1
)

// Options configures a Model.
type Options struct {
	Catalog        *catalog.Catalog
	BaseURL        string
	Start          core.MonthScope
	SwipeThreshold float64
	Location       *time.Location
	Logger         *log.Logger

	// Open shows a URL to the user; defaults to the system browser.
	Open func(url string) error
	// Now overrides the clock used for "today".
	Now func() time.Time
}

// Model is the Bubble Tea calendar.
type Model struct {
	catalog  *catalog.Catalog
	machine  *calendar.Machine
	keymap   KeyMap
	help     help.Model
	showHelp bool

	baseURL string
	open    func(string) error
	now     func() time.Time
	loc     *time.Location
	logger  *log.Logger

	width   int
	height  int
	pressX  int
	pressed bool
	status  string
	err     error
}

// NewModel creates a calendar model showing opts.Start, or the current
// month when Start is zero.
func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Open == nil {
		opts.Open = browser.OpenURL
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	logger := opts.Logger.WithComponent(log.ComponentTUI)

	start := opts.Start
	if start == (core.MonthScope{}) {
		start = core.DateOf(opts.Now().In(opts.Location)).Scope()
	}

	h := help.New()
	return Model{
		catalog: opts.Catalog,
		machine: calendar.NewMachine(start,
			calendar.WithSwipeThreshold(opts.SwipeThreshold),
			calendar.WithLogger(opts.Logger)),
		keymap:  DefaultKeyMap(),
		help:    h,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		open:    opts.Open,
		now:     opts.Now,
		loc:     opts.Location,
		logger:  logger,
	}
}

// Active returns the displayed month.
func (m Model) Active() core.MonthScope {
	return m.machine.Active()
}

// Hovered returns the day under the cursor, if any.
func (m Model) Hovered() (string, bool) {
	return m.machine.State().Hovered()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case CatalogReloadedMsg:
		m.status = fmt.Sprintf("Catalog reloaded (version %d)", msg.Version)

	case ErrorMsg:
		m.err = msg.Err

	case openedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("open %s: %w", msg.url, msg.err)
			m.logger.Error("Failed to open browser", log.FieldTarget, msg.url, log.FieldError, msg.err)
		} else {
			m.err = nil
			m.status = "Opened " + msg.url
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keymap.PrevMonth):
		m.machine.NavigatePrevMonth()
		m.machine.ClearHover()
	case key.Matches(msg, m.keymap.NextMonth):
		m.machine.NavigateNextMonth()
		m.machine.ClearHover()
	case key.Matches(msg, m.keymap.Today):
		today := m.today()
		m.machine = m.machineAt(today.Scope())
		m.machine.SetHover(today.Key())
	case key.Matches(msg, m.keymap.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.keymap.Open):
		return m, m.activate("")
	case key.Matches(msg, m.keymap.All):
		return m, m.openPath(core.AllPath)
	}
	return m, nil
}

// handleMouse hovers the cell under the pointer and treats a press and
// release as a touch gesture: a long drag is a swipe, a short one a click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		if date, ok := m.dateAt(msg.X, msg.Y); ok {
			m.machine.SetHover(date.Key())
		} else {
			m.machine.ClearHover()
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.pressX, m.pressed = msg.X, true
		m.machine.RecordTouchStart(float64(msg.X) * columnPixels)
	case tea.MouseActionRelease:
		if !m.pressed {
			return m, nil
		}
		m.pressed = false
		before := m.machine.Active()
		m.machine.RecordTouchEnd(float64(msg.X) * columnPixels)
		if m.machine.Active() != before {
			m.machine.ClearHover()
			return m, nil
		}
		if abs(msg.X-m.pressX) <= clickSlop {
			if date, ok := m.dateAt(msg.X, msg.Y); ok {
				return m, m.activate(date.Key())
			}
		}
	}
	return m, nil
}

// moveCursor shifts the hovered day by days, following it into the
// neighbouring month when needed.
func (m *Model) moveCursor(days int) {
	cur := m.cursor()
	next := core.Date{Time: cur.AddDate(0, 0, days)}
	for next.Scope() != m.machine.Active() {
		if next.Scope().Before(m.machine.Active()) {
			m.machine.NavigatePrevMonth()
		} else {
			m.machine.NavigateNextMonth()
		}
	}
	m.machine.SetHover(next.Key())
}

// cursor is the hovered day, or today or the first of the month when
// nothing is hovered.
func (m Model) cursor() core.Date {
	if key, ok := m.machine.State().Hovered(); ok {
		if d, err := core.ParseDateKey(key); err == nil {
			return d
		}
	}
	today := m.today()
	if today.Scope() == m.machine.Active() {
		return today
	}
	return m.machine.Active().First()
}

// activate opens the month detail of key, or of the hovered day when key
// is empty.
func (m Model) activate(key string) tea.Cmd {
	lookup := key
	if lookup == "" {
		lookup, _ = m.machine.State().Hovered()
	}
	books := 0
	if snap, err := m.snapshot(); err == nil {
		books = len(snap.ByDate[lookup])
	}
	path, ok := m.machine.ActivateDay(key, books)
	if !ok {
		return nil
	}
	return m.openPath(path)
}

func (m Model) openPath(path string) tea.Cmd {
	url := m.baseURL + path
	open := m.open
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

func (m Model) machineAt(scope core.MonthScope) *calendar.Machine {
	st := m.machine.State()
	return calendar.NewMachine(scope,
		calendar.WithSwipeThreshold(st.Threshold),
		calendar.WithLogger(m.logger))
}

func (m Model) today() core.Date {
	return core.DateOf(m.now().In(m.loc))
}

func (m Model) snapshot() (*catalog.Snapshot, error) {
	if m.catalog == nil {
		return nil, catalog.ErrNotLoaded
	}
	return m.catalog.Snapshot()
}

// dateAt maps a terminal position to the in-month date drawn there.
func (m Model) dateAt(x, y int) (core.Date, bool) {
	row := y - gridTop
	col := x / cellWidth
	if row < 0 || col < 0 || col > 6 || x < 0 {
		return core.Date{}, false
	}
	first := m.machine.Active().First()
	start := first.AddDate(0, 0, -int(first.Weekday()))
	date := core.Date{Time: start.AddDate(0, 0, row*7+col)}
	if row >= 6 || date.Scope() != m.machine.Active() {
		return core.Date{}, false
	}
	return date, true
}

// View renders the calendar.
func (m Model) View() string {
	snap, err := m.snapshot()
	if err != nil {
		return ErrorStyle.Render("Loading reading log...") + "\n"
	}

	month := calendar.BuildMonth(m.machine.State(), snap.ByDate, m.today())

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("‹ %s ›  %d books", month.Title, month.Books)))
	b.WriteString("\n")

	for _, wd := range calendar.Weekdays {
		b.WriteString(WeekdayStyle.Render(pad(" "+wd, cellWidth)))
	}
	b.WriteString("\n")

	for _, week := range month.Weeks {
		for _, c := range week {
			b.WriteString(renderCell(c))
		}
		b.WriteString("\n")
	}

	if key, ok := m.machine.State().Hovered(); ok {
		if c, found := month.Cell(key); found && c.Total > 0 {
			b.WriteString(m.renderDetail(c))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(HelpStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.showHelp {
		m.help.ShowAll = true
	}
	b.WriteString(HelpStyle.Render(m.help.View(m.keymap)))
	return b.String()
}

// renderCell draws one grid cell: day number plus a cover marker, "+N"
// when collapsed.
func renderCell(c calendar.Cell) string {
	text := fmt.Sprintf("%3d", c.Date.Day())
	if c.InMonth {
		switch c.State {
		case calendar.CellSingle:
			text += " ■"
		case calendar.CellCollapsed:
			text += " ■" + BadgeStyle.Render(fmt.Sprintf("+%d", c.Badge))
		case calendar.CellExpanded:
			text += " " + strings.Repeat("■", min(len(c.Covers), cellWidth-5))
		}
	}
	text = pad(text, cellWidth)

	style := DayStyle
	switch {
	case !c.InMonth:
		style = OutsideStyle
	case c.Today:
		style = TodayStyle
	case c.Weekend:
		style = WeekendStyle
	}
	if c.Hovered && c.InMonth {
		style = CursorStyle
	}
	return style.Render(text)
}

func (m Model) renderDetail(c calendar.Cell) string {
	width := m.width - 6
	if width < 20 {
		width = 60
	}
	lines := []string{c.Date.Format("Monday, January 2, 2006")}
	for _, book := range c.Covers {
		lines = append(lines, "• "+truncate.StringWithTail(book.Line(), uint(width), "…"))
	}
	if c.Badge > 0 {
		lines = append(lines, BadgeStyle.Render(fmt.Sprintf("+%d more", c.Badge)))
	}
	return DetailStyle.Render(strings.Join(lines, "\n"))
}

// pad right-pads s to width visible cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
