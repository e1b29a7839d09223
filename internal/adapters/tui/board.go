// Package tui is the terminal attendance board: students by meal for one
// date, toggled with optimistic updates.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"messhall/internal/adapters/attendanceapi"
	"messhall/internal/application/filterlink"
	"messhall/internal/application/toggle"
	"messhall/internal/domain/meal"
)

// ReportLookbackDays is how far before the board date the report links start.
const ReportLookbackDays = 7

var mealTypes = []string{"breakfast", "lunch", "dinner"}

// SheetSource loads the attendance sheet for a date.
type SheetSource interface {
	Sheet(ctx context.Context, date string) (attendanceapi.Sheet, error)
}

// Config wires the board.
type Config struct {
	Sheets     SheetSource
	Controller *toggle.Controller
	Relay      *Relay
	Dates      *DateField
	BaseURL    string
	ReportType string
	Date       string // initial date; empty means the server's today
	Now        func() time.Time
}

// RollbackMsg asks the board to redraw one cell with a confirmed state.
// Generation is the cell handler's generation when the rollback was issued.
type RollbackMsg struct {
	Date       string
	StudentID  string
	MealType   string
	Checked    bool
	Generation uint64
}

// AlertMsg carries a user-visible failure message.
type AlertMsg struct {
	Text string
}

type sheetLoadedMsg struct {
	sheet attendanceapi.Sheet
	err   error
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Prev    key.Binding
	Next    key.Binding
	Reports key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Prev, k.Next, k.Reports, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Prev, k.Next},
		{k.Reports, k.Help, k.Quit},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev meal")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next meal")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Prev:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
		Next:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Reports: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report links")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type row struct {
	student  attendanceapi.SheetRow
	meals    [3]bool
	handlers [3]*toggle.Handler
}

// Model is the Bubble Tea model for the board.
type Model struct {
	cfg  Config
	keys keyMap
	help help.Model

	date      string
	prevDate  string
	nextDate  string
	rows      []row
	cursorRow int
	cursorCol int

	loading  bool
	alert    string
	status   string
	quitting bool

	nav     *navTarget
	dateNav filterlink.DateNavigator
	link    *linkTarget
	reports *filterlink.Synchronizer
}

// NewModel builds the board.
// PRE: cfg.Sheets, cfg.Controller, cfg.Relay and cfg.Dates are non-nil
func NewModel(cfg Config) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ReportType == "" {
		cfg.ReportType = "attendance"
	}
	nav := &navTarget{}
	link := &linkTarget{}
	dates := cfg.Dates
	now := cfg.Now
	boardDate := func() string {
		if d := dates.Date(); d != "" {
			return d
		}
		return now().Format(meal.DateLayout)
	}
	reportType := cfg.ReportType

	m := Model{
		cfg:     cfg,
		keys:    defaultKeys(),
		help:    help.New(),
		date:    cfg.Date,
		loading: true,
		nav:     nav,
		dateNav: filterlink.DateNavigator{Base: cfg.BaseURL, Nav: nav},
		link:    link,
	}
	m.reports = filterlink.New(cfg.BaseURL, filterlink.Fields{
		Type: filterlink.FieldFunc(func() string { return reportType }),
		StartDate: filterlink.FieldFunc(func() string {
			t, err := meal.ParseDate(boardDate())
			if err != nil {
				return ""
			}
			return t.AddDate(0, 0, -ReportLookbackDays).Format(meal.DateLayout)
		}),
		EndDate: filterlink.FieldFunc(boardDate),
	}, link, nav)
	return m
}

// Init loads the initial sheet.
func (m Model) Init() tea.Cmd {
	return m.load(m.date)
}

func (m Model) load(date string) tea.Cmd {
	sheets := m.cfg.Sheets
	return func() tea.Msg {
		sheet, err := sheets.Sheet(context.Background(), date)
		return sheetLoadedMsg{sheet: sheet, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case sheetLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.alert = "Could not load attendance: " + msg.err.Error()
			return m, nil
		}
		m.applySheet(msg.sheet)
		return m, nil

	case RollbackMsg:
		if msg.Date != m.date {
			return m, nil
		}
		for i := range m.rows {
			if m.rows[i].student.StudentID != msg.StudentID {
				continue
			}
			j := mealIndex(msg.MealType)
			if j < 0 || !m.rows[i].handlers[j].Current(msg.Generation) {
				continue
			}
			m.rows[i].meals[j] = msg.Checked
		}
		return m, nil

	case AlertMsg:
		m.alert = msg.Text
		return m, nil

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.status = "Waiting for pending updates..."
		ctl := m.cfg.Controller
		return m, func() tea.Msg {
			ctl.Wait()
			return tea.QuitMsg{}
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursorRow < len(m.rows)-1 {
			m.cursorRow++
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursorCol < len(mealTypes)-1 {
			m.cursorCol++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.loading || len(m.rows) == 0 {
			return m, nil
		}
		r := &m.rows[m.cursorRow]
		checked := !r.meals[m.cursorCol]
		r.meals[m.cursorCol] = checked
		m.alert = ""
		r.handlers[m.cursorCol].Changed(context.Background(), checked)

	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.shiftDate(m.prevDate, -1))
	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.shiftDate(m.nextDate, 1))

	case key.Matches(msg, m.keys.Reports):
		m.reports.FieldChanged()
		m.reports.View()
		m.status = "View: " + m.nav.target + "\nDownload: " + m.link.href

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// navigate routes a date change through the date navigator and reloads the
// sheet named by the resulting URL.
func (m Model) navigate(date string) (tea.Model, tea.Cmd) {
	if date == "" {
		return m, nil
	}
	m.dateNav.Changed(date)
	target := date
	if u, err := url.Parse(m.nav.target); err == nil {
		target = u.Query().Get("date")
	}
	m.loading = true
	m.status = ""
	return m, m.load(target)
}

// shiftDate prefers the neighbour the server reported and falls back to
// stepping the board date.
func (m Model) shiftDate(known string, days int) string {
	if known != "" {
		return known
	}
	t, err := meal.ParseDate(m.date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(meal.DateLayout)
}

func (m *Model) applySheet(s attendanceapi.Sheet) {
	m.date = s.Date
	m.prevDate = s.PrevDate
	m.nextDate = s.NextDate
	m.cfg.Dates.Set(s.Date)

	m.rows = make([]row, len(s.Rows))
	for i, st := range s.Rows {
		r := row{student: st, meals: [3]bool{st.Breakfast, st.Lunch, st.Dinner}}
		for j, mt := range mealTypes {
			r.handlers[j] = m.cfg.Controller.Bind(st.StudentID, mt, cell{
				relay:     m.cfg.Relay,
				date:      s.Date,
				studentID: st.StudentID,
				mealType:  mt,
				loaded:    r.meals[j],
			})
		}
		m.rows[i] = r
	}
	if m.cursorRow >= len(m.rows) {
		m.cursorRow = max(len(m.rows)-1, 0)
	}
}

func mealIndex(mealType string) int {
	for i, mt := range mealTypes {
		if mt == mealType {
			return i
		}
	}
	return -1
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mess attendance"))
	if m.date != "" {
		b.WriteString("  " + accentStyle.Render(m.date))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(mutedStyle.Render("No students registered."))
		b.WriteString("\n")
	default:
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-24s %-10s %-6s", "Student", "Roll No", "Room")))
		b.WriteString("  B  L  D\n")
		for i, r := range m.rows {
			prefix := "  "
			if i == m.cursorRow {
				prefix = selectedStyle.Render(">") + " "
			}
			b.WriteString(prefix)
			b.WriteString(fmt.Sprintf("%-24s %-10s %-6s", truncate(r.student.Name, 24), r.student.RollNo, r.student.RoomNo))
			for j, taken := range r.meals {
				mark := box(taken)
				switch {
				case i == m.cursorRow && j == m.cursorCol:
					mark = selectedStyle.Render(mark)
				case taken:
					mark = successStyle.Render(mark)
				default:
					mark = mutedStyle.Render(mark)
				}
				b.WriteString("  " + mark)
			}
			b.WriteString("\n")
		}
	}

	if m.alert != "" {
		b.WriteString("\n" + errorStyle.Render(m.alert) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + mutedStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return panelStyle.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
