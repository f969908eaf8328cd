// Package tui hosts the dashboard in a terminal with bubbletea.
//
// Two screens: the dashboard (counts, both charts, recent admissions) and
// the student form reached by opening a recent admission. The form has the
// two greet buttons; their notifications show at the bottom of the screen
// until they expire.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/nav"
	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// Records fetches the student shown on the form screen.
type Records interface {
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)
}

// Deps is what the UI runs on.
type Deps struct {
	Loader        *dashboard.Loader
	Charts        chart.Loader
	Records       Records
	Actions       form.Executor
	Notifications *notify.Center
}

type screen int

const (
	screenDashboard screen = iota
	screenStudent
)

const (
	minChartWidth  = 24
	minChartHeight = 6
	tickInterval   = time.Second
)

type (
	stateMsg   dashboard.State
	openMsg    nav.Action
	studentMsg struct {
		student types.Student
		err     error
	}
	clickMsg struct {
		button string
		result form.Result
		err    error
	}
	errMsg  struct{ err error }
	tickMsg time.Time
)

// Model is the bubbletea model of the whole UI.
type Model struct {
	ctx    context.Context
	comp   *dashboard.Component
	form   *form.Form
	deps   Deps
	events chan tea.Msg

	gender *chart.Surface
	age    *chart.Surface

	state   dashboard.State
	screen  screen
	cursor  int
	student *types.Student
	err     error
	width   int
	height  int
}

// New builds the UI. ctx bounds every background call; cancel it after
// the program exits.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Notifications == nil {
		deps.Notifications = notify.NewCenter(4 * time.Second)
	}

	m := &Model{
		ctx:    ctx,
		deps:   deps,
		events: make(chan tea.Msg, 16),
		gender: chart.NewSurface("gender", 40, 10),
		age:    chart.NewSurface("age", 40, 10),
		state:  dashboard.NewState(),
	}

	m.comp = dashboard.NewComponent(deps.Loader, deps.Charts, nav.Func(m.navigate))
	m.comp.OnChange(func(st dashboard.State) { m.emit(stateMsg(st)) })
	m.comp.Mount(m.gender, m.age)

	m.form = &form.Form{
		Controller: &form.Controller{Notifier: deps.Notifications},
		Server:     deps.Actions,
	}
	return m
}

// emit hands msg to the event loop, giving up once ctx is done.
func (m *Model) emit(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.ctx.Done():
	}
}

// navigate is the navigation service of the dashboard: it opens the
// student form screen.
func (m *Model) navigate(_ context.Context, action nav.Action) error {
	if action.Model != types.Model {
		return fmt.Errorf("%w: %q", nav.ErrUnknownModel, action.Model)
	}
	m.emit(openMsg(action))
	return nil
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the dashboard.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			m.comp.Start(m.ctx)
			return nil
		},
		m.waitForEvent(),
		tick(),
	)
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = dashboard.State(msg)
		if m.cursor >= len(m.state.RecentAdmissions) {
			m.cursor = 0
		}
		return m, m.waitForEvent()

	case openMsg:
		return m, tea.Batch(m.loadStudent(msg.ResID), m.waitForEvent())

	case studentMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.student = &msg.student
		m.screen = screenStudent
		return m, nil

	case clickMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("%s: %w", msg.button, msg.err)
			return m, nil
		}
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	w := max(minChartWidth, (width-6)/2)
	h := max(minChartHeight, height-20)
	m.gender.Resize(w, h)
	m.age.Resize(w, h)

	if !m.state.Loading {
		m.comp.RenderCharts()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.comp.Dispose()
		return m, tea.Quit
	}

	if m.screen == screenStudent {
		switch msg.String() {
		case "esc", "backspace":
			m.screen = screenDashboard
			m.student = nil
			m.err = nil
		case "g":
			return m, m.click(form.ActionGreetJS)
		case "p":
			return m, m.click(form.ActionGreetPython)
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.RecentAdmissions)-1 {
			m.cursor++
		}
	case "r":
		return m, func() tea.Msg {
			m.comp.Reload(m.ctx)
			return nil
		}
	case "enter":
		if len(m.state.RecentAdmissions) == 0 {
			return m, nil
		}
		id := dashboard.RecordID(m.state.RecentAdmissions[m.cursor])
		return m, func() tea.Msg {
			if err := m.comp.OpenStudent(m.ctx, id); err != nil {
				return errMsg{err}
			}
			return nil
		}
	}
	return m, nil
}

func (m *Model) loadStudent(id int64) tea.Cmd {
	return func() tea.Msg {
		st, err := m.deps.Records.GetStudentByID(m.ctx, id)
		return studentMsg{student: st, err: err}
	}
}

func (m *Model) click(button string) tea.Cmd {
	if m.student == nil {
		return nil
	}
	record := *m.student
	return func() tea.Msg {
		result, err := m.form.Click(m.ctx, record, form.ClickParams{Name: button, Type: "object"})
		return clickMsg{button: button, result: result, err: err}
	}
}

// ── Rendering ────────────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4e73df"))
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1cc88a"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74a3b"))
	cursorMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#f6c23e")).Render("›")
	noteStyles = map[string]lipgloss.Style{
		notify.TypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#1cc88a")),
		notify.TypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#36b9cc")),
		notify.TypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f6c23e")),
		notify.TypeDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e74a3b")),
	}
)

// View renders the current screen.
func (m *Model) View() string {
	var b strings.Builder
	if m.screen == screenStudent && m.student != nil {
		b.WriteString(m.studentView())
	} else {
		b.WriteString(m.dashboardView())
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()))
	}
	if notes := m.notificationsView(); notes != "" {
		b.WriteString("\n" + notes)
	}
	return b.String()
}

func (m *Model) dashboardView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Student Dashboard"))
	if m.state.Loading {
		b.WriteString("  " + helpStyle.Render("loading..."))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Students", valueStyle.Render(fmt.Sprint(m.state.TotalStudents))),
		" ",
		card("New Admissions Today", valueStyle.Render(fmt.Sprint(m.state.NewAdmissionsToday))),
	))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card("Gender Distribution", chartText(m.gender, len(m.state.GenderData))),
		" ",
		card("Age Distribution", chartText(m.age, len(m.state.AgeData))),
	))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Recent Admissions") + "\n")
	if len(m.state.RecentAdmissions) == 0 {
		b.WriteString(helpStyle.Render("  no admissions yet") + "\n")
	}
	for i, rec := range m.state.RecentAdmissions {
		mark := " "
		if i == m.cursor {
			mark = cursorMark
		}
		gender := rec["gender"]
		fmt.Fprintf(&b, "%s %-24s %-12s %s\n",
			mark,
			dashboard.FieldText(rec, "name"),
			dashboard.FieldText(rec, "admission_date"),
			dashboard.FormatLabel(gender))
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ select • enter open • r reload • q quit"))
	return b.String()
}

func chartText(s *chart.Surface, points int) string {
	if points == 0 {
		return helpStyle.Render("No data")
	}
	if content := s.Content(); content != "" {
		return content
	}
	return helpStyle.Render("...")
}

func card(title, body string) string {
	return cardStyle.Render(titleStyle.Render(title) + "\n" + body)
}

func (m *Model) studentView() string {
	s := m.student
	rows := [][2]string{
		{"Name", s.Name},
		{"Date of Birth", s.DOB},
		{"Age", fmt.Sprint(s.Age)},
		{"Gender", dashboard.FormatLabel(genderValue(s.Gender))},
		{"Email", s.Email},
		{"Phone", s.Phone},
		{"Address", s.Address},
		{"Admission Date", s.AdmissionDate},
		{"Active", fmt.Sprint(s.IsActive())},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Student") + "\n\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-16s %s\n", row[0], row[1])
	}
	b.WriteString("\n" + helpStyle.Render("g greet (JS) • p greet (Python) • esc back • q quit"))
	return cardStyle.Render(b.String())
}

func genderValue(g string) any {
	if g == "" {
		return false
	}
	return g
}

func (m *Model) notificationsView() string {
	active := m.deps.Notifications.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		style, ok := noteStyles[n.Type]
		if !ok {
			style = noteStyles[notify.TypeInfo]
		}
		text := n.Message
		if n.Title != "" {
			text = n.Title + ": " + text
		}
		lines = append(lines, style.Render("● "+text))
	}
	return strings.Join(lines, "\n")
}

// Run starts the program on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	m.comp.Dispose()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
