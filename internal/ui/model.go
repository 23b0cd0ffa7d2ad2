package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sheet-quiz/internal/app"
	"sheet-quiz/internal/domain"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type enginePort interface {
	Dispatch(cmd app.Command) error
	Subscribe() (<-chan domain.Event, func())
}

type themePort interface {
	Theme(ctx context.Context) domain.Theme
	ToggleTheme(ctx context.Context) (domain.Theme, error)
}

// ─── async messages ──────────────────────────────────────────────────────────

type eventMsg struct{ ev domain.Event }

type eventsClosedMsg struct{}

// tickMsg carries the countdown it belongs to; ticks from an earlier question are dropped.
type tickMsg struct{ id int }

type themeToggledMsg struct {
	theme domain.Theme
	err   error
}

type dispatchFailedMsg struct{ err error }

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders engine events and turns key presses into engine commands.
// It holds no quiz rules of its own.
type Model struct {
	engine      enginePort
	prefs       themePort
	events      <-chan domain.Event
	unsubscribe func()

	theme  domain.Theme
	styles styles
	keys   keyMap
	help   help.Model
	filter textinput.Model

	view      domain.Navigated
	cursor    int
	filtering bool

	loading   *domain.Loading
	question  *domain.Presenting
	locked    *domain.Locked
	completed *domain.Completed
	failed    *domain.Failed
	remaining int
	tickID    int

	status string
	width  int
}

// NewModel subscribes to the engine right away so the first navigation view is not missed.
func NewModel(engine enginePort, prefs themePort) Model {
	events, unsubscribe := engine.Subscribe()
	theme := prefs.Theme(context.Background())

	ti := textinput.New()
	ti.Placeholder = "filter subjects…"
	ti.CharLimit = 64

	return Model{
		engine:      engine,
		prefs:       prefs,
		events:      events,
		unsubscribe: unsubscribe,
		theme:       theme,
		styles:      stylesFor(theme),
		keys:        defaultKeys(),
		help:        help.New(),
		filter:      ti,
		view:        domain.Navigated{Screen: domain.ScreenHome},
	}
}

// Close releases the engine subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case eventMsg:
		if tick := m.apply(msg.ev); tick != nil {
			return m, tea.Batch(waitForEvent(m.events), tick)
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		return m, tea.Quit

	case tickMsg:
		if msg.id != m.tickID || m.question == nil || m.locked != nil || m.remaining <= 0 {
			return m, nil
		}
		m.remaining--
		if m.remaining == 0 {
			return m, nil
		}
		return m, tickCmd(m.tickID)

	case themeToggledMsg:
		if msg.err != nil {
			m.status = "theme not saved: " + msg.err.Error()
			return m, nil
		}
		m.theme = msg.theme
		m.styles = stylesFor(msg.theme)
		m.status = "theme: " + string(msg.theme)

	case dispatchFailedMsg:
		m.status = msg.err.Error()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// apply folds ev into the model and returns the countdown tick to schedule, if any.
func (m *Model) apply(ev domain.Event) tea.Cmd {
	switch ev := ev.(type) {
	case domain.Navigated:
		if ev.Screen != m.view.Screen {
			m.cursor = 0
		}
		m.view = ev
		if ev.Screen != domain.ScreenResults {
			m.clearSession()
		}
		if ev.Screen == domain.ScreenHome && ev.Filter == "" {
			m.filter.SetValue("")
		}
		m.clampCursor()
	case domain.Loading:
		m.clearSession()
		m.loading = &ev
	case domain.Presenting:
		m.loading = nil
		m.locked = nil
		m.question = &ev
		m.remaining = int(math.Ceil(ev.TimeLimitSeconds))
		m.cursor = 0
		m.tickID++
		if m.remaining > 0 {
			return tickCmd(m.tickID)
		}
	case domain.Locked:
		m.locked = &ev
	case domain.Completed:
		m.completed = &ev
	case domain.Failed:
		m.loading = nil
		m.failed = &ev
	}
	return nil
}

func (m *Model) clearSession() {
	m.loading = nil
	m.question = nil
	m.locked = nil
	m.completed = nil
	m.failed = nil
	m.remaining = 0
}

func (m *Model) clampCursor() {
	n := m.listLen()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) listLen() int {
	switch m.view.Screen {
	case domain.ScreenHome:
		return len(m.view.Subjects)
	case domain.ScreenTopicList:
		return len(m.view.Topics)
	case domain.ScreenQuiz:
		if m.question != nil {
			return len(m.question.Options)
		}
	}
	return 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	}

	switch m.view.Screen {
	case domain.ScreenHome:
		switch {
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.Enter):
			if m.cursor < len(m.view.Subjects) {
				return m, m.dispatch(app.Command{Kind: app.CommandSelectSubject, Subject: m.view.Subjects[m.cursor]})
			}
		case msg.String() == "esc" && m.view.Filter != "":
			m.filter.SetValue("")
			return m, m.dispatch(app.Command{Kind: app.CommandFilter})
		}

	case domain.ScreenTopicList:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if m.cursor < len(m.view.Topics) {
				return m, m.dispatch(app.Command{Kind: app.CommandSelectTopic, SourceKey: m.view.Topics[m.cursor].SourceKey})
			}
		case key.Matches(msg, m.keys.Back):
			return m, m.dispatch(app.Command{Kind: app.CommandBack})
		}

	case domain.ScreenQuiz:
		switch {
		case key.Matches(msg, m.keys.Pick):
			return m, m.answer(int(msg.Runes[0] - '1'))
		case key.Matches(msg, m.keys.Enter):
			return m, m.answer(m.cursor)
		case key.Matches(msg, m.keys.Back):
			return m, m.dispatch(app.Command{Kind: app.CommandBack})
		case key.Matches(msg, m.keys.Restart) && m.failed != nil:
			return m, m.dispatch(app.Command{Kind: app.CommandRestart})
		}

	case domain.ScreenResults:
		switch {
		case key.Matches(msg, m.keys.Restart):
			return m, m.dispatch(app.Command{Kind: app.CommandRestart})
		case key.Matches(msg, m.keys.Home):
			return m, m.dispatch(app.Command{Kind: app.CommandHome})
		case key.Matches(msg, m.keys.Back):
			return m, m.dispatch(app.Command{Kind: app.CommandBack})
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		return m, tea.Batch(cmd, m.dispatch(app.Command{Kind: app.CommandFilter, Filter: after}))
	}
	return m, cmd
}

// answer locks the option at position i of the frozen order, if the question is still open.
func (m Model) answer(i int) tea.Cmd {
	if m.question == nil || m.locked != nil || i < 0 || i >= len(m.question.Options) {
		return nil
	}
	return m.dispatch(app.Command{Kind: app.CommandSelectOption, Index: m.question.Index, Option: m.question.Options[i]})
}

func (m Model) dispatch(cmd app.Command) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		if err := engine.Dispatch(cmd); err != nil {
			return dispatchFailedMsg{err: err}
		}
		return nil
	}
}

func (m Model) toggleTheme() tea.Cmd {
	prefs := m.prefs
	return func() tea.Msg {
		theme, err := prefs.ToggleTheme(context.Background())
		return themeToggledMsg{theme: theme, err: err}
	}
}

func waitForEvent(events <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

func tickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	header := s.Title.Render("Sheet Quiz")
	if crumb := m.breadcrumb(); crumb != "" {
		header += s.Muted.Render("  " + crumb)
	}
	b.WriteString(header + "\n\n")

	switch m.view.Screen {
	case domain.ScreenHome:
		b.WriteString(m.renderHome())
	case domain.ScreenTopicList:
		b.WriteString(m.renderList(topicNames(m.view.Topics)))
	case domain.ScreenQuiz:
		b.WriteString(m.renderQuiz())
	case domain.ScreenResults:
		b.WriteString(m.renderResults())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(s.Muted.Render(m.status) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	out := s.App.Render(b.String())
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m Model) breadcrumb() string {
	parts := make([]string, 0, 2)
	if m.view.Subject != "" {
		parts = append(parts, m.view.Subject)
	}
	if m.view.Topic != nil {
		parts = append(parts, m.view.Topic.Name)
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderHome() string {
	var b strings.Builder
	if m.filtering || m.view.Filter != "" {
		b.WriteString(m.filter.View() + "\n\n")
	}
	if len(m.view.Subjects) == 0 {
		b.WriteString(m.styles.Muted.Render("no subjects match"))
		return b.String()
	}
	b.WriteString(m.renderList(m.view.Subjects))
	return b.String()
}

func (m Model) renderList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		if i == m.cursor {
			lines[i] = m.styles.Cursor.Render("› " + item)
		} else {
			lines[i] = "  " + item
		}
	}
	return m.styles.Pane.Render(strings.Join(lines, "\n"))
}

func (m Model) renderQuiz() string {
	s := m.styles
	switch {
	case m.failed != nil:
		return s.ErrorBox.Render(m.failed.Message) + "\n" + s.Muted.Render("r retry · esc back")
	case m.loading != nil:
		return s.Muted.Render(fmt.Sprintf("Loading %s…", m.loading.Topic))
	case m.question == nil:
		return ""
	}

	q := m.question
	var b strings.Builder
	score := q.Score
	if m.locked != nil {
		score = m.locked.Score
	}
	timer := s.Hot.Render(fmt.Sprintf("%ds", m.remaining))
	b.WriteString(s.Muted.Render(fmt.Sprintf("Question %d/%d · Score %d · ", q.Index+1, q.Total, score)) + timer + "\n\n")
	b.WriteString(s.Title.Render(q.Prompt) + "\n\n")

	for i, opt := range q.Options {
		prefix := "  "
		if m.locked == nil && i == m.cursor {
			prefix = "› "
		}
		line := fmt.Sprintf("%s%d. %s", prefix, i+1, opt)
		switch {
		case m.locked != nil && opt == m.locked.Correct:
			line = s.Correct.Render(line)
		case m.locked != nil && opt == m.locked.Selected:
			line = s.Wrong.Render(line)
		case prefix != "  ":
			line = s.Cursor.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.locked != nil {
		b.WriteString("\n" + m.outcomeLine())
	}
	return b.String()
}

func (m Model) outcomeLine() string {
	s := m.styles
	switch m.locked.Outcome {
	case domain.OutcomeCorrect:
		return s.Correct.Render("Correct!")
	case domain.OutcomeTimeout:
		return s.Wrong.Render("Time's up! Answer: " + m.locked.Correct)
	default:
		return s.Wrong.Render("Wrong! Answer: " + m.locked.Correct)
	}
}

func (m Model) renderResults() string {
	s := m.styles
	if m.completed == nil {
		return s.Muted.Render("no results yet")
	}
	c := m.completed
	line := s.Title.Render(fmt.Sprintf("Score: %d/%d", c.Score, c.Total))
	if c.Passed {
		line += "\n" + s.Hot.Render("Great job!")
	} else {
		line += "\n" + s.Muted.Render("Keep practising.")
	}
	return s.Pane.Render(line) + "\n" + s.Muted.Render("r restart · h home · esc topics")
}

func topicNames(topics []domain.Topic) []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}
