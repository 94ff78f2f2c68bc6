package diaryview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pm-backoffice/core/calendar"
	"pm-backoffice/core/diary"
)

// WeekLoader is satisfied by both diary.Service and the REST client.
type WeekLoader interface {
	Week(ctx context.Context, staffID string, pivot calendar.Date) (*diary.WeekView, error)
}

type weekLoadedMsg struct {
	seq  int
	view *diary.WeekView
	err  error
}

// Model is an interactive week view. Only the answer to the latest request is shown; older
// fetches are cancelled and their results dropped.
type Model struct {
	loader  WeekLoader
	staffID string
	timeout time.Duration
	today   func() calendar.Date

	ctx    context.Context
	cancel context.CancelFunc
	seq    int

	pivot   calendar.Date
	view    *diary.WeekView
	err     error
	loading bool
	width   int
}

type Option func(*Model)

func WithTimeout(timeout time.Duration) Option {
	return func(m *Model) { m.timeout = timeout }
}

func WithToday(today func() calendar.Date) Option {
	return func(m *Model) { m.today = today }
}

func New(ctx context.Context, loader WeekLoader, staffID string, pivot calendar.Date, opts ...Option) Model {
	m := Model{
		loader:  loader,
		staffID: staffID,
		timeout: 10 * time.Second,
		today:   func() calendar.Date { return calendar.DateOf(time.Now()) },
		ctx:     ctx,
		pivot:   pivot,
		width:   120,
	}

	for _, opt := range opts {
		opt(&m)
	}

	if m.pivot.IsZero() {
		m.pivot = m.today()
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

type reloadMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reloadMsg:
		return m.load()

	case weekLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.release()
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.view = msg.view
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.release()
			return m, tea.Quit
		case "left", "h":
			m.pivot = m.pivot.AddDays(-calendar.DaysPerWeek)
			return m.load()
		case "right", "l":
			m.pivot = m.pivot.AddDays(calendar.DaysPerWeek)
			return m.load()
		case "t":
			m.pivot = m.today()
			return m.load()
		case "r":
			return m.load()
		}
	}

	return m, nil
}

// load cancels whatever is in flight and fetches the week around the pivot.
func (m Model) load() (Model, tea.Cmd) {
	m.release()

	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)

	m.seq++
	m.cancel = cancel
	m.loading = true

	loader, staffID, pivot, seq := m.loader, m.staffID, m.pivot, m.seq

	return m, func() tea.Msg {
		view, err := loader.Week(ctx, staffID, pivot)
		return weekLoadedMsg{seq: seq, view: view, err: err}
	}
}

func (m *Model) release() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) View() string {
	return render(m.staffID, calendar.WeekOf(m.pivot), m.view, m.err, m.loading, m.width)
}

// Pivot is the date whose week is shown.
func (m Model) Pivot() calendar.Date {
	return m.pivot
}

func (m Model) Loading() bool {
	return m.loading
}
