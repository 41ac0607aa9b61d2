package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse appointments and act on them interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs a terminal; use `appointments list` instead")
			}
			// The view reports login problems itself; printing to stderr
			// would garble the alt screen.
			app.Session.OnLoginRequired(func(string) {})
			return app.runProgram(newBrowseModel(app, scopeFor(caseID)))
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Only appointments for this case")

	return cmd
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Complete key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Confirm:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Complete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "complete")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Complete, k.Refresh, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

// browseLoadedMsg carries the result of a store load.
type browseLoadedMsg struct {
	list []domain.Appointment
	err  error
}

type actionDoneMsg struct {
	out *service.Outcome
	err error
}

// bannerExpiredMsg dismisses the banner with the matching id. Older ticks are
// ignored.
type bannerExpiredMsg struct{ id int }

type banner struct {
	text string
	ok   bool
	id   int
}

// browseModel is the interactive appointment list.
type browseModel struct {
	app   *App
	scope domain.Scope

	list    []domain.Appointment
	cursor  int
	loading bool
	sending bool

	banner    *banner
	bannerSeq int
	bannerTTL time.Duration

	keys browseKeyMap
	help help.Model
}

func newBrowseModel(app *App, scope domain.Scope) *browseModel {
	ttl := time.Duration(0)
	if app.Config != nil {
		ttl = app.Config.BannerTTL
	}
	return &browseModel{
		app:       app,
		scope:     scope,
		loading:   true,
		bannerTTL: ttl,
		keys:      newBrowseKeyMap(),
		help:      help.New(),
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	svc, scope := m.app.Appointments, m.scope
	return func() tea.Msg {
		list, err := svc.Load(context.Background(), scope)
		return browseLoadedMsg{list: list, err: err}
	}
}

func (m *browseModel) act(action domain.Action, id string) tea.Cmd {
	svc := m.app.Appointments
	return func() tea.Msg {
		ctx := context.Background()
		var out *service.Outcome
		var err error
		switch action {
		case domain.ActionConfirm:
			out, err = svc.Confirm(ctx, id)
		case domain.ActionCancel:
			out, err = svc.Cancel(ctx, id)
		case domain.ActionComplete:
			out, err = svc.Complete(ctx, id)
		}
		return actionDoneMsg{out: out, err: err}
	}
}

func (m *browseModel) showBanner(text string, ok bool) tea.Cmd {
	m.bannerSeq++
	id := m.bannerSeq
	m.banner = &banner{text: text, ok: ok, id: id}
	if m.bannerTTL <= 0 {
		return nil
	}
	return tea.Tick(m.bannerTTL, func(time.Time) tea.Msg {
		return bannerExpiredMsg{id: id}
	})
}

func (m *browseModel) showError(err error) tea.Cmd {
	if domain.IsAuthentication(err) {
		return m.showBanner("Please log in again: run `casebridge login --token <token>`", false)
	}
	return m.showBanner(err.Error(), false)
}

func (m *browseModel) selected() (domain.Appointment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return domain.Appointment{}, false
	}
	return m.list[m.cursor], true
}

func (m *browseModel) clampCursor() {
	if m.cursor >= len(m.list) {
		m.cursor = len(m.list) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case browseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.list = msg.list
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		m.sending = false
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.list = m.app.Store.Snapshot()
		m.clampCursor()
		text := msg.out.Message
		if msg.out.ReloadErr != nil {
			text += " (list may be out of date)"
		}
		return m, m.showBanner(text, true)

	case bannerExpiredMsg:
		if m.banner != nil && m.banner.id == msg.id {
			m.banner = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Confirm):
		return m.dispatch(domain.ActionConfirm)
	case key.Matches(msg, m.keys.Cancel):
		return m.dispatch(domain.ActionCancel)
	case key.Matches(msg, m.keys.Complete):
		return m.dispatch(domain.ActionComplete)
	}
	return m, nil
}

// dispatch sends one action for the selected row. Keys are ignored while a
// request is in flight.
func (m *browseModel) dispatch(action domain.Action) (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	a, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.sending = true
	return m, m.act(action, a.ID)
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Appointments · " + m.scope.String()))
	b.WriteString("\n\n")

	now := m.app.now()
	switch {
	case m.loading && len(m.list) == 0:
		b.WriteString(formatter.Dim("Loading…") + "\n")
	case len(m.list) == 0:
		b.WriteString(formatter.Dim("No appointments found.") + "\n")
	default:
		for i, a := range m.list {
			marker := "  "
			if i == m.cursor {
				marker = formatter.StyleHeader.Render("› ")
			}
			fmt.Fprintf(&b, "%s%-22s %-10s %-14s %s  %s\n",
				marker,
				formatter.DateTime(a.Date),
				formatter.RelativeDateFrom(a.Date, now),
				formatter.Truncate(string(a.Type), 14),
				formatter.StatusPill(a, domain.Expired(a, now)),
				formatter.Dim(formatter.ActionsLabel(domain.PermittedActions(a, now))),
			)
		}
	}

	b.WriteString("\n")
	switch {
	case m.sending:
		b.WriteString(formatter.Dim("Sending…") + "\n")
	case m.banner != nil && m.banner.ok:
		b.WriteString(formatter.Success(m.banner.text) + "\n")
	case m.banner != nil:
		b.WriteString(formatter.Failure(m.banner.text) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
