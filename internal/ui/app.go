// Package ui wires the task board views into a single bubbletea program.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/views"
)

// View is a screen of the application
type View interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	Reload()
	SetSize(width, height int)
}

// changedMsg is emitted whenever the store reports a data change
type changedMsg struct{}

// App is the root model: it routes between login, the dashboards and
// team management, and reloads the active view when the store changes
type App struct {
	st      *store.Store
	active  View
	changes chan struct{}
	width   int
	height  int
}

// NewApp builds the application model and subscribes to store changes
func NewApp(st *store.Store) *App {
	app := &App{
		st:      st,
		changes: make(chan struct{}, 1),
	}
	st.Subscribe(func() {
		select {
		case app.changes <- struct{}{}:
		default:
		}
	})

	if user, ok := st.CurrentUser(); ok {
		app.active = viewFor(st, user)
	} else {
		app.active = views.NewAuthView(st)
	}
	return app
}

func viewFor(st *store.Store, user models.User) View {
	if user.Role == models.RoleAdmin {
		return views.NewAdminView(st, user)
	}
	return views.NewBoardView(st, user)
}

// Init starts listening for store changes
func (a *App) Init() tea.Cmd {
	return a.listenForChanges()
}

func (a *App) listenForChanges() tea.Cmd {
	return func() tea.Msg {
		<-a.changes
		return changedMsg{}
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.active.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case changedMsg:
		a.active.Reload()
		return a, a.listenForChanges()

	case views.LoggedIn:
		a.setActive(viewFor(a.st, msg.User))
		return a, nil

	case views.LoggedOut:
		a.setActive(views.NewAuthView(a.st))
		return a, nil

	case views.OpenTeams:
		if user, ok := a.st.CurrentUser(); ok {
			a.setActive(views.NewTeamsView(a.st, user))
		}
		return a, nil

	case views.CloseTeams:
		if user, ok := a.st.CurrentUser(); ok {
			a.setActive(viewFor(a.st, user))
		}
		return a, nil
	}

	return a, a.active.Update(msg)
}

func (a *App) setActive(v View) {
	a.active = v
	a.active.SetSize(a.width, a.height)
}

// View renders the active screen
func (a *App) View() string {
	return a.active.View()
}
