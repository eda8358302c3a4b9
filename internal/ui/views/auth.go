package views

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

// LoggedIn signals a successful login or signup
type LoggedIn struct {
	User models.User
}

// LoggedOut signals that the session was cleared
type LoggedOut struct{}

// Auth focus positions. Signup mode uses all of them; login mode skips
// name and role.
const (
	authFocusName = iota
	authFocusEmail
	authFocusPassword
	authFocusRole
	authFocusSubmit
	authFocusSwitch
)

// AuthView renders the login and signup forms
type AuthView struct {
	st     *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	signup   bool
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	role     models.Role
	focus    int
	errMsg   string
}

// NewAuthView creates the auth view in login mode
func NewAuthView(st *store.Store) *AuthView {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	v := &AuthView{
		st:       st,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		name:     name,
		email:    email,
		password: password,
		role:     models.RoleUser,
		focus:    authFocusEmail,
	}
	v.email.Focus()
	return v
}

// Reload is a no-op: the auth view holds no collection state
func (v *AuthView) Reload() {}

// SetSize records the terminal dimensions
func (v *AuthView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *AuthView) fields() []int {
	if v.signup {
		return []int{authFocusName, authFocusEmail, authFocusPassword, authFocusRole, authFocusSubmit, authFocusSwitch}
	}
	return []int{authFocusEmail, authFocusPassword, authFocusSubmit, authFocusSwitch}
}

func (v *AuthView) moveFocus(delta int) {
	fields := v.fields()
	current := 0
	for i, f := range fields {
		if f == v.focus {
			current = i
			break
		}
	}
	next := (current + delta + len(fields)) % len(fields)
	v.focus = fields[next]

	v.name.Blur()
	v.email.Blur()
	v.password.Blur()
	switch v.focus {
	case authFocusName:
		v.name.Focus()
	case authFocusEmail:
		v.email.Focus()
	case authFocusPassword:
		v.password.Focus()
	}
}

func (v *AuthView) submit() tea.Cmd {
	var user models.User
	var err error
	if v.signup {
		user, err = v.st.Signup(v.name.Value(), v.email.Value(), v.password.Value(), v.role, nil)
	} else {
		user, err = v.st.Login(v.email.Value(), v.password.Value())
	}
	if err != nil {
		v.errMsg = err.Error()
		return nil
	}

	v.errMsg = ""
	v.password.SetValue("")
	return func() tea.Msg { return LoggedIn{User: user} }
}

func (v *AuthView) switchMode() {
	v.signup = !v.signup
	v.errMsg = ""
	if v.signup {
		v.focus = authFocusName
		v.email.Blur()
		v.password.Blur()
		v.name.Focus()
	} else {
		v.focus = authFocusEmail
		v.name.Blur()
		v.password.Blur()
		v.email.Focus()
	}
}

// Update handles messages
func (v *AuthView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		v.moveFocus(1)
		return nil
	case "shift+tab", "up":
		v.moveFocus(-1)
		return nil
	case "left", "right":
		if v.focus == authFocusRole {
			if v.role == models.RoleUser {
				v.role = models.RoleAdmin
			} else {
				v.role = models.RoleUser
			}
			return nil
		}
	case "enter":
		switch v.focus {
		case authFocusSwitch:
			v.switchMode()
			return nil
		case authFocusPassword, authFocusSubmit:
			return v.submit()
		default:
			v.moveFocus(1)
			return nil
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case authFocusName:
		v.name, cmd = v.name.Update(msg)
	case authFocusEmail:
		v.email, cmd = v.email.Update(msg)
	case authFocusPassword:
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

// View renders the form
func (v *AuthView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := contentWidth - 10
	if inputWidth > 40 {
		inputWidth = 40
	}
	if inputWidth < 20 {
		inputWidth = 20
	}

	title := "Login"
	if v.signup {
		title = "Sign up"
	}

	inputStyle := func(focus int) lipgloss.Style {
		if v.focus == focus {
			return s.InputFocused
		}
		return s.Input
	}

	var rows []string
	rows = append(rows, s.Title.Render(title), "")

	if v.signup {
		rows = append(rows,
			"Name:",
			inputStyle(authFocusName).Width(inputWidth).Render(v.name.View()),
			"",
		)
	}
	rows = append(rows,
		"Email:",
		inputStyle(authFocusEmail).Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		inputStyle(authFocusPassword).Width(inputWidth).Render(v.password.View()),
		"",
	)

	if v.signup {
		roleLabel := "Role: " + string(v.role) + "  (←/→ to change)"
		if v.focus == authFocusRole {
			rows = append(rows, s.ListSelected.Render(roleLabel), "")
		} else {
			rows = append(rows, s.ListItem.Render(roleLabel), "")
		}
	}

	submitStyle := s.Button
	if v.focus == authFocusSubmit {
		submitStyle = s.ButtonFocused
	}
	rows = append(rows, submitStyle.Render(" "+title+" "))

	switchLabel := "Don't have an account? Sign up"
	if v.signup {
		switchLabel = "Already have an account? Login"
	}
	if v.focus == authFocusSwitch {
		rows = append(rows, s.ListSelected.Render(switchLabel))
	} else {
		rows = append(rows, s.TitleMuted.Render(switchLabel))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.Error.Render(v.errMsg))
	}

	rows = append(rows, "", s.Help.Render("Tab: next field • ↵: confirm • Ctrl+C: quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}
