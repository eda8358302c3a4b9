package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

// CloseTeams signals a return to the admin dashboard
type CloseTeams struct{}

type teamsMode int

const (
	teamsModeList teamsMode = iota
	teamsModeCreate
	teamsModeMembers
)

// TeamsView manages teams and their membership: creating teams,
// adding and removing members, and removing user accounts
type TeamsView struct {
	st     *store.Store
	styles *styles.Styles
	keys   keys.KeyMap
	admin  models.User

	width  int
	height int

	mode       teamsMode
	teamCursor int
	userCursor int

	teams []models.Team
	users []models.User

	nameInput textinput.Model
	errMsg    string
	notice    string
}

// NewTeamsView creates the team management view
func NewTeamsView(st *store.Store, admin models.User) *TeamsView {
	name := textinput.New()
	name.Placeholder = "Team name"
	name.CharLimit = 100

	v := &TeamsView{
		st:        st,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		admin:     admin,
		nameInput: name,
	}
	v.Reload()
	return v
}

// Reload refetches teams and users
func (v *TeamsView) Reload() {
	v.teams = v.st.Teams()
	v.users = v.st.Users()
	if v.teamCursor >= len(v.teams) {
		v.teamCursor = max(0, len(v.teams)-1)
	}
	if v.userCursor >= len(v.users) {
		v.userCursor = max(0, len(v.users)-1)
	}
}

// SetSize records the terminal dimensions
func (v *TeamsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles messages
func (v *TeamsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch v.mode {
	case teamsModeCreate:
		return v.updateCreate(keyMsg)
	case teamsModeMembers:
		return v.updateMembers(keyMsg)
	}
	return v.updateList(keyMsg)
}

func (v *TeamsView) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return CloseTeams{} }
	case "up", "k":
		if v.teamCursor > 0 {
			v.teamCursor--
		}
	case "down", "j":
		if v.teamCursor < len(v.teams)-1 {
			v.teamCursor++
		}
	case "n":
		v.mode = teamsModeCreate
		v.nameInput.SetValue("")
		v.nameInput.Focus()
		v.errMsg = ""
	case "enter":
		if v.teamCursor < len(v.teams) {
			v.mode = teamsModeMembers
			v.userCursor = 0
			v.errMsg = ""
		}
	}
	return nil
}

func (v *TeamsView) updateCreate(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = teamsModeList
		return nil
	case "enter":
		team, err := v.st.CreateTeam(v.nameInput.Value(), v.admin.ID)
		if err != nil {
			v.errMsg = err.Error()
			return nil
		}
		v.errMsg = ""
		v.notice = fmt.Sprintf("Team %q created", team.Name)
		v.mode = teamsModeList
		return nil
	}

	var cmd tea.Cmd
	v.nameInput, cmd = v.nameInput.Update(msg)
	return cmd
}

func (v *TeamsView) updateMembers(msg tea.KeyMsg) tea.Cmd {
	if v.teamCursor >= len(v.teams) {
		v.mode = teamsModeList
		return nil
	}
	team := v.teams[v.teamCursor]

	switch msg.String() {
	case "esc":
		v.mode = teamsModeList
	case "up", "k":
		if v.userCursor > 0 {
			v.userCursor--
		}
	case "down", "j":
		if v.userCursor < len(v.users)-1 {
			v.userCursor++
		}
	case " ", "enter":
		if v.userCursor < len(v.users) {
			u := v.users[v.userCursor]
			var err error
			if team.HasMember(u.ID) {
				err = v.st.RemoveUserFromTeam(u.ID, team.ID)
			} else {
				err = v.st.AddUserToTeam(u.ID, team.ID)
			}
			if err != nil {
				v.errMsg = err.Error()
			} else {
				v.errMsg = ""
			}
		}
	case "x":
		if v.userCursor < len(v.users) {
			u := v.users[v.userCursor]
			if err := v.st.DeleteUser(u.ID); err != nil {
				v.errMsg = err.Error()
			} else {
				v.errMsg = ""
				v.notice = fmt.Sprintf("Removed user %s", u.Email)
			}
		}
	}
	return nil
}

// View renders the team management screen
func (v *TeamsView) View() string {
	s := v.styles

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Team Management"),
		"",
	)

	var body string
	switch v.mode {
	case teamsModeCreate:
		body = v.renderCreate()
	case teamsModeMembers:
		body = v.renderMembers()
	default:
		body = v.renderList()
	}

	if v.errMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", s.Error.Render(v.errMsg))
	} else if v.notice != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", s.Success.Render(v.notice))
	}

	var help string
	switch v.mode {
	case teamsModeCreate:
		help = s.Help.Render("↵: create • Esc: cancel")
	case teamsModeMembers:
		help = s.Help.Render("Space: toggle membership • x: remove user account • Esc: back")
	default:
		help = s.Help.Render("n: new team • ↵: manage members • Esc: back to dashboard")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, "", help)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TeamsView) renderList() string {
	s := v.styles
	if len(v.teams) == 0 {
		return s.TitleMuted.Render("No teams yet. Press n to create one.")
	}

	var rows []string
	for i, t := range v.teams {
		line := fmt.Sprintf("%s (%d members)", t.Name, len(t.Members))
		if i == v.teamCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TeamsView) renderCreate() string {
	s := v.styles
	return lipgloss.JoinVertical(lipgloss.Left,
		"Team name:",
		s.InputFocused.Width(40).Render(v.nameInput.View()),
	)
}

func (v *TeamsView) renderMembers() string {
	s := v.styles
	if v.teamCursor >= len(v.teams) {
		return ""
	}
	team := v.teams[v.teamCursor]

	rows := []string{s.Title.Render(team.Name), ""}
	for i, u := range v.users {
		marker := "[ ]"
		if team.HasMember(u.ID) {
			marker = "[x]"
		}
		label := u.Email
		if u.IsTeamAdmin {
			label += " " + s.Warning.Render("(team admin)")
		}
		line := fmt.Sprintf("%s %s", marker, label)
		if i == v.userCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
