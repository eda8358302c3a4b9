package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/models"
	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

type boardFilter int

const (
	filterMine boardFilter = iota
	filterGroup
	filterTeam
)

var boardFilterLabels = []string{"My Tasks", "Group Tasks", "Team Tasks"}

// BoardView is the regular user's dashboard: their assigned tasks,
// shared group tasks, and their team's tasks
type BoardView struct {
	st     *store.Store
	styles *styles.Styles
	keys   keys.KeyMap
	user   models.User

	width  int
	height int

	filter boardFilter
	cursor int
	tasks  []models.Task
	errMsg string

	commenting   bool
	commentInput textinput.Model

	// Task member management (m)
	managing      bool
	memberCursor  int
	memberChoices []models.User
}

// NewBoardView creates the dashboard for the given user
func NewBoardView(st *store.Store, user models.User) *BoardView {
	comment := textinput.New()
	comment.Placeholder = "Add a comment..."
	comment.CharLimit = 500

	v := &BoardView{
		st:           st,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		user:         user,
		commentInput: comment,
	}
	v.Reload()
	return v
}

// Reload refetches the task list for the active filter
func (v *BoardView) Reload() {
	if u, ok := v.st.CurrentUser(); ok {
		v.user = u
	}
	switch v.filter {
	case filterMine:
		v.tasks = v.st.TasksForUser(v.user.Email)
	case filterGroup:
		v.tasks = v.st.GroupTasksForUser(v.user.Email)
	case filterTeam:
		if v.user.TeamID != nil {
			v.tasks = v.st.TasksForTeam(*v.user.TeamID)
		} else {
			v.tasks = nil
		}
	}
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
}

// SetSize records the terminal dimensions
func (v *BoardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.commenting {
		return v.updateCommenting(keyMsg)
	}
	if v.managing {
		return v.updateManaging(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, v.keys.Left):
		if v.filter > filterMine {
			v.filter--
			v.cursor = 0
			v.Reload()
		}
	case key.Matches(keyMsg, v.keys.Right):
		if v.filter < filterTeam {
			v.filter++
			v.cursor = 0
			v.Reload()
		}
	case key.Matches(keyMsg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(keyMsg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
	case key.Matches(keyMsg, v.keys.Status):
		if v.cursor < len(v.tasks) {
			next := nextStatus(v.tasks[v.cursor].Status)
			if err := v.st.UpdateStatus(v.tasks[v.cursor].ID, next); err != nil {
				v.errMsg = err.Error()
			} else {
				v.errMsg = ""
			}
		}
	case key.Matches(keyMsg, v.keys.Comment):
		if v.cursor < len(v.tasks) {
			v.commenting = true
			v.commentInput.SetValue("")
			v.commentInput.Focus()
		}
	case key.Matches(keyMsg, v.keys.Members):
		if v.cursor < len(v.tasks) && v.user.TeamID != nil {
			v.memberChoices = v.st.MembersOfTeam(*v.user.TeamID)
			if len(v.memberChoices) > 0 {
				v.managing = true
				v.memberCursor = 0
			}
		}
	case key.Matches(keyMsg, v.keys.Logout):
		v.st.Logout()
		return func() tea.Msg { return LoggedOut{} }
	}
	return nil
}

func (v *BoardView) updateCommenting(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.commenting = false
		return nil
	case "enter":
		text := strings.TrimSpace(v.commentInput.Value())
		if text != "" && v.cursor < len(v.tasks) {
			v.st.AddComment(v.tasks[v.cursor].ID, models.Comment{
				Text:   text,
				Author: v.user.Email,
			})
		}
		v.commenting = false
		return nil
	}

	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return cmd
}

func (v *BoardView) updateManaging(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.managing = false
	case "up", "k":
		if v.memberCursor > 0 {
			v.memberCursor--
		}
	case "down", "j":
		if v.memberCursor < len(v.memberChoices)-1 {
			v.memberCursor++
		}
	case " ", "enter":
		if v.cursor < len(v.tasks) && v.memberCursor < len(v.memberChoices) {
			task := v.tasks[v.cursor]
			member := v.memberChoices[v.memberCursor]
			if task.HasMember(member.ID) {
				v.st.RemoveTaskMember(task.ID, member.ID)
			} else {
				v.st.AddTaskMember(task.ID, member.ID)
			}
		}
	}
	return nil
}

// nextStatus cycles To Do -> In Progress -> Done -> To Do
func nextStatus(s models.Status) models.Status {
	switch s {
	case models.StatusTodo:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusDone
	default:
		return models.StatusTodo
	}
}

// View renders the dashboard
func (v *BoardView) View() string {
	s := v.styles

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("My Dashboard"),
		s.TitleMuted.Render("Logged in as "+v.user.Email),
		v.renderFilters(),
		"",
	)

	var body string
	if len(v.tasks) == 0 {
		body = s.TitleMuted.Render("No tasks here.")
	} else {
		var items []string
		for i, t := range v.tasks {
			items = append(items, v.renderTaskItem(t, i == v.cursor))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	if v.commenting {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "",
			"Comment:", s.InputFocused.Render(v.commentInput.View()))
	}
	if v.managing {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", v.renderMemberPicker())
	}
	if v.errMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", s.Error.Render(v.errMsg))
	}

	help := s.Help.Render("←/→: filter • ↑/↓: select • s: status • c: comment • m: members • Ctrl+L: logout")
	content := lipgloss.JoinVertical(lipgloss.Left, header, body, help)
	return styles.CenterView(content, v.width, v.height)
}

func (v *BoardView) renderFilters() string {
	s := v.styles
	var tabs []string
	for i, label := range boardFilterLabels {
		if boardFilter(i) == v.filter {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	return s.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Center, tabs...))
}

func (v *BoardView) renderTaskItem(t models.Task, selected bool) string {
	s := v.styles

	priority := styles.PriorityStyle(s, string(t.Priority)).Render("[" + string(t.Priority) + "]")
	titleLine := fmt.Sprintf("%s %s  (%s, due %s)", priority, t.Title, t.Status, t.DueDate)

	var detail []string
	if len(t.AssignedTo) > 1 {
		detail = append(detail, "shared with "+strings.Join(t.AssignedTo, ", "))
	}
	if len(t.Comments) > 0 {
		last := t.Comments[len(t.Comments)-1]
		detail = append(detail, fmt.Sprintf("%d comment(s), last by %s", len(t.Comments), last.Author))
	}
	detailLine := strings.Join(detail, "  •  ")

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}
	width := max(styles.ContentWidth(v.width)-4, 20)

	lines := []string{itemStyle.Width(width).Render(titleLine)}
	if detailLine != "" {
		lines = append(lines, itemStyle.Width(width).Render(detailLine))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (v *BoardView) renderMemberPicker() string {
	s := v.styles
	if v.cursor >= len(v.tasks) {
		return ""
	}
	task := v.tasks[v.cursor]

	rows := []string{s.Title.Render("Task members (space to toggle):")}
	for i, m := range v.memberChoices {
		marker := "[ ]"
		if task.HasMember(m.ID) {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s", marker, m.Email)
		if i == v.memberCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
