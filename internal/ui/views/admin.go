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

// OpenTeams signals that the team management view should be shown
type OpenTeams struct{}

type adminTab int

const (
	tabTasks adminTab = iota
	tabAddTask
	tabAnalytics
	tabActivity
)

var adminTabLabels = []string{"Tasks", "Add Task", "Analytics", "Activity"}

// Add-task form focus positions
const (
	addFocusTitle = iota
	addFocusDesc
	addFocusMode
	addFocusAssignees
	addFocusDue
	addFocusPriority
	addFocusSubmit
	addFocusCount
)

// AdminView is the admin dashboard: task overview, task creation,
// analytics, and the activity log
type AdminView struct {
	st     *store.Store
	styles *styles.Styles
	keys   keys.KeyMap
	admin  models.User

	width  int
	height int

	tab    adminTab
	cursor int

	tasks    []models.Task
	users    []models.User
	teams    []models.Team
	activity []models.ActivityEntry

	// Add-task form
	formFocus   int
	groupMode   bool
	title       textinput.Model
	desc        textinput.Model
	due         textinput.Model
	priority    models.Priority
	selected    map[string]bool // assignee emails (individual mode)
	pickCursor  int             // cursor in the assignee/team picker
	pickedTeam  *int64
	formErr     string
	formNotice  string

	// Comment entry on the tasks tab
	commenting   bool
	commentInput textinput.Model

	// Assignee removal mode on the tasks tab
	unassigning    bool
	unassignCursor int
}

// NewAdminView creates the admin dashboard for the given admin user
func NewAdminView(st *store.Store, admin models.User) *AdminView {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500

	due := textinput.New()
	due.Placeholder = "Due date (YYYY-MM-DD)"
	due.CharLimit = 10

	comment := textinput.New()
	comment.Placeholder = "Add a comment..."
	comment.CharLimit = 500

	v := &AdminView{
		st:           st,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		admin:        admin,
		title:        title,
		desc:         desc,
		due:          due,
		priority:     models.PriorityMedium,
		selected:     make(map[string]bool),
		commentInput: comment,
	}
	v.Reload()
	return v
}

// Reload refetches every collection the dashboard displays
func (v *AdminView) Reload() {
	v.tasks = v.st.Tasks()
	v.users = v.st.Users()
	v.teams = v.st.Teams()
	v.activity = v.st.Activity()
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
}

// SetSize records the terminal dimensions
func (v *AdminView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *AdminView) resetForm() {
	v.title.SetValue("")
	v.desc.SetValue("")
	v.due.SetValue("")
	v.priority = models.PriorityMedium
	v.selected = make(map[string]bool)
	v.pickCursor = 0
	v.pickedTeam = nil
	v.formFocus = addFocusTitle
	v.groupMode = false
}

func (v *AdminView) submitTask() {
	input := store.TaskInput{
		Title:       v.title.Value(),
		Description: v.desc.Value(),
		DueDate:     strings.TrimSpace(v.due.Value()),
		Priority:    v.priority,
		CreatedBy:   v.admin.Email,
	}
	if v.groupMode {
		if v.pickedTeam == nil {
			v.formErr = "select a team"
			return
		}
		input.TeamID = v.pickedTeam
	} else {
		for email, on := range v.selected {
			if on {
				input.AssignedTo = append(input.AssignedTo, email)
			}
		}
	}

	task, err := v.st.AddTask(input)
	if err != nil {
		v.formErr = err.Error()
		return
	}
	v.formErr = ""
	v.formNotice = fmt.Sprintf("Task %q created", task.Title)
	v.resetForm()
}

// Update handles messages
func (v *AdminView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.commenting {
		return v.updateCommenting(keyMsg)
	}
	if v.unassigning {
		return v.updateUnassigning(keyMsg)
	}
	if v.tab == tabAddTask {
		return v.updateAddForm(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, v.keys.Left):
		if v.tab > tabTasks {
			v.tab--
		}
	case key.Matches(keyMsg, v.keys.Right):
		if v.tab < tabActivity {
			v.tab++
		}
	case key.Matches(keyMsg, v.keys.Up):
		if v.tab == tabTasks && v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(keyMsg, v.keys.Down):
		if v.tab == tabTasks && v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
	case key.Matches(keyMsg, v.keys.Delete):
		if v.tab == tabTasks && v.cursor < len(v.tasks) {
			v.st.DeleteTask(v.tasks[v.cursor].ID)
		}
	case key.Matches(keyMsg, v.keys.Comment):
		if v.tab == tabTasks && v.cursor < len(v.tasks) {
			v.commenting = true
			v.commentInput.SetValue("")
			v.commentInput.Focus()
		}
	case keyMsg.String() == "u":
		if v.tab == tabTasks && v.cursor < len(v.tasks) && len(v.tasks[v.cursor].AssignedTo) > 0 {
			v.unassigning = true
			v.unassignCursor = 0
		}
	case key.Matches(keyMsg, v.keys.Teams):
		return func() tea.Msg { return OpenTeams{} }
	case key.Matches(keyMsg, v.keys.Logout):
		v.st.Logout()
		return func() tea.Msg { return LoggedOut{} }
	}
	return nil
}

func (v *AdminView) updateCommenting(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.commenting = false
		return nil
	case "enter":
		text := strings.TrimSpace(v.commentInput.Value())
		if text != "" && v.cursor < len(v.tasks) {
			taskID := v.tasks[v.cursor].ID
			v.st.AddComment(taskID, models.Comment{Text: text, Author: "Admin"})
			v.st.LogActivity(fmt.Sprintf("Admin commented on task ID %d", taskID))
		}
		v.commenting = false
		return nil
	}

	var cmd tea.Cmd
	v.commentInput, cmd = v.commentInput.Update(msg)
	return cmd
}

func (v *AdminView) updateUnassigning(msg tea.KeyMsg) tea.Cmd {
	if v.cursor >= len(v.tasks) {
		v.unassigning = false
		return nil
	}
	assignees := v.tasks[v.cursor].AssignedTo

	switch msg.String() {
	case "esc":
		v.unassigning = false
	case "up", "k":
		if v.unassignCursor > 0 {
			v.unassignCursor--
		}
	case "down", "j":
		if v.unassignCursor < len(assignees)-1 {
			v.unassignCursor++
		}
	case "enter":
		if v.unassignCursor < len(assignees) {
			v.st.UnassignTask(v.tasks[v.cursor].ID, assignees[v.unassignCursor])
		}
		v.unassigning = false
	}
	return nil
}

func (v *AdminView) updateAddForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.tab = tabTasks
		return nil
	case "tab":
		v.formFocus = (v.formFocus + 1) % addFocusCount
		v.syncFormFocus()
		return nil
	case "shift+tab":
		v.formFocus = (v.formFocus - 1 + addFocusCount) % addFocusCount
		v.syncFormFocus()
		return nil
	}

	switch v.formFocus {
	case addFocusMode:
		if msg.String() == "left" || msg.String() == "right" || msg.String() == " " {
			v.groupMode = !v.groupMode
			v.pickCursor = 0
		}
		return nil
	case addFocusAssignees:
		return v.updatePicker(msg)
	case addFocusPriority:
		if msg.String() == "left" || msg.String() == "right" {
			v.priority = nextPriority(v.priority, msg.String() == "right")
		}
		return nil
	case addFocusSubmit:
		if msg.String() == "enter" {
			v.submitTask()
		}
		return nil
	}

	var cmd tea.Cmd
	switch v.formFocus {
	case addFocusTitle:
		v.title, cmd = v.title.Update(msg)
	case addFocusDesc:
		v.desc, cmd = v.desc.Update(msg)
	case addFocusDue:
		v.due, cmd = v.due.Update(msg)
	}
	return cmd
}

func (v *AdminView) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if v.groupMode {
		switch msg.String() {
		case "up", "k":
			if v.pickCursor > 0 {
				v.pickCursor--
			}
		case "down", "j":
			if v.pickCursor < len(v.teams)-1 {
				v.pickCursor++
			}
		case " ", "enter":
			if v.pickCursor < len(v.teams) {
				id := v.teams[v.pickCursor].ID
				v.pickedTeam = &id
			}
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if v.pickCursor > 0 {
			v.pickCursor--
		}
	case "down", "j":
		if v.pickCursor < len(v.users)-1 {
			v.pickCursor++
		}
	case " ", "enter":
		if v.pickCursor < len(v.users) {
			email := v.users[v.pickCursor].Email
			v.selected[email] = !v.selected[email]
		}
	}
	return nil
}

func (v *AdminView) syncFormFocus() {
	v.title.Blur()
	v.desc.Blur()
	v.due.Blur()
	switch v.formFocus {
	case addFocusTitle:
		v.title.Focus()
	case addFocusDesc:
		v.desc.Focus()
	case addFocusDue:
		v.due.Focus()
	}
}

func nextPriority(p models.Priority, forward bool) models.Priority {
	order := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	for i, candidate := range order {
		if candidate == p {
			if forward {
				return order[(i+1)%len(order)]
			}
			return order[(i+len(order)-1)%len(order)]
		}
	}
	return models.PriorityMedium
}

// View renders the dashboard
func (v *AdminView) View() string {
	s := v.styles

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Admin Dashboard"),
		s.TitleMuted.Render("Logged in as "+v.admin.Email),
		v.renderTabs(),
		"",
	)

	var body string
	switch v.tab {
	case tabTasks:
		body = v.renderTasks()
	case tabAddTask:
		body = v.renderAddForm()
	case tabAnalytics:
		body = v.renderAnalytics()
	case tabActivity:
		body = v.renderActivity()
	}

	help := s.Help.Render("←/→: tabs • ↑/↓: select • d: delete • c: comment • u: unassign • t: teams • Ctrl+L: logout")
	content := lipgloss.JoinVertical(lipgloss.Left, header, body, help)
	return styles.CenterView(content, v.width, v.height)
}

func (v *AdminView) renderTabs() string {
	s := v.styles
	var tabs []string
	for i, label := range adminTabLabels {
		if adminTab(i) == v.tab {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	return s.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Center, tabs...))
}

func (v *AdminView) renderTasks() string {
	s := v.styles
	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks available.")
	}

	var items []string
	for i, t := range v.tasks {
		items = append(items, v.renderTaskItem(t, i == v.cursor))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, items...)
	if v.commenting {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "",
			"Comment:", s.InputFocused.Render(v.commentInput.View()))
	}
	if v.unassigning && v.cursor < len(v.tasks) {
		var rows []string
		rows = append(rows, s.Title.Render("Remove assignee:"))
		for i, email := range v.tasks[v.cursor].AssignedTo {
			if i == v.unassignCursor {
				rows = append(rows, s.ListSelected.Render(email))
			} else {
				rows = append(rows, s.ListItem.Render(email))
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
	}
	return body
}

func (v *AdminView) renderTaskItem(t models.Task, selected bool) string {
	s := v.styles

	priority := styles.PriorityStyle(s, string(t.Priority)).Render("[" + string(t.Priority) + "]")
	titleLine := fmt.Sprintf("%s %s  (%s, due %s)", priority, t.Title, t.Status, t.DueDate)

	assignees := "Unassigned"
	if len(t.AssignedTo) > 0 {
		assignees = strings.Join(t.AssignedTo, ", ")
	}
	detailLine := "Assigned to: " + assignees
	if len(t.Comments) > 0 {
		detailLine += fmt.Sprintf("  •  %d comment(s)", len(t.Comments))
	}

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}
	width := max(styles.ContentWidth(v.width)-4, 20)
	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(titleLine),
		itemStyle.Width(width).Render(detailLine),
	) + "\n"
}

func (v *AdminView) renderAddForm() string {
	s := v.styles
	inputWidth := clampWidth(styles.ContentWidth(v.width)-10, 20, 50)

	inputStyle := func(focus int) lipgloss.Style {
		if v.formFocus == focus {
			return s.InputFocused
		}
		return s.Input
	}

	mode := "Individual"
	if v.groupMode {
		mode = "Team"
	}
	modeLine := "Assignment mode: " + mode + "  (←/→ to change)"
	if v.formFocus == addFocusMode {
		modeLine = s.ListSelected.Render(modeLine)
	} else {
		modeLine = s.ListItem.Render(modeLine)
	}

	priorityLine := "Priority: " + string(v.priority) + "  (←/→ to change)"
	if v.formFocus == addFocusPriority {
		priorityLine = s.ListSelected.Render(priorityLine)
	} else {
		priorityLine = s.ListItem.Render(priorityLine)
	}

	submit := s.Button
	if v.formFocus == addFocusSubmit {
		submit = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render("Assign New Task"),
		"",
		"Title:",
		inputStyle(addFocusTitle).Width(inputWidth).Render(v.title.View()),
		"Description:",
		inputStyle(addFocusDesc).Width(inputWidth).Render(v.desc.View()),
		modeLine,
		v.renderPicker(),
		"Due date:",
		inputStyle(addFocusDue).Width(inputWidth).Render(v.due.View()),
		priorityLine,
		"",
		submit.Render(" Add Task "),
	}

	if v.formErr != "" {
		rows = append(rows, "", s.Error.Render(v.formErr))
	} else if v.formNotice != "" {
		rows = append(rows, "", s.Success.Render(v.formNotice))
	}
	rows = append(rows, "", s.Help.Render("Tab: next field • Space: toggle selection • ↵ on Add Task: create • Esc: back"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *AdminView) renderPicker() string {
	s := v.styles
	focused := v.formFocus == addFocusAssignees

	var rows []string
	if v.groupMode {
		rows = append(rows, "Team:")
		if len(v.teams) == 0 {
			rows = append(rows, s.TitleMuted.Render("  No teams yet."))
		}
		for i, t := range v.teams {
			marker := "( )"
			if v.pickedTeam != nil && *v.pickedTeam == t.ID {
				marker = "(•)"
			}
			line := fmt.Sprintf("%s %s (%d members)", marker, t.Name, len(t.Members))
			if focused && i == v.pickCursor {
				rows = append(rows, s.ListSelected.Render(line))
			} else {
				rows = append(rows, s.ListItem.Render(line))
			}
		}
	} else {
		rows = append(rows, "Assign to:")
		if len(v.users) == 0 {
			rows = append(rows, s.TitleMuted.Render("  No users yet."))
		}
		for i, u := range v.users {
			marker := "[ ]"
			if v.selected[u.Email] {
				marker = "[x]"
			}
			line := fmt.Sprintf("%s %s", marker, u.Email)
			if focused && i == v.pickCursor {
				rows = append(rows, s.ListSelected.Render(line))
			} else {
				rows = append(rows, s.ListItem.Render(line))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *AdminView) renderAnalytics() string {
	s := v.styles
	summary := store.Analytics(v.tasks)

	inProgress := 0
	for _, t := range v.tasks {
		if t.Status == models.StatusInProgress {
			inProgress++
		}
	}

	rows := []string{
		s.Title.Render("Task Analytics"),
		"",
		fmt.Sprintf("Total tasks:  %d", summary.Total),
		s.Success.Render(fmt.Sprintf("Completed:    %d", summary.Completed)),
		s.Warning.Render(fmt.Sprintf("Pending:      %d", summary.Pending)),
		s.TitleMuted.Render(fmt.Sprintf("In progress:  %d", inProgress)),
	}
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *AdminView) renderActivity() string {
	s := v.styles
	if len(v.activity) == 0 {
		return s.TitleMuted.Render("No activity yet.")
	}

	// Most recent first
	var rows []string
	for i := len(v.activity) - 1; i >= 0; i-- {
		entry := v.activity[i]
		rows = append(rows,
			s.ListItem.Render(entry.Message),
			s.TitleMuted.Render("  "+entry.Date),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func clampWidth(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
