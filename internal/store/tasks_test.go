package store_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/store"
)

func TestAddTaskDefaults(t *testing.T) {
	st := newTestStore(t)
	signupUser(t, st, "Bob", "bob@example.com")

	task, err := st.AddTask(store.TaskInput{
		Title:      "Fix the build",
		AssignedTo: []string{"bob@example.com"},
		DueDate:    "2026-09-15",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.NotNil(t, task.Comments)
	assert.Empty(t, task.Comments)
	assert.Equal(t, models.Assignees{"bob@example.com"}, task.AssignedTo)

	// Creation is recorded in the activity log.
	activity := st.Activity()
	require.Len(t, activity, 1)
	assert.Contains(t, activity[0].Message, "Fix the build")
	assert.Contains(t, activity[0].Message, "bob@example.com")
}

func TestAddTaskValidation(t *testing.T) {
	st := newTestStore(t)

	_, err := st.AddTask(store.TaskInput{DueDate: "2026-09-15", AssignedTo: []string{"a@b.c"}})
	assert.True(t, store.IsValidation(err))

	_, err = st.AddTask(store.TaskInput{Title: "No due date", AssignedTo: []string{"a@b.c"}})
	assert.True(t, store.IsValidation(err))

	_, err = st.AddTask(store.TaskInput{Title: "Nobody", DueDate: "2026-09-15"})
	assert.True(t, store.IsValidation(err))

	assert.Empty(t, st.Tasks())
	assert.Empty(t, st.Activity())
}

func TestAddTaskDeduplicatesAssignees(t *testing.T) {
	st := newTestStore(t)

	task := addTask(t, st, "Shared work", "a@example.com", " a@example.com", "b@example.com", "")
	assert.Equal(t, models.Assignees{"a@example.com", "b@example.com"}, task.AssignedTo)
}

func TestAddTaskToTeamSnapshotsMembers(t *testing.T) {
	st := newTestStore(t)
	admin, err := st.Signup("Ana", "ana@example.com", "pw", models.RoleAdmin, nil)
	require.NoError(t, err)
	bob := signupUser(t, st, "Bob", "bob@example.com")
	cat := signupUser(t, st, "Cat", "cat@example.com")

	team, err := st.CreateTeam("Backend", admin.ID)
	require.NoError(t, err)
	require.NoError(t, st.AddUserToTeam(bob.ID, team.ID))
	require.NoError(t, st.AddUserToTeam(cat.ID, team.ID))

	task, err := st.AddTask(store.TaskInput{
		Title:   "Ship the feature",
		TeamID:  &team.ID,
		DueDate: "2026-09-15",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob@example.com", "cat@example.com"}, []string(task.AssignedTo))
	require.NotNil(t, task.TeamID)
	assert.Equal(t, team.ID, *task.TeamID)

	// Leaving the team later does not touch the snapshot.
	require.NoError(t, st.RemoveUserFromTeam(cat.ID, team.ID))
	tasks := st.TasksForTeam(team.ID)
	require.Len(t, tasks, 1)
	assert.ElementsMatch(t, []string{"bob@example.com", "cat@example.com"}, []string(tasks[0].AssignedTo))
}

func TestAddTaskToUnknownOrEmptyTeam(t *testing.T) {
	st := newTestStore(t)
	admin, err := st.Signup("Ana", "ana@example.com", "pw", models.RoleAdmin, nil)
	require.NoError(t, err)

	missing := int64(12345)
	_, err = st.AddTask(store.TaskInput{Title: "x", TeamID: &missing, DueDate: "2026-09-15"})
	assert.ErrorIs(t, err, store.ErrTeamNotFound)

	team, err := st.CreateTeam("Empty", admin.ID)
	require.NoError(t, err)
	_, err = st.AddTask(store.TaskInput{Title: "x", TeamID: &team.ID, DueDate: "2026-09-15"})
	assert.True(t, store.IsValidation(err))
}

func TestAssignTaskReplacesAndStamps(t *testing.T) {
	st := newTestStore(t)
	task := addTask(t, st, "Rotate on call", "a@example.com")

	require.NoError(t, st.AssignTask(task.ID, "b@example.com", "c@example.com", "b@example.com"))

	tasks := st.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, models.Assignees{"b@example.com", "c@example.com"}, tasks[0].AssignedTo)
	assert.NotEmpty(t, tasks[0].AssignedAt)

	// Assigning the same person twice keeps a single entry.
	require.NoError(t, st.AssignTask(task.ID, "b@example.com", "b@example.com"))
	tasks = st.Tasks()
	assert.Equal(t, models.Assignees{"b@example.com"}, tasks[0].AssignedTo)

	// Unknown task ids are a no-op.
	require.NoError(t, st.AssignTask(99999, "x@example.com"))
	assert.Len(t, st.Tasks(), 1)
}

func TestUnassignTask(t *testing.T) {
	st := newTestStore(t)
	task := addTask(t, st, "Shared", "a@example.com", "b@example.com")

	require.NoError(t, st.UnassignTask(task.ID, "a@example.com"))
	tasks := st.Tasks()
	assert.Equal(t, models.Assignees{"b@example.com"}, tasks[0].AssignedTo)

	// Absent email and unknown task are both no-ops.
	require.NoError(t, st.UnassignTask(task.ID, "gone@example.com"))
	require.NoError(t, st.UnassignTask(99999, "b@example.com"))
	assert.Equal(t, models.Assignees{"b@example.com"}, st.Tasks()[0].AssignedTo)
}

func TestTaskMembers(t *testing.T) {
	st := newTestStore(t)
	bob := signupUser(t, st, "Bob", "bob@example.com")
	task := addTask(t, st, "Collaborate", "bob@example.com")

	require.NoError(t, st.AddTaskMember(task.ID, bob.ID))
	require.NoError(t, st.AddTaskMember(task.ID, bob.ID)) // idempotent
	assert.Equal(t, []int64{bob.ID}, st.Tasks()[0].Members)

	require.NoError(t, st.RemoveTaskMember(task.ID, bob.ID))
	require.NoError(t, st.RemoveTaskMember(task.ID, bob.ID)) // no-op
	assert.Empty(t, st.Tasks()[0].Members)

	require.NoError(t, st.AddTaskMember(99999, bob.ID))
	assert.Len(t, st.Tasks(), 1)
}

func TestAddComment(t *testing.T) {
	st := newTestStore(t)
	task := addTask(t, st, "Discuss", "a@example.com")

	require.NoError(t, st.AddComment(task.ID, models.Comment{Text: "looks good", Author: "a@example.com"}))

	comments := st.Tasks()[0].Comments
	require.Len(t, comments, 1)
	assert.Equal(t, "looks good", comments[0].Text)
	assert.NotEmpty(t, comments[0].Time)

	// Blank comments and unknown tasks are skipped silently.
	require.NoError(t, st.AddComment(task.ID, models.Comment{Text: "   "}))
	require.NoError(t, st.AddComment(99999, models.Comment{Text: "lost"}))
	assert.Len(t, st.Tasks()[0].Comments, 1)
}

func TestUpdateStatus(t *testing.T) {
	st := newTestStore(t)
	task := addTask(t, st, "Track me", "a@example.com")

	for _, status := range []models.Status{
		models.StatusInProgress,
		models.StatusDone,
		models.StatusTodo, // finished is not terminal
		models.StatusCompleted,
	} {
		require.NoError(t, st.UpdateStatus(task.ID, status))
		assert.Equal(t, status, st.Tasks()[0].Status)
	}

	err := st.UpdateStatus(task.ID, "Blocked")
	assert.True(t, store.IsValidation(err))
	assert.Equal(t, models.StatusCompleted, st.Tasks()[0].Status)

	require.NoError(t, st.UpdateStatus(99999, models.StatusDone))
}

func TestDeleteTask(t *testing.T) {
	st := newTestStore(t)
	task := addTask(t, st, "Doomed", "a@example.com")
	keep := addTask(t, st, "Survivor", "a@example.com")

	require.NoError(t, st.DeleteTask(task.ID))

	tasks := st.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)

	activity := st.Activity()
	var found bool
	for _, e := range activity {
		if strings.Contains(e.Message, "deleted task") {
			found = true
		}
	}
	assert.True(t, found)

	require.NoError(t, st.DeleteTask(task.ID)) // already gone
	assert.Len(t, st.Tasks(), 1)
}

func TestTaskQueries(t *testing.T) {
	st := newTestStore(t)
	addTask(t, st, "Solo", "a@example.com")
	addTask(t, st, "Pair", "a@example.com", "b@example.com")
	addTask(t, st, "Other", "b@example.com")

	mine := st.TasksForUser("a@example.com")
	require.Len(t, mine, 2)

	group := st.GroupTasksForUser("a@example.com")
	require.Len(t, group, 1)
	assert.Equal(t, "Pair", group[0].Title)

	assert.Empty(t, st.TasksForUser("nobody@example.com"))
}

func TestAnalytics(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusDone},
		{Status: models.StatusCompleted},
		{Status: models.StatusTodo},
		{Status: models.StatusInProgress},
	}

	summary := store.Analytics(tasks)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, summary.Total, summary.Completed+summary.Pending)

	empty := store.Analytics(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Completed)
	assert.Zero(t, empty.Pending)
}

func TestLogActivity(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.LogActivity("Admin commented on task ID 42"))

	activity := st.Activity()
	require.Len(t, activity, 1)
	assert.Equal(t, "Admin commented on task ID 42", activity[0].Message)
	assert.NotEmpty(t, activity[0].Date)
	assert.NotZero(t, activity[0].ID)
}
