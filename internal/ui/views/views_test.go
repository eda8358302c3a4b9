package views

import (
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/db"
	"taskboard/internal/models"
	"taskboard/internal/store"
)

func newViewStore(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "taskboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	st, err := store.Open(database, logrus.NewEntry(log))
	require.NoError(t, err)
	return st
}

func TestAuthViewRender(t *testing.T) {
	st := newViewStore(t)
	v := NewAuthView(st)
	v.SetSize(80, 24)

	out := v.View()
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "Email")
	assert.Contains(t, out, "Password")
}

func TestAuthViewSubmitEmitsLoggedIn(t *testing.T) {
	st := newViewStore(t)
	_, err := st.Signup("Bob", "bob@example.com", "pw", models.RoleUser, nil)
	require.NoError(t, err)
	require.NoError(t, st.Logout())

	v := NewAuthView(st)
	v.SetSize(80, 24)
	v.email.SetValue("bob@example.com")
	v.password.SetValue("pw")
	v.focus = authFocusSubmit

	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(LoggedIn)
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", msg.User.Email)
}

func TestAuthViewRendersError(t *testing.T) {
	st := newViewStore(t)
	v := NewAuthView(st)
	v.SetSize(80, 24)
	v.email.SetValue("nobody@example.com")
	v.password.SetValue("wrong")
	v.focus = authFocusSubmit

	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "invalid credentials")
}

func TestAdminViewRender(t *testing.T) {
	st := newViewStore(t)
	admin, err := st.Signup("Ana", "ana@example.com", "pw", models.RoleAdmin, nil)
	require.NoError(t, err)

	_, err = st.AddTask(store.TaskInput{
		Title:      "Review backlog",
		AssignedTo: []string{"ana@example.com"},
		DueDate:    "2026-09-15",
		CreatedBy:  admin.Email,
	})
	require.NoError(t, err)

	v := NewAdminView(st, admin)
	v.SetSize(80, 40)

	out := v.View()
	assert.Contains(t, out, "Admin Dashboard")
	assert.Contains(t, out, "Review backlog")
}

func TestBoardViewRender(t *testing.T) {
	st := newViewStore(t)
	user, err := st.Signup("Bob", "bob@example.com", "pw", models.RoleUser, nil)
	require.NoError(t, err)

	_, err = st.AddTask(store.TaskInput{
		Title:      "Fix typo",
		AssignedTo: []string{"bob@example.com"},
		DueDate:    "2026-09-15",
	})
	require.NoError(t, err)

	v := NewBoardView(st, user)
	v.SetSize(80, 40)

	out := v.View()
	assert.Contains(t, out, "My Dashboard")
	assert.Contains(t, out, "Fix typo")
}

func TestTeamsViewRender(t *testing.T) {
	st := newViewStore(t)
	admin, err := st.Signup("Ana", "ana@example.com", "pw", models.RoleAdmin, nil)
	require.NoError(t, err)
	_, err = st.CreateTeam("Backend", admin.ID)
	require.NoError(t, err)

	v := NewTeamsView(st, admin)
	v.SetSize(80, 40)

	out := v.View()
	assert.Contains(t, out, "Team Management")
	assert.Contains(t, out, "Backend")
}
