package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/store"
)

func TestSignupAndLogin(t *testing.T) {
	st := newTestStore(t)

	u, err := st.Signup("Bob", "BOB@example.com", "hunter2", models.RoleUser, nil)
	require.NoError(t, err)
	assert.Equal(t, "BOB@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotZero(t, u.ID)

	// Signup auto-logs-in.
	current, ok := st.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, current.ID)

	require.NoError(t, st.Logout())
	_, ok = st.CurrentUser()
	assert.False(t, ok)

	// Email match is case-insensitive.
	logged, err := st.Login("bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
}

func TestSignupValidation(t *testing.T) {
	st := newTestStore(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "a@example.com", "pw"},
		{"missing email", "Ana", "", "pw"},
		{"missing password", "Ana", "a@example.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := st.Signup(tc.userName, tc.email, tc.password, models.RoleUser, nil)
			assert.True(t, store.IsValidation(err))
		})
	}

	assert.Empty(t, st.Users())
}

func TestSignupDefaultsRole(t *testing.T) {
	st := newTestStore(t)

	u, err := st.Signup("Ana", "ana@example.com", "pw", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
}

func TestSignupWithTeam(t *testing.T) {
	st := newTestStore(t)
	admin, err := st.Signup("Ana", "ana@example.com", "pw", models.RoleAdmin, nil)
	require.NoError(t, err)
	team, err := st.CreateTeam("Backend", admin.ID)
	require.NoError(t, err)

	u, err := st.Signup("Bob", "bob@example.com", "pw", models.RoleUser, &team.ID)
	require.NoError(t, err)
	require.NotNil(t, u.TeamID)
	assert.Equal(t, team.ID, *u.TeamID)
	assert.Equal(t, []int64{u.ID}, st.Teams()[0].Members)

	missing := int64(99999)
	_, err = st.Signup("Cat", "cat@example.com", "pw", models.RoleUser, &missing)
	assert.ErrorIs(t, err, store.ErrTeamNotFound)
}

func TestSignupDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	signupUser(t, st, "Bob", "bob@example.com")

	_, err := st.Signup("Imposter", "BOB@example.com", "other", models.RoleUser, nil)
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	// The rejected signup left the collection unchanged.
	assert.Len(t, st.Users(), 1)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newTestStore(t)
	signupUser(t, st, "Bob", "bob@example.com")

	_, err := st.Login("bob@example.com", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = st.Login("nobody@example.com", "secret")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestLoginSanitizesCredentials(t *testing.T) {
	st := newTestStore(t)
	signupUser(t, st, "Bob", "bob@example.com")

	// Surrounding whitespace on input is ignored on both fields.
	u, err := st.Login("  bob@example.com  ", " secret ")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
}

func TestLogoutKeepsCollections(t *testing.T) {
	st := newTestStore(t)
	signupUser(t, st, "Bob", "bob@example.com")
	addTask(t, st, "Keep me", "bob@example.com")

	require.NoError(t, st.Logout())

	assert.Len(t, st.Users(), 1)
	assert.Len(t, st.Tasks(), 1)
}

func TestUserByEmail(t *testing.T) {
	st := newTestStore(t)
	u := signupUser(t, st, "Bob", "bob@example.com")

	found, ok := st.UserByEmail("BOB@example.com")
	require.True(t, ok)
	assert.Equal(t, u.ID, found.ID)

	_, ok = st.UserByEmail("nobody@example.com")
	assert.False(t, ok)
}
