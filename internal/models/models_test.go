package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssigneesUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Assignees
	}{
		{"list", `["a@example.com","b@example.com"]`, Assignees{"a@example.com", "b@example.com"}},
		{"scalar", `"a@example.com"`, Assignees{"a@example.com"}},
		{"empty list", `[]`, Assignees{}},
		{"empty scalar", `""`, nil},
		{"null", `null`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Assignees
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}

	var got Assignees
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestAssigneesUnmarshalInsideTask(t *testing.T) {
	raw := `{"id":1,"title":"Old record","assignedTo":"solo@example.com","dueDate":"2026-01-01","priority":"High","status":"To Do","comments":[]}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, Assignees{"solo@example.com"}, task.AssignedTo)
}

func TestNormalizeAssignees(t *testing.T) {
	got := NormalizeAssignees(" a@example.com", "b@example.com", "a@example.com", "", "  ")
	assert.Equal(t, Assignees{"a@example.com", "b@example.com"}, got)

	assert.Empty(t, NormalizeAssignees())
}

func TestStatusFinished(t *testing.T) {
	assert.True(t, StatusDone.Finished())
	assert.True(t, StatusCompleted.Finished())
	assert.False(t, StatusTodo.Finished())
	assert.False(t, StatusInProgress.Finished())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusInProgress, StatusDone, StatusCompleted} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("Blocked").Valid())
	assert.False(t, Status("").Valid())
}

func TestTeamHasMember(t *testing.T) {
	team := Team{Members: []int64{1, 2}}
	assert.True(t, team.HasMember(2))
	assert.False(t, team.HasMember(3))
}

func TestUserJSONFieldNames(t *testing.T) {
	teamID := int64(7)
	u := User{ID: 1, Name: "Ana", Email: "ana@example.com", Role: RoleAdmin, TeamID: &teamID, IsTeamAdmin: true}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "teamId")
	assert.Contains(t, fields, "isTeamAdmin")
}
