package store

import (
	"strings"

	"taskboard/internal/models"
)

func (s *Store) cloneUsersLocked() []models.User {
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) cloneTeamsLocked() []models.Team {
	out := make([]models.Team, len(s.teams))
	copy(out, s.teams)
	return out
}

func (s *Store) findTeamLocked(teamID int64) (models.Team, bool) {
	for _, t := range s.teams {
		if t.ID == teamID {
			return t, true
		}
	}
	return models.Team{}, false
}

func (s *Store) findUserLocked(userID int64) int {
	for i := range s.users {
		if s.users[i].ID == userID {
			return i
		}
	}
	return -1
}

// CreateTeam creates a team with the given user as its sole admin. The
// admin's user record gains the team-admin flag but the admin is not
// automatically a member. The session is refreshed if the admin is the
// logged-in user.
func (s *Store) CreateTeam(name string, adminUserID int64) (models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Team{}, NewValidationError("name", "team name is required")
	}

	s.mu.Lock()
	idx := s.findUserLocked(adminUserID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Team{}, ErrUserNotFound
	}

	team := models.Team{
		ID:      s.newID(),
		Name:    name,
		AdminID: adminUserID,
		Members: []int64{},
	}

	teams := append(s.cloneTeamsLocked(), team)
	if err := s.persist(keyTeams, teams); err != nil {
		s.mu.Unlock()
		return models.Team{}, err
	}

	users := s.cloneUsersLocked()
	users[idx].IsTeamAdmin = true
	if err := s.persist(keyUsers, users); err != nil {
		s.mu.Unlock()
		return models.Team{}, err
	}

	s.teams = teams
	s.users = users
	if err := s.refreshSessionLocked(users[idx]); err != nil {
		s.mu.Unlock()
		return models.Team{}, err
	}
	s.mu.Unlock()

	s.log.WithField("team", team.Name).Info("team created")
	s.notify()
	return team, nil
}

// AddUserToTeam adds a user to the team's member set and points the user's
// record at the team. Adding a user who is already a member is a no-op.
func (s *Store) AddUserToTeam(userID, teamID int64) error {
	s.mu.Lock()
	team, ok := s.findTeamLocked(teamID)
	if !ok {
		s.mu.Unlock()
		return ErrTeamNotFound
	}
	idx := s.findUserLocked(userID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUserNotFound
	}
	if team.HasMember(userID) {
		s.mu.Unlock()
		return nil
	}

	teams := s.cloneTeamsLocked()
	for i := range teams {
		if teams[i].ID == teamID {
			teams[i].Members = append(append([]int64{}, teams[i].Members...), userID)
		}
	}
	if err := s.persist(keyTeams, teams); err != nil {
		s.mu.Unlock()
		return err
	}

	users := s.cloneUsersLocked()
	id := teamID
	users[idx].TeamID = &id
	if err := s.persist(keyUsers, users); err != nil {
		s.mu.Unlock()
		return err
	}

	s.teams = teams
	s.users = users
	if err := s.refreshSessionLocked(users[idx]); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// RemoveUserFromTeam removes a user from the team's member set and clears
// the user's team reference. Tasks already assigned from the team keep
// their assignee snapshot. Removing a non-member is a no-op.
func (s *Store) RemoveUserFromTeam(userID, teamID int64) error {
	s.mu.Lock()
	team, ok := s.findTeamLocked(teamID)
	if !ok || !team.HasMember(userID) {
		s.mu.Unlock()
		return nil
	}

	teams := s.cloneTeamsLocked()
	for i := range teams {
		if teams[i].ID != teamID {
			continue
		}
		kept := make([]int64, 0, len(teams[i].Members))
		for _, id := range teams[i].Members {
			if id != userID {
				kept = append(kept, id)
			}
		}
		teams[i].Members = kept
	}
	if err := s.persist(keyTeams, teams); err != nil {
		s.mu.Unlock()
		return err
	}
	s.teams = teams

	idx := s.findUserLocked(userID)
	if idx >= 0 && s.users[idx].TeamID != nil && *s.users[idx].TeamID == teamID {
		users := s.cloneUsersLocked()
		users[idx].TeamID = nil
		if err := s.persist(keyUsers, users); err != nil {
			s.mu.Unlock()
			return err
		}
		s.users = users
		if err := s.refreshSessionLocked(users[idx]); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// MembersOfTeam returns the users in the team's member set
func (s *Store) MembersOfTeam(teamID int64) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.findTeamLocked(teamID)
	if !ok {
		return nil
	}
	var out []models.User
	for _, u := range s.users {
		if team.HasMember(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

// DeleteUser removes a user and strips every reference to them from the task
// assignee and collaborator lists and from team member sets. A team cannot
// lose its admin: deleting a user with the team-admin flag fails and leaves
// every collection unchanged. Unknown user ids are a no-op.
func (s *Store) DeleteUser(userID int64) error {
	s.mu.Lock()
	idx := s.findUserLocked(userID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	if s.users[idx].IsTeamAdmin {
		s.mu.Unlock()
		return ErrTeamAdmin
	}
	email := s.users[idx].Email

	users := make([]models.User, 0, len(s.users)-1)
	for _, u := range s.users {
		if u.ID != userID {
			users = append(users, u)
		}
	}

	tasks := s.cloneTasksLocked()
	for i := range tasks {
		if tasks[i].AssignedTo.Contains(email) {
			kept := make(models.Assignees, 0, len(tasks[i].AssignedTo))
			for _, e := range tasks[i].AssignedTo {
				if e != email {
					kept = append(kept, e)
				}
			}
			tasks[i].AssignedTo = kept
		}
		if tasks[i].HasMember(userID) {
			kept := make([]int64, 0, len(tasks[i].Members))
			for _, id := range tasks[i].Members {
				if id != userID {
					kept = append(kept, id)
				}
			}
			tasks[i].Members = kept
		}
	}

	teams := s.cloneTeamsLocked()
	for i := range teams {
		if !teams[i].HasMember(userID) {
			continue
		}
		kept := make([]int64, 0, len(teams[i].Members))
		for _, id := range teams[i].Members {
			if id != userID {
				kept = append(kept, id)
			}
		}
		teams[i].Members = kept
	}

	if err := s.persist(keyUsers, users); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(keyTeams, teams); err != nil {
		s.mu.Unlock()
		return err
	}
	s.users = users
	s.tasks = tasks
	s.teams = teams
	s.mu.Unlock()

	s.log.WithField("email", email).Info("user deleted")
	s.notify()
	return nil
}
