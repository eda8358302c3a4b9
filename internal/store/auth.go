package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"taskboard/internal/models"
)

// sanitize prepares credential input for comparison: trim surrounding
// whitespace, NFKC-normalize, and strip zero-width characters. Stored
// records may have been entered inconsistently, so both sides of every
// comparison pass through here.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(sanitize(email))
}

// Signup creates a new user and logs them in. Email uniqueness is
// case-insensitive. A non-nil teamID joins the new user to that team. The
// user and session keys are both persisted.
func (s *Store) Signup(name, email, password string, role models.Role, teamID *int64) (models.User, error) {
	name = strings.TrimSpace(name)
	email = sanitize(email)
	password = sanitize(password)

	if name == "" {
		return models.User{}, NewValidationError("name", "name is required")
	}
	if email == "" {
		return models.User{}, NewValidationError("email", "email is required")
	}
	if password == "" {
		return models.User{}, NewValidationError("password", "password is required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.User{}, NewValidationError("role", "unknown role")
	}

	s.mu.Lock()
	needle := normalizeEmail(email)
	for _, u := range s.users {
		if normalizeEmail(u.Email) == needle {
			s.mu.Unlock()
			return models.User{}, ErrDuplicateEmail
		}
	}
	if teamID != nil {
		if _, ok := s.findTeamLocked(*teamID); !ok {
			s.mu.Unlock()
			return models.User{}, ErrTeamNotFound
		}
	}

	user := models.User{
		ID:       s.newID(),
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if teamID != nil {
		id := *teamID
		user.TeamID = &id
	}

	users := append(append([]models.User{}, s.users...), user)
	if err := s.persist(keyUsers, users); err != nil {
		s.mu.Unlock()
		return models.User{}, err
	}
	s.users = users

	if teamID != nil {
		teams := s.cloneTeamsLocked()
		for i := range teams {
			if teams[i].ID == *teamID && !teams[i].HasMember(user.ID) {
				teams[i].Members = append(append([]int64{}, teams[i].Members...), user.ID)
			}
		}
		if err := s.persist(keyTeams, teams); err != nil {
			s.mu.Unlock()
			return models.User{}, err
		}
		s.teams = teams
	}

	// Auto-login
	if err := s.persist(keySession, user); err != nil {
		s.mu.Unlock()
		return models.User{}, err
	}
	session := user
	s.session = &session
	s.mu.Unlock()

	s.log.WithField("email", user.Email).Info("user signed up")
	s.notify()
	return user, nil
}

// Login matches the sanitized credentials against the user collection
// (email case-insensitive) and sets the session on success.
func (s *Store) Login(email, password string) (models.User, error) {
	needle := normalizeEmail(email)
	password = sanitize(password)

	s.mu.Lock()
	var found *models.User
	for i := range s.users {
		u := &s.users[i]
		if normalizeEmail(u.Email) == needle && sanitize(u.Password) == password {
			found = u
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return models.User{}, ErrInvalidCredentials
	}

	if err := s.persist(keySession, *found); err != nil {
		s.mu.Unlock()
		return models.User{}, err
	}
	session := *found
	s.session = &session
	user := *found
	s.mu.Unlock()

	s.log.WithField("email", user.Email).Info("user logged in")
	s.notify()
	return user, nil
}

// Logout clears the session. The users, tasks, and teams collections are
// untouched.
func (s *Store) Logout() error {
	s.mu.Lock()
	if err := s.db.Delete(keySession); err != nil {
		s.mu.Unlock()
		return &PersistenceError{Key: keySession, Err: err}
	}
	s.session = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// CurrentUser returns the logged-in user, if any
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.User{}, false
	}
	return *s.session, true
}

// refreshSessionLocked keeps the persisted session in step with a user
// record that was just mutated. Callers must hold mu.
func (s *Store) refreshSessionLocked(user models.User) error {
	if s.session == nil || s.session.ID != user.ID {
		return nil
	}
	if err := s.persist(keySession, user); err != nil {
		return err
	}
	session := user
	s.session = &session
	return nil
}
