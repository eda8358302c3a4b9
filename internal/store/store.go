// Package store is the sole authority over the application's collections:
// users, tasks, teams, the session, and the admin activity log. Collections
// live in memory and are persisted wholesale to the key-value layer after
// every mutation; subscribers are notified after every successful persist and
// are expected to re-read the collections they care about. Concurrent writers
// are resolved last-write-wins with no merge.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"taskboard/internal/db"
	"taskboard/internal/models"
)

// Collection keys in the key-value layer. These names are the persisted
// contract: external tooling and older data files rely on them.
const (
	keyUsers    = "users"
	keyTasks    = "tasks"
	keyTeams    = "teams"
	keySession  = "user"
	keyActivity = "activity"
)

const timeFormat = "2006-01-02 15:04:05"

// Store owns the canonical collections and their persistence
type Store struct {
	db  *db.DB
	log *logrus.Entry

	mu       sync.Mutex
	users    []models.User
	tasks    []models.Task
	teams    []models.Team
	activity []models.ActivityEntry
	session  *models.User

	subscribers map[int]func()
	nextSub     int

	lastID int64
	now    func() time.Time
}

// Open loads all collections from the database. A missing or corrupt
// collection value decodes to an empty collection rather than failing: a
// damaged data file should never make the application unstartable.
func Open(database *db.DB, log *logrus.Entry) (*Store, error) {
	s := &Store{
		db:          database,
		log:         log,
		subscribers: make(map[int]func()),
		now:         time.Now,
	}

	s.loadCollection(keyUsers, &s.users)
	s.loadCollection(keyTasks, &s.tasks)
	s.loadCollection(keyTeams, &s.teams)
	s.loadCollection(keyActivity, &s.activity)
	s.loadSession()

	for _, u := range s.users {
		s.trackID(u.ID)
	}
	for _, t := range s.tasks {
		s.trackID(t.ID)
	}
	for _, t := range s.teams {
		s.trackID(t.ID)
	}
	for _, e := range s.activity {
		s.trackID(e.ID)
	}

	return s, nil
}

func (s *Store) loadCollection(key string, dest interface{}) {
	raw, err := s.db.Get(key)
	if err != nil {
		s.log.WithError(err).Warnf("reading %q, starting empty", key)
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.WithError(err).Warnf("malformed %q collection, starting empty", key)
	}
}

func (s *Store) loadSession() {
	raw, err := s.db.Get(keySession)
	if err != nil || len(raw) == 0 {
		return
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.WithError(err).Warn("malformed session, starting logged out")
		return
	}
	s.session = &u
}

func (s *Store) trackID(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

// newID returns the current timestamp in milliseconds, bumped past the last
// issued id so that ids stay unique and monotonic even within one
// millisecond. Callers must hold mu.
func (s *Store) newID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persist writes one collection wholesale. Callers must hold mu and must not
// commit the mutation to memory until persist succeeds.
func (s *Store) persist(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	if err := s.db.Put(key, raw); err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

// Subscribe registers fn to be called after every successful mutation, with
// no payload: subscribers re-read whatever collections they display. The
// returned func unregisters the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify fans out the change signal. Called after mu is released so that
// subscribers may call back into the store.
func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Users returns a snapshot of the user collection
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Tasks returns a snapshot of the task collection
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Teams returns a snapshot of the team collection
func (s *Store) Teams() []models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// UserByEmail looks a user up by case-insensitive email
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := normalizeEmail(email)
	for _, u := range s.users {
		if normalizeEmail(u.Email) == needle {
			return u, true
		}
	}
	return models.User{}, false
}
