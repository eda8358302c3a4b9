package store

import "taskboard/internal/models"

// Activity returns a snapshot of the admin activity log
func (s *Store) Activity() []models.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActivityEntry, len(s.activity))
	copy(out, s.activity)
	return out
}

// LogActivity appends a record to the admin activity log. Used for admin
// actions that are not logged by the store itself, such as commenting.
func (s *Store) LogActivity(message string) error {
	s.mu.Lock()
	if err := s.appendActivityLocked(message); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// appendActivityLocked persists one log entry. Callers must hold mu.
func (s *Store) appendActivityLocked(message string) error {
	entry := models.ActivityEntry{
		ID:      s.newID(),
		Message: message,
		Date:    s.now().Format(timeFormat),
	}

	activity := make([]models.ActivityEntry, len(s.activity), len(s.activity)+1)
	copy(activity, s.activity)
	activity = append(activity, entry)

	if err := s.persist(keyActivity, activity); err != nil {
		return err
	}
	s.activity = activity
	return nil
}
