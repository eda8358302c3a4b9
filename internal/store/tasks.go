package store

import (
	"fmt"
	"strings"

	"taskboard/internal/models"
)

// TaskInput carries the fields for creating a task. Exactly one assignment
// mode applies: an explicit assignee list (individual) or a team whose
// current members are snapshotted into the assignee list (group).
type TaskInput struct {
	Title       string
	Description string
	AssignedTo  []string
	TeamID      *int64
	DueDate     string
	Priority    models.Priority
	Status      models.Status
	CreatedBy   string
}

func (s *Store) cloneTasksLocked() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// AddTask creates a task. Title and due date are required, and the task must
// resolve to at least one assignee. Team assignment copies the member emails
// at creation time; later membership changes do not touch the task.
func (s *Store) AddTask(input TaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(input.DueDate) == "" {
		return models.Task{}, NewValidationError("dueDate", "due date is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, NewValidationError("priority", "unknown priority")
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return models.Task{}, NewValidationError("status", "unknown status")
	}

	s.mu.Lock()

	var assignees models.Assignees
	var teamID *int64
	if input.TeamID != nil {
		team, ok := s.findTeamLocked(*input.TeamID)
		if !ok {
			s.mu.Unlock()
			return models.Task{}, ErrTeamNotFound
		}
		for _, u := range s.users {
			if team.HasMember(u.ID) {
				assignees = append(assignees, u.Email)
			}
		}
		if len(assignees) == 0 {
			s.mu.Unlock()
			return models.Task{}, NewValidationError("teamId", "team has no members")
		}
		id := team.ID
		teamID = &id
	} else {
		assignees = models.NormalizeAssignees(input.AssignedTo...)
		if len(assignees) == 0 {
			s.mu.Unlock()
			return models.Task{}, NewValidationError("assignedTo", "at least one assignee is required")
		}
	}

	task := models.Task{
		ID:          s.newID(),
		Title:       title,
		Description: input.Description,
		AssignedTo:  assignees,
		TeamID:      teamID,
		DueDate:     input.DueDate,
		Priority:    priority,
		Status:      status,
		Comments:    []models.Comment{},
		CreatedBy:   input.CreatedBy,
	}

	tasks := append(s.cloneTasksLocked(), task)
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return models.Task{}, err
	}
	s.tasks = tasks

	var message string
	if teamID != nil {
		message = fmt.Sprintf("Task %q assigned to group (%s)", task.Title, strings.Join(assignees, ", "))
	} else {
		message = fmt.Sprintf("Task %q assigned to %s", task.Title, strings.Join(assignees, ", "))
	}
	if err := s.appendActivityLocked(message); err != nil {
		s.mu.Unlock()
		return models.Task{}, err
	}
	s.mu.Unlock()

	s.log.WithField("task", task.Title).Info("task created")
	s.notify()
	return task, nil
}

// AssignTask replaces the task's assignee list with the given emails
// (a bare scalar wraps into a one-element list) and stamps the assignment
// time. Unknown task ids are a no-op.
func (s *Store) AssignTask(taskID int64, emails ...string) error {
	assignees := models.NormalizeAssignees(emails...)

	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	tasks := s.cloneTasksLocked()
	tasks[idx].AssignedTo = assignees
	tasks[idx].AssignedAt = s.now().Format(timeFormat)
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// UnassignTask removes a single email from the task's assignee list.
// Removing an absent email or an unknown task is a no-op.
func (s *Store) UnassignTask(taskID int64, email string) error {
	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 || !s.tasks[idx].AssignedTo.Contains(email) {
		s.mu.Unlock()
		return nil
	}

	tasks := s.cloneTasksLocked()
	kept := make(models.Assignees, 0, len(tasks[idx].AssignedTo))
	for _, e := range tasks[idx].AssignedTo {
		if e != email {
			kept = append(kept, e)
		}
	}
	tasks[idx].AssignedTo = kept
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddTaskMember adds a user to the task's collaborator list. Adding a user
// who is already a member, or to an unknown task, is a no-op.
func (s *Store) AddTaskMember(taskID, userID int64) error {
	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 || s.tasks[idx].HasMember(userID) {
		s.mu.Unlock()
		return nil
	}

	tasks := s.cloneTasksLocked()
	tasks[idx].Members = append(append([]int64{}, tasks[idx].Members...), userID)
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// RemoveTaskMember removes a user from the task's collaborator list.
// Removing an absent user is a no-op, not an error.
func (s *Store) RemoveTaskMember(taskID, userID int64) error {
	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 || !s.tasks[idx].HasMember(userID) {
		s.mu.Unlock()
		return nil
	}

	tasks := s.cloneTasksLocked()
	kept := make([]int64, 0, len(tasks[idx].Members))
	for _, id := range tasks[idx].Members {
		if id != userID {
			kept = append(kept, id)
		}
	}
	tasks[idx].Members = kept
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddComment appends a comment to the task. Unknown task ids are a no-op.
// The timestamp is stamped if the caller left it empty.
func (s *Store) AddComment(taskID int64, comment models.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return nil
	}

	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	if comment.Time == "" {
		comment.Time = s.now().Format(timeFormat)
	}

	tasks := s.cloneTasksLocked()
	tasks[idx].Comments = append(append([]models.Comment{}, tasks[idx].Comments...), comment)
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// UpdateStatus sets the task's status. The value must come from the closed
// status set, but any status may move to any other: finished is terminal by
// convention only.
func (s *Store) UpdateStatus(taskID int64, status models.Status) error {
	if !status.Valid() {
		return NewValidationError("status", "unknown status")
	}

	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	tasks := s.cloneTasksLocked()
	tasks[idx].Status = status
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks
	s.mu.Unlock()

	s.notify()
	return nil
}

// DeleteTask removes the task unconditionally and records the deletion in
// the activity log. Unknown task ids are a no-op.
func (s *Store) DeleteTask(taskID int64) error {
	s.mu.Lock()
	idx := s.findTaskLocked(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	tasks := make([]models.Task, 0, len(s.tasks)-1)
	for _, t := range s.tasks {
		if t.ID != taskID {
			tasks = append(tasks, t)
		}
	}
	if err := s.persist(keyTasks, tasks); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tasks = tasks

	if err := s.appendActivityLocked(fmt.Sprintf("Admin deleted task ID %d", taskID)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.log.WithField("taskId", taskID).Info("task deleted")
	s.notify()
	return nil
}

func (s *Store) findTaskLocked(taskID int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// TasksForUser returns the tasks whose assignee list contains email
func (s *Store) TasksForUser(email string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.AssignedTo.Contains(email) {
			out = append(out, t)
		}
	}
	return out
}

// GroupTasksForUser returns the tasks assigned to email together with at
// least one other person
func (s *Store) GroupTasksForUser(email string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.AssignedTo.Contains(email) && len(t.AssignedTo) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// TasksForTeam returns the tasks created by group assignment to the team
func (s *Store) TasksForTeam(teamID int64) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.TeamID != nil && *t.TeamID == teamID {
			out = append(out, t)
		}
	}
	return out
}

// Summary aggregates completion counts over a task list
type Summary struct {
	Total     int
	Completed int
	Pending   int
}

// Analytics computes completion counts for tasks. Both "Done" and
// "Completed" statuses count as completed.
func Analytics(tasks []models.Task) Summary {
	summary := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status.Finished() {
			summary.Completed++
		}
	}
	summary.Pending = summary.Total - summary.Completed
	return summary
}
