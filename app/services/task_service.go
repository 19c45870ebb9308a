package services

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"todo-ai/app/models"

	"github.com/google/uuid"
)

// TaskService owns every task held by the process. All methods are safe for
// concurrent use and return copies, never references into the store.
type TaskService struct {
	mu    sync.RWMutex
	tasks map[string]*entry
	seq   uint64
	last  time.Time
	now   func() time.Time
	newID func() string
}

type entry struct {
	task models.Task
	seq  uint64
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides how task ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

// NewTaskService creates an empty TaskService.
func NewTaskService(opts ...Option) *TaskService {
	s := &TaskService{
		tasks: make(map[string]*entry),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTasks returns all tasks, newest first. Tasks sharing a timestamp are
// ordered by reverse insertion.
func (s *TaskService) ListTasks() []models.Task {
	s.mu.RLock()
	snapshot := make([]entry, 0, len(s.tasks))
	for _, e := range s.tasks {
		snapshot = append(snapshot, entry{task: cloneTask(e.task), seq: e.seq})
	}
	s.mu.RUnlock()

	slices.SortFunc(snapshot, func(a, b entry) int {
		if c := b.task.CreatedAt.Compare(a.task.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	tasks := make([]models.Task, 0, len(snapshot))
	for _, e := range snapshot {
		tasks = append(tasks, e.task)
	}
	return tasks
}

// CreateTask stores a new task. parentPrompt is only kept for AI-generated tasks.
func (s *TaskService) CreateTask(title string, isAIGenerated bool, parentPrompt *string) models.Task {
	task := models.Task{
		ID:            s.newID(),
		Title:         title,
		IsAIGenerated: isAIGenerated,
	}
	if isAIGenerated && parentPrompt != nil {
		p := *parentPrompt
		task.ParentPrompt = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Creation times never run backwards, even if the wall clock does.
	created := s.now()
	if created.Before(s.last) {
		created = s.last
	}
	s.last = created
	task.CreatedAt = created

	s.seq++
	s.tasks[task.ID] = &entry{task: task, seq: s.seq}
	return cloneTask(task)
}

// GetTask retrieves a single task by its ID.
func (s *TaskService) GetTask(taskID string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return models.Task{}, false
	}
	return cloneTask(e.task), true
}

// UpdateTask applies the non-nil fields of update to an existing task.
func (s *TaskService) UpdateTask(taskID string, update models.UpdateTaskRequest) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return models.Task{}, false
	}
	if update.Completed != nil {
		e.task.Completed = *update.Completed
	}
	if update.Title != nil {
		e.task.Title = *update.Title
	}
	return cloneTask(e.task), true
}

// DeleteTask removes a task and reports whether it existed.
func (s *TaskService) DeleteTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return false
	}
	delete(s.tasks, taskID)
	return true
}

// Count returns the number of stored tasks.
func (s *TaskService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func cloneTask(t models.Task) models.Task {
	if t.ParentPrompt != nil {
		p := *t.ParentPrompt
		t.ParentPrompt = &p
	}
	return t
}
