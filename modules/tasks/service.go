package tasks

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task title is empty.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned when a status is outside the enumeration.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrNotTaskOwner is returned when a task belongs to a different user.
	ErrNotTaskOwner = errors.New("access to this task is denied")
)

// CreateInput holds the caller-supplied fields for a new task.
type CreateInput struct {
	Title       string
	Description string
	Status      domain.Status // empty defaults to pending
}

// Patch describes a partial task update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *domain.Status
	CompletedAt *time.Time
}

// TaskService implements task CRUD with per-task ownership enforcement
// and the status-derived completion-timestamp rule.
type TaskService struct {
	repo  *TaskRepository
	cache *StatsCache // nil when no cache is configured
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository, cache *StatsCache) *TaskService {
	return &TaskService{
		repo:  repo,
		cache: cache,
	}
}

// Create builds and stores a task for the given owner. Status defaults to
// pending; a task created directly as done gets its completion timestamp
// set so the done/completed-at invariant holds from birth.
func (s *TaskService) Create(ctx context.Context, input CreateInput, ownerID string) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: input.Description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == domain.StatusDone {
		task.CompletedAt = &now
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// List returns the owner's tasks, most recent first.
func (s *TaskService) List(_ context.Context, ownerID string) ([]*domain.Task, error) {
	return s.repo.FindByOwner(ownerID)
}

// GetOwned fetches a task by ID and enforces ownership: ErrTaskNotFound
// when the ID is unknown, ErrNotTaskOwner when the task belongs to a
// different user. This check is the sole per-task access control.
func (s *TaskService) GetOwned(_ context.Context, id, ownerID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// Update applies a partial update to an owned task. The completion
// timestamp is derived from the patched status:
//   - status set to done without an explicit timestamp: completed-at = now
//   - status set to anything else: completed-at cleared, even if supplied
//   - status absent: the rule leaves the patch alone
func (s *TaskService) Update(ctx context.Context, id string, patch Patch, ownerID string) (*domain.Task, error) {
	current, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		changes["title"] = title
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}

	if patch.Status != nil {
		status := *patch.Status
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		changes["status"] = status

		if status == domain.StatusDone {
			if patch.CompletedAt != nil {
				changes["completed_at"] = *patch.CompletedAt
			} else {
				changes["completed_at"] = time.Now()
			}
		} else {
			changes["completed_at"] = nil
		}
	} else if patch.CompletedAt != nil {
		changes["completed_at"] = *patch.CompletedAt
	}

	if len(changes) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, ownerID)
	return updated, nil
}

// Delete permanently removes an owned task.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}

// Statistics computes per-status counts over the owner's current tasks.
// Counts are never persisted; the cache is invalidated on every mutation
// so a hit always reflects current data.
func (s *TaskService) Statistics(ctx context.Context, ownerID string) (*domain.Statistics, error) {
	if s.cache != nil {
		var cached domain.Statistics
		if hit, err := s.cache.Get(ctx, ownerID, &cached); err == nil && hit {
			return &cached, nil
		}
		// cache errors are non-fatal; fall through to the store
	}

	tasks, err := s.repo.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	stats := &domain.Statistics{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusDone:
			stats.Done++
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, stats); err != nil {
			log.Printf("[tasks] Warning: failed to cache statistics for owner %s: %v", ownerID, err)
		}
	}

	return stats, nil
}

func (s *TaskService) invalidateStats(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		log.Printf("[tasks] Warning: failed to invalidate statistics cache for owner %s: %v", ownerID, err)
	}
}
