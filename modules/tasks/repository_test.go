package tasks

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestTask(ownerID string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		ID:        uuid.New().String(),
		Title:     "Test Task",
		Status:    domain.StatusPending,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTaskRepository_CreateAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	task := newTestTask("owner-1", time.Now())
	task.Description = "a description"
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}
	if found.Description != task.Description {
		t.Errorf("expected description %q, got %q", task.Description, found.Description)
	}
	if found.CompletedAt != nil {
		t.Errorf("expected no completion timestamp, got %v", found.CompletedAt)
	}

	if _, err := repo.FindByID("non-existent-id"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskRepository_FindByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	oldest := newTestTask("owner-1", base)
	middle := newTestTask("owner-1", base.Add(1*time.Hour))
	newest := newTestTask("owner-1", base.Add(2*time.Hour))
	other := newTestTask("owner-2", base.Add(3*time.Hour))

	// Insert out of creation order
	for _, task := range []*domain.Task{middle, oldest, other, newest} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, err := repo.FindByOwner("owner-1")
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("FindByOwner() returned %d tasks, want 3", len(tasks))
	}

	// Most recent first, other owners excluded
	want := []string{newest.ID, middle.ID, oldest.ID}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %v, want %v", i, tasks[i].ID, id)
		}
	}
}

func TestTaskRepository_FindByOwner_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	tasks, err := repo.FindByOwner("owner-without-tasks")
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("FindByOwner() returned %d tasks, want 0", len(tasks))
	}
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	task := newTestTask("owner-1", time.Now())
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("partial update", func(t *testing.T) {
		updated, err := repo.Update(task.ID, map[string]any{
			"title":  "Renamed",
			"status": domain.StatusInProgress,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("title = %q, want %q", updated.Title, "Renamed")
		}
		if updated.Status != domain.StatusInProgress {
			t.Errorf("status = %q, want %q", updated.Status, domain.StatusInProgress)
		}
	})

	t.Run("nil clears a column", func(t *testing.T) {
		now := time.Now()
		if _, err := repo.Update(task.ID, map[string]any{
			"status":       domain.StatusDone,
			"completed_at": now,
		}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		updated, err := repo.Update(task.ID, map[string]any{
			"status":       domain.StatusPending,
			"completed_at": nil,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.CompletedAt != nil {
			t.Errorf("completed_at = %v, want nil", updated.CompletedAt)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Update("non-existent-id", map[string]any{"title": "x"})
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)

	task := newTestTask("owner-1", time.Now())
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Deletion is permanent
	if _, err := repo.FindByID(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("FindByID() after delete error = %v, want ErrTaskNotFound", err)
	}

	if err := repo.Delete(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Delete() repeat error = %v, want ErrTaskNotFound", err)
	}
}
