package auth

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/user"
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

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestUser(email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := newTestUser("create@example.com")
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found domain.User
	if err := db.First(&found, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if found.Email != user.Email {
		t.Errorf("expected email %q, got %q", user.Email, found.Email)
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(newTestUser("dup@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Unique index on email is the authoritative backstop
	err := repo.Create(newTestUser("dup@example.com"))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Create() duplicate error = %v, want ErrEmailTaken", err)
	}

	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := newTestUser("find@example.com")
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("existing user", func(t *testing.T) {
		found, err := repo.FindByEmail("find@example.com")
		if err != nil {
			t.Fatalf("FindByEmail() error = %v", err)
		}
		if found.ID != user.ID {
			t.Errorf("expected ID %q, got %q", user.ID, found.ID)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail("missing@example.com")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("FindByEmail() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("lookup is case-sensitive as stored", func(t *testing.T) {
		_, err := repo.FindByEmail("FIND@example.com")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("FindByEmail() error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := newTestUser("byid@example.com")
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Email != user.Email {
		t.Errorf("expected email %q, got %q", user.Email, found.Email)
	}

	if _, err := repo.FindByID("non-existent-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_EmailExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(newTestUser("exists@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exists, err := repo.EmailExists("exists@example.com")
	if err != nil {
		t.Fatalf("EmailExists() error = %v", err)
	}
	if !exists {
		t.Error("EmailExists() = false for existing email")
	}

	exists, err = repo.EmailExists("missing@example.com")
	if err != nil {
		t.Fatalf("EmailExists() error = %v", err)
	}
	if exists {
		t.Error("EmailExists() = true for unknown email")
	}
}
