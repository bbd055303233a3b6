package service

import (
	"context"
	"errors"
	"testing"

	"cookbook/internal/repository"
)

func TestRegisterUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(repository.NewUserRepository(db))

	req := RegisterUserRequest{
		Username: "alice",
		Password: "correct horse",
		Email:    "alice@example.com",
		FullName: "Alice Doe",
	}

	user, err := users.Register(context.Background(), req)
	if err != nil {
		t.Fatal("Failed to register:", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("Unexpected registered user: %+v", user)
	}
	if len(user.Permissions) != 0 {
		t.Errorf("Expected no permissions on a fresh account, got %v", user.Permissions)
	}
	if user.Disabled {
		t.Error("Expected a fresh account to be enabled")
	}

	if _, err := users.Register(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate username, got %v", err)
	}
}

func TestGetAndListUsers(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(repository.NewUserRepository(db))

	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := users.Register(context.Background(), RegisterUserRequest{
			Username: name,
			Password: "correct horse",
			Email:    name + "@example.com",
			FullName: name,
		}); err != nil {
			t.Fatal("Failed to register:", err)
		}
	}

	if _, err := users.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}

	listed, total, err := users.List(context.Background(), 1, 2)
	if err != nil {
		t.Fatal("Failed to list users:", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(listed) != 2 || listed[0].Username != "alice" || listed[1].Username != "bob" {
		t.Errorf("Expected first page ordered by username, got %+v", listed)
	}

	listed, _, err = users.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatal("Failed to list second page:", err)
	}
	if len(listed) != 1 || listed[0].Username != "carol" {
		t.Errorf("Expected second page with carol, got %+v", listed)
	}
}
