package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mkhalal/c-playground/internal/apperror"
	"github.com/mkhalal/c-playground/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a database that exists only for the duration of the
// test — fast, isolated, destroyed when the connection closes.
//
// t.Helper() makes failures report at the CALLER's line, and t.Cleanup is a
// test-scoped defer that also works inside subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		DisplayName:  "Test " + username,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "mona",
		DisplayName:  "Mona",
		PasswordHash: "$2a$12$somethinghashed",
	}

	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the record was filled in-place (pointer receiver)
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
	if user.UpdatedAt.IsZero() {
		t.Error("Create() did not set user.UpdatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken")

	duplicate := &model.User{Username: "taken", PasswordHash: "x"}
	err := db.Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should have failed for a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_DuplicateUsernameIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "mona")

	lookalike := &model.User{Username: "MONA", PasswordHash: "x"}
	err := db.Create(context.Background(), lookalike)
	if err == nil {
		t.Fatal("Create() should treat MONA as a duplicate of mona")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "lookup")

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Username != "lookup" {
		t.Errorf("Username = %q, want %q", found.Username, "lookup")
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("PasswordHash did not round-trip")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent-id")
	if err == nil {
		t.Fatal("GetByID() should have returned an error for nonexistent ID")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// GET BY USERNAME TESTS
// =========================================================================

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "byname")

	found, err := db.GetByUsername(context.Background(), "byname")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserGetByUsername_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "CamelCase")

	found, err := db.GetByUsername(context.Background(), "camelcase")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q (lookup should ignore case)", found.ID, created.ID)
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByUsername(context.Background(), "ghost")
	if err == nil {
		t.Fatal("GetByUsername() should have returned an error for unknown username")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}
