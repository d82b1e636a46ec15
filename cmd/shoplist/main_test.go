package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shoplist/internal/core"
)

// run executes one invocation against the database at db.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", db)
	t.Setenv("CACHE_SIZE", "0")
	t.Setenv("LOG_LEVEL", "error")

	cmd, closeStore := newRootCmd()
	defer closeStore()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, args...)
	if err != nil {
		t.Fatalf("shoplist %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestShoppingFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shoplist.db")

	mustRun(t, db, "folder", "add", "Weekly", "-d", "groceries")
	mustRun(t, db, "category", "add", "Weekly", "Dairy")
	mustRun(t, db, "item", "add", "Weekly", "1", "Milk", "4.50", "--label", "Food")
	out := mustRun(t, db, "item", "add", "Weekly", "1", "Soap", "10", "--label", "Cleaning")
	if !strings.Contains(out, "10.00 + 1.30 tax = 11.30") {
		t.Fatalf("unexpected item output: %s", out)
	}

	out = mustRun(t, db, "folder", "list")
	if !strings.Contains(out, "Weekly") || !strings.Contains(out, "groceries") {
		t.Fatalf("folder list: %s", out)
	}

	mustRun(t, db, "category", "toggle", "Weekly", "1")
	out = mustRun(t, db, "folder", "show", "weekly")
	if !strings.Contains(out, "Milk") || !strings.Contains(out, "Folder total: 15.80 (tax 1.30)") {
		t.Fatalf("folder show: %s", out)
	}

	out = mustRun(t, db, "all")
	if !strings.Contains(out, "[Weekly] Dairy") || !strings.Contains(out, "Grand total: 15.80") {
		t.Fatalf("all: %s", out)
	}

	out = mustRun(t, db, "export", "--format", "yaml")
	if !strings.Contains(out, "name: '[Weekly] Dairy'") && !strings.Contains(out, `name: "[Weekly] Dairy"`) {
		t.Fatalf("export: %s", out)
	}

	mustRun(t, db, "item", "rm", "Weekly", "1", "1")
	mustRun(t, db, "folder", "rm", "Weekly")
	out = mustRun(t, db, "folder", "list")
	if !strings.Contains(out, "No folders yet.") {
		t.Fatalf("folder list after rm: %s", out)
	}
}

func TestInvalidInput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shoplist.db")

	if _, err := run(t, db, "folder", "add", " "); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("empty folder name: err = %v", err)
	}
	mustRun(t, db, "folder", "add", "Weekly")
	if _, err := run(t, db, "folder", "add", "weekly"); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("duplicate folder: err = %v", err)
	}
	if _, err := run(t, db, "category", "rm", "Weekly", "0"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("position 0: err = %v", err)
	}
	if _, err := run(t, db, "category", "rm", "Weekly", "1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing category: err = %v", err)
	}
	if _, err := run(t, db, "export", "--format", "csv"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("bad format: err = %v", err)
	}
}

func TestAccountFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "shoplist.db")

	if _, err := run(t, db, "signup", "ann@example.com", "-p", "secret", "--confirm", "other"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("mismatch: err = %v", err)
	}
	mustRun(t, db, "signup", "ann@example.com", "-p", "secret", "--confirm", "secret")
	if _, err := run(t, db, "login", "ann@example.com", "-p", "nope"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("bad password: err = %v", err)
	}
	mustRun(t, db, "login", "ann@example.com", "-p", "secret")
	if out := mustRun(t, db, "whoami"); strings.TrimSpace(out) != "ann@example.com" {
		t.Fatalf("whoami = %q", out)
	}
	mustRun(t, db, "logout")
	if _, err := run(t, db, "whoami"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("whoami after logout: err = %v", err)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	envDB := filepath.Join(t.TempDir(), "env.db")
	flagDB := filepath.Join(t.TempDir(), "flag.db")

	mustRun(t, envDB, "--db", flagDB, "folder", "add", "Weekly")
	if got := os.Getenv("SQLITE_DB_PATH"); got != envDB {
		t.Fatalf("SQLITE_DB_PATH changed to %q", got)
	}

	if out := mustRun(t, envDB, "folder", "list"); !strings.Contains(out, "No folders yet.") {
		t.Fatalf("env database should be untouched: %s", out)
	}
	if out := mustRun(t, envDB, "--db", flagDB, "folder", "list"); !strings.Contains(out, "Weekly") {
		t.Fatalf("flag database should hold the folder: %s", out)
	}

	// The memory backend keeps nothing between invocations
	mustRun(t, envDB, "--backend", "memory", "folder", "add", "Scratch")
	if got := os.Getenv("DATA_BACKEND"); got != "sqlite" {
		t.Fatalf("DATA_BACKEND changed to %q", got)
	}
}
