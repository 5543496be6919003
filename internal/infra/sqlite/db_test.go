package sqlite

import (
	"path/filepath"
	"testing"
)

func TestNewDB_InMemory(t *testing.T) {
	t.Parallel()

	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB(\":memory:\") error = %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNewDB_CreatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolodex.db")
	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB(%q) error = %v", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNewDB_MissingParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does", "not", "exist", "rolodex.db")
	if _, err := NewDB(path); err == nil {
		t.Error("NewDB() error = nil; want error for missing parent directory")
	}
}
