package db

import (
	"path/filepath"
	"testing"

	"github.com/AyloRyd/taskhub/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(DatabasePath(t.TempDir()), Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "taskhub.db")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	value, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Expected missing key, got ok=%v value=%q", ok, value)
	}
}

func TestSetOverwrites(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Set("auth", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("auth", "false"); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	value, ok, err := s.Get("auth")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != "false" {
		t.Errorf("Expected overwritten value 'false', got %q", value)
	}

	var count int64
	if err := s.gdb.Model(&models.StoredValue{}).Where("storage_key = ?", "auth").Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a single row after overwrite, got %d", count)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, k := range []string{"auth", "user", "cookies"} {
		if err := s.Set(k, "x"); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}

	if err := s.Remove("auth", "user", "never-set"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	for _, k := range []string{"auth", "user"} {
		if _, ok, err := s.Get(k); err != nil || ok {
			t.Errorf("Expected %q to be removed, ok=%v err=%v", k, ok, err)
		}
	}
	if _, ok, err := s.Get("cookies"); err != nil || !ok {
		t.Errorf("Expected 'cookies' to remain, ok=%v err=%v", ok, err)
	}

	if err := s.Remove(); err != nil {
		t.Errorf("Remove with no keys should be a no-op, got %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	t.Parallel()

	path := DatabasePath(t.TempDir())
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set("user", `{"pid":"1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	reopened, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get("user")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: ok=%v err=%v", ok, err)
	}
	if value != `{"pid":"1"}` {
		t.Errorf("Unexpected value after reopen: %q", value)
	}
}
