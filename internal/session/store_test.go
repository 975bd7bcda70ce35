package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "session.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tok, ok := s.Token(); ok || tok != "" {
		t.Errorf("Token() = %q, %v; want empty", tok, ok)
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	if err := os.WriteFile(path, []byte("session: abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tok, ok := s.Token(); !ok || tok != "abc123" {
		t.Errorf("Token() = %q, %v; want abc123", tok, ok)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	if err := os.WriteFile(path, []byte("session: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt session file")
	}
}

func TestSetToken_Durable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "session.yml")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := s.SetToken("fresh-token"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	// A second store reading the same file sees the token immediately.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if tok, _ := again.Token(); tok != "fresh-token" {
		t.Errorf("persisted token = %q, want fresh-token", tok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".session-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWatch_PicksUpExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	go func() {
		_ = s.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Another process (eero-login) writes the file. Retry until the watcher
	// is registered and observes the change.
	writer, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for i := 0; ; i++ {
		if err := writer.SetToken("from-login-" + string(rune('a'+i%26))); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}
		select {
		case <-changed:
			if tok, ok := s.Token(); !ok || tok == "" {
				t.Errorf("watched store token = %q after change", tok)
			}
			return
		case <-tick.C:
		case <-ctx.Done():
			t.Fatal("watcher never observed the session write")
		}
	}
}
