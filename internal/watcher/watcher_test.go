// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	enumSpec := filepath.Join(tmpDir, "gl.enums")
	typeMap := filepath.Join(tmpDir, "gl.tm")
	if err := os.WriteFile(enumSpec, []byte("# enums\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(typeMap, []byte("# tm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"*.swp"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{enumSpec, typeMap}); err != nil {
		t.Fatal(err)
	}

	// Rewrite a registered registry file.
	if err := os.WriteFile(enumSpec, []byte("# enums v2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	absEnum, _ := filepath.Abs(enumSpec)
	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == absEnum {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", absEnum, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Unregistered files in the same directory must not trigger.
	other := filepath.Join(tmpDir, "notes.txt")
	os.WriteFile(other, []byte("unrelated"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("Unregistered file triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// Editor swap files are excluded.
	swp := filepath.Join(tmpDir, "gl.enums.swp")
	os.WriteFile(swp, []byte("swap"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "gl.enums.swp" {
				t.Error("Excluded file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

func TestWatcherDebounceBatches(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watcherbatch")
	defer os.RemoveAll(tmpDir)

	enumSpec := filepath.Join(tmpDir, "gl.enums")
	funcSpec := filepath.Join(tmpDir, "gl.funcs")
	os.WriteFile(enumSpec, []byte("a\n"), 0644)
	os.WriteFile(funcSpec, []byte("b\n"), 0644)

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(200*time.Millisecond, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{enumSpec, funcSpec}); err != nil {
		t.Fatal(err)
	}

	// Two quick writes should coalesce into a single batch.
	os.WriteFile(enumSpec, []byte("a2\n"), 0644)
	os.WriteFile(funcSpec, []byte("b2\n"), 0644)

	select {
	case paths := <-changedFiles:
		if len(paths) != 2 {
			t.Errorf("Expected batch of 2 paths, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for debounced batch")
	}
}
