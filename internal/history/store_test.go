// # internal/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	base := time.Date(2010, 7, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "a", Timestamp: base, Trigger: "once",
			EnumLines: 4000, TMLines: 120, FunLines: 20000,
			Enumerations: 450, Functions: 2200, Sections: 300,
			OutputBytes: 512 * 1024, Duration: 80 * time.Millisecond},
		{ID: "b", Timestamp: base.Add(time.Minute), Trigger: "watch",
			Failed: true, Error: "[PARSE_ERROR] 17:1: unrecognized enum registry line"},
	}
	for _, r := range runs {
		if err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", r.ID, err)
		}
	}

	got, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("Unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].Failed || got[0].Error == "" {
		t.Errorf("Failure flags lost: %+v", got[0])
	}
	first := got[1]
	if first.Functions != 2200 || first.OutputBytes != 512*1024 || first.Duration != 80*time.Millisecond {
		t.Errorf("Counters lost on reload: %+v", first)
	}
	if !first.Timestamp.Equal(base) {
		t.Errorf("Timestamp changed on reload: %v", first.Timestamp)
	}
}

func TestStoreOrderWithSubsecondTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	// 120ms and 123ms apart by only the fraction; textual RFC 3339 trims
	// trailing zeros, which sorts these the wrong way round.
	base := time.Date(2010, 7, 1, 12, 0, 5, 0, time.UTC)
	older := Run{ID: "older", Timestamp: base.Add(120 * time.Millisecond), Trigger: "watch"}
	newer := Run{ID: "newer", Timestamp: base.Add(123 * time.Millisecond), Trigger: "watch"}
	for _, r := range []Run{older, newer} {
		if err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", r.ID, err)
		}
	}

	got, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "newer" || got[1].ID != "older" {
		t.Errorf("Expected newer, older; got %+v", got)
	}
	if !got[0].Timestamp.Equal(newer.Timestamp) {
		t.Errorf("Timestamp precision lost: %v", got[0].Timestamp)
	}
}

func TestStoreRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		run := Run{ID: string(rune('a' + i)), Timestamp: base.Add(time.Duration(i) * time.Second), Trigger: "watch"}
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}
	got, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(got))
	}
}

func TestOpenRejectsBadPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Expected error for directory path")
	}
}
