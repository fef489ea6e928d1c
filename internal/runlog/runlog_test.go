package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	runs := []Run{
		{RunID: "run-1", StartedAt: base, Duration: 120 * time.Millisecond, Revision: "abc123",
			Modules: []string{"Module-01-Intro"}, Files: 3, Bytes: 900, TreeHash: "h1", Status: StatusSuccess},
		{RunID: "run-2", StartedAt: base.Add(time.Minute), Duration: 80 * time.Millisecond,
			Modules: []string{"Module-01-Intro", "Module-02-Basics"}, Files: 7, Bytes: 2100, TreeHash: "h2", Status: StatusFailed},
	}
	for _, r := range runs {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}

	// Newest first.
	if recent[0].RunID != "run-2" || recent[1].RunID != "run-1" {
		t.Errorf("unexpected order: %s, %s", recent[0].RunID, recent[1].RunID)
	}
	if len(recent[0].Modules) != 2 || recent[0].Modules[1] != "Module-02-Basics" {
		t.Errorf("modules round trip failed: %v", recent[0].Modules)
	}
	if recent[1].Revision != "abc123" || recent[1].Files != 3 || recent[1].Bytes != 900 {
		t.Errorf("fields round trip failed: %+v", recent[1])
	}
	if !recent[1].StartedAt.Equal(base) {
		t.Errorf("started_at round trip failed: %v vs %v", recent[1].StartedAt, base)
	}
	if recent[0].Status != StatusFailed {
		t.Errorf("status round trip failed: %q", recent[0].Status)
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, Run{RunID: "r", StartedAt: time.Now(), Status: StatusSuccess}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("expected 3 runs, got %d", len(recent))
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.Append(context.Background(), Run{RunID: "x", StartedAt: time.Now(), Status: StatusSuccess}); err != nil {
		t.Fatalf("append: %v", err)
	}
}
