//go:build !windows

package refresh

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunSyncEmptyCmd(t *testing.T) {
	if err := (Runner{}).RunSync(context.Background()); err != nil {
		t.Fatalf("empty command should be a no-op, got %v", err)
	}
}

func TestRunSync(t *testing.T) {
	if err := (Runner{Cmd: "true"}).RunSync(context.Background()); err != nil {
		t.Fatalf("RunSync(true): %v", err)
	}
	if err := (Runner{Cmd: "exit 3"}).RunSync(context.Background()); err == nil {
		t.Fatal("RunSync(exit 3) should fail")
	}
}

func TestRunSyncHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := Runner{Cmd: "sleep 10"}.RunSync(ctx)
	if err == nil {
		t.Fatal("timed-out run should error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("context timeout not enforced, took %v", elapsed)
	}
}

func TestMaybeStartEmptyCmd(t *testing.T) {
	if (Runner{UsagePath: "x"}).MaybeStart() {
		t.Fatal("empty command should never launch")
	}
}

func TestMaybeStartStaleGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fresh := Runner{Cmd: "true", UsagePath: path, Stale: time.Hour}
	if fresh.MaybeStart() {
		t.Error("launched although usage.json is fresh")
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if !fresh.MaybeStart() {
		t.Error("did not launch although usage.json is stale")
	}

	// Zero staleness means every pass launches.
	always := Runner{Cmd: "true", UsagePath: path}
	if !always.MaybeStart() {
		t.Error("zero Stale should always launch")
	}
}

func TestMaybeStartRunsDetached(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	r := Runner{Cmd: "echo done > " + marker}
	if !r.MaybeStart() {
		t.Fatal("MaybeStart did not launch")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("detached command never produced its output file")
}
