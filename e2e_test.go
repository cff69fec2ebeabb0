//go:build e2e

package magics_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/discochess/magics"
	"github.com/discochess/magics/internal/builder"
	"github.com/discochess/magics/internal/geometry"
)

// TestE2E_Search runs the real windowed search for a few squares.
func TestE2E_Search(t *testing.T) {
	start := time.Now()
	b := builder.NewBuilder(
		builder.WithSeed(1),
		builder.WithWorkers(4),
		builder.WithPatterns(geometry.Bishop),
	)
	r, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Logf("found %d bishop magics in %v", r.Manifest.Squares, time.Since(start))

	for _, d := range r.Descriptors {
		for _, occ := range []geometry.Bitboard{0, ^geometry.Bitboard(0), 0x00FF00000000FF00} {
			if got, want := d.Lookup(occ), geometry.AttackSet(d.Square, d.Pattern, occ); got != want {
				t.Errorf("%s %s: Lookup(%#x) = %#x, want %#x", d.Pattern, d.Square, uint64(occ), uint64(got), uint64(want))
			}
		}
	}
}

// TestE2E_CLI builds the command, searches, verifies and looks up.
func TestE2E_CLI(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	bin := filepath.Join(tmpDir, "magics")

	build := exec.Command("go", "build", "-o", bin, "./cmd/magics")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("building cli: %v", err)
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command(bin, append([]string{"--data-dir", dataDir}, args...)...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("magics %s: %v\n%s", strings.Join(args, " "), err, out)
		}
		return string(out)
	}

	out := run("search", "--seed", "7", "--workers", "8", "--format", "go", "--out", filepath.Join(tmpDir, "magics.go"))
	if !strings.Contains(out, "found all magics") {
		t.Errorf("search output missing completion line:\n%s", out)
	}
	run("verify", "--oracle", "64")

	out = run("lookup", "--pattern", "rook", "--square", "d4")
	if !strings.Contains(out, "0x08080808f7080808") {
		t.Errorf("lookup output missing d4 cross:\n%s", out)
	}

	opt, err := magics.WithDataDir(dataDir)
	if err != nil {
		t.Fatalf("WithDataDir() error = %v", err)
	}
	table, err := magics.Open(context.Background(), opt)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer table.Close()
	if got := table.Manifest().Seed; got != 7 {
		t.Errorf("Manifest().Seed = %d, want 7", got)
	}
}
