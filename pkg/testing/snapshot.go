package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/framehost/pkg/engine"
)

// UpdateSnapshotsEnv, when set to 1, makes MatchesFile rewrite golden files.
const UpdateSnapshotsEnv = "FRAMEHOST_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Dump returns the frame tree dump.
func (t *Tester) Dump(opts engine.DumpOptions) string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = t.engine.DumpTree(&b, opts)
	return b.String()
}

// MatchesFile compares the frame tree dump against a golden file. On
// mismatch it reports a diff and instructions for updating. When
// FRAMEHOST_UPDATE_SNAPSHOTS=1 is set, the file is updated instead.
func (t *Tester) MatchesFile(tt TestingT, path string, opts engine.DumpOptions) {
	tt.Helper()

	actual := t.Dump(opts)
	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := writeGolden(path, actual); err != nil {
			tt.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			tt.Fatalf("golden file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, tt.Name())
			return
		}
		tt.Fatalf("failed to load golden file: %v", err)
		return
	}

	if diff := Diff(string(data), actual); diff != "" {
		tt.Errorf("golden mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, tt.Name())
	}
}

// Diff returns a line diff between expected and actual, or "" if equal.
func Diff(expected, actual string) string {
	if expected == actual {
		return ""
	}
	return unifiedDiff(expected, actual)
}

func writeGolden(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}

	return buf.String()
}
