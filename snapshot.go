package curtain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// MatchSnapshot compares the rendered capture against a golden file
// stored in testdata/<sanitized-test-name>-<hash>/<sanitized-name>.txt.
//
// Set CURTAIN_UPDATE=1 to create or update golden files.
func (s *Screen) MatchSnapshot(t testing.TB, name string) {
	t.Helper()

	dir := snapshotDir(t)
	path := filepath.Join(dir, sanitizeName(name)+".txt")
	content := s.Render() + "\n"

	if shouldUpdate() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("curtain: snapshot: failed to create directory: %v", err)
			return
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("curtain: snapshot: failed to write golden file: %v", err)
		}
		return
	}

	golden, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("curtain: snapshot: golden file not found: %s\nRun with %s=1 to create it.\n\nActual screen:\n%s", path, updateEnv, content)
			return
		}
		t.Fatalf("curtain: snapshot: failed to read golden file: %v", err)
		return
	}

	if string(golden) != content {
		t.Fatalf("curtain: snapshot: mismatch for %q\nGolden file: %s\nRun with %s=1 to update.\n\n%s",
			name, path, updateEnv, unifiedDiff(path, string(golden), content))
	}
}

func unifiedDiff(path, golden, actual string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), golden, actual)
	return fmt.Sprint(gotextdiff.ToUnified("golden", "actual", golden, edits))
}

// snapshotDir returns the directory for golden files for the current test.
// Uses testdata/<sanitized-test-name>-<hash>/ where hash ensures uniqueness.
func snapshotDir(t testing.TB) string {
	t.Helper()

	fullName := t.Name()
	h := sha256.Sum256([]byte(fullName))
	hash := hex.EncodeToString(h[:4])

	return filepath.Join("testdata", sanitizeName(fullName)+"-"+hash)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeName makes a test or snapshot name safe to use as a path
// element.
func sanitizeName(name string) string {
	s := unsafeNameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "_.")
	if s == "" {
		return "snapshot"
	}
	return s
}

// shouldUpdate returns true if CURTAIN_UPDATE is set to a truthy value.
func shouldUpdate() bool {
	v := os.Getenv(updateEnv)
	return v == "1" || v == "true" || v == "yes"
}
