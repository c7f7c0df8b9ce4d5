package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var updateGolden = flag.Bool("update", false, "rewrite golden files from test output")

// Golden compares a rendered report artifact (CSV export, JSON summary)
// against testdata/<name>.golden in the calling package. Run the tests
// with -update to rewrite the file.
func Golden(t *testing.T, name string, actual []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if *updateGolden {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, actual, 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s (run with -update to create it): %v", path, err)
	}

	// CSV exports and checkouts on Windows may carry CRLF endings.
	expected = bytes.ReplaceAll(expected, []byte("\r\n"), []byte("\n"))
	actual = bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n"))
	if diff := cmp.Diff(string(expected), string(actual)); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", path, diff)
	}
}

// GoldenJSON encodes v the way the CLI and API do, two-space indented
// with a trailing newline, and compares it with Golden.
func GoldenJSON(t *testing.T, name string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	Golden(t, name, append(data, '\n'))
}
