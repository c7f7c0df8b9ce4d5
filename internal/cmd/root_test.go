package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/smartsite-ai/sitectl/internal/testutil"
)

const progressCSV = `Actividad,Área,Unidad,Cantidad_Total,Cantidad_Ejecutada
Excavación,Cimentación,m3,100,30
Zapatas,Cimentación,m3,50,20
Columnas,Estructura,ml,200,150
Instalación eléctrica,Instalaciones,pto,80,0
`

// executeCommand executes a cobra command and returns the output and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// run executes a fresh command tree.
func run(args ...string) (string, error) {
	return executeCommand(NewRootCmd(), append([]string{"--no-color", "--log-level", "error"}, args...)...)
}

// writeProject creates a project dir with a config file and dataset and
// returns the config path.
func writeProject(t *testing.T, csv, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "progress.csv", csv)
	if cfg == "" {
		cfg = "sitectl:\n  dataset: progress.csv\n"
	}
	return testutil.WriteFile(t, dir, "sitectl.yaml", cfg)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func TestRootHelp(t *testing.T) {
	out, err := run("--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, sub := range []string{"report", "alerts", "schedule", "export", "validate", "config", "init", "serve", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help should list %q", sub)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "sitectl version dev") {
		t.Errorf("expected version line, got: %s", out)
	}
	if !strings.Contains(out, runtime.Version()) {
		t.Errorf("expected Go version, got: %s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := run("frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestExitError(t *testing.T) {
	err := NewExitError(2, "critical")
	if err.Error() != "critical" {
		t.Errorf("Error() = %q", err.Error())
	}
	if exitCode(t, err) != 2 {
		t.Errorf("Code = %d, want 2", err.Code)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	path := writeProject(t, progressCSV, "alert:\n  threshold: 150\n")
	_, err := run("report", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "alert.threshold") {
		t.Errorf("expected threshold validation error, got %v", err)
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	path := writeProject(t, "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,100,40\n", "")

	// 40% is below the default threshold of 50.
	_, err := run("alerts", "--config", path)
	if got := exitCode(t, err); got != 1 {
		t.Fatalf("default threshold exit = %d, want 1", got)
	}

	t.Setenv("SITECTL_ALERT_THRESHOLD", "30")
	_, err = run("alerts", "--config", path)
	if got := exitCode(t, err); got != 0 {
		t.Errorf("env threshold exit = %d, want 0", got)
	}
}

func TestDiscoversProjectConfig(t *testing.T) {
	cfg := testutil.NewTestConfig(t,
		testutil.WithDatasetPath("data/avance.csv"),
		testutil.WithSchedule(60, 100),
		testutil.WithGroupDescription("Civil", "Civil works"),
	)
	dir := testutil.TempProjectFull(t, cfg, testutil.SampleDataset(t))

	// Run from a subdirectory; the config is found by walking upward.
	sub := filepath.Join(dir, "reports")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, sub)

	out, err := run("report", "-v")
	if got := exitCode(t, err); got != 0 {
		t.Fatalf("report exit = %d: %v", got, err)
	}
	for _, s := range []string{"48.33%", "Civil works", "Electrical has no planned quantities", "CRITICAL_DELAY"} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
}
