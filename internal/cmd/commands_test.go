package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAlertsCommand(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		args     []string
		wantCode int
		contains string
	}{
		{
			name:     "critical",
			csv:      progressCSV,
			wantCode: 2,
			contains: "Instalaciones at 0.00% is below the 50.00% threshold",
		},
		{
			name:     "warning",
			csv:      "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,100,40\n",
			wantCode: 1,
			contains: "North at 40.00%",
		},
		{
			name:     "threshold flag clears",
			csv:      "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,100,40\n",
			args:     []string{"--threshold", "40"},
			wantCode: 0,
			contains: "All groups at or above 40.00%",
		},
		{
			name:     "nothing to evaluate",
			csv:      "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,0,0\n",
			wantCode: 0,
			contains: "No groups to evaluate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProject(t, tt.csv, "")
			out, err := run(append([]string{"alerts", "--config", path}, tt.args...)...)
			if got := exitCode(t, err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output should contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestAlertsJSON(t *testing.T) {
	path := writeProject(t, progressCSV, "")
	out, err := run("alerts", "--config", path, "--json")
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("exit code = %d, want 2", got)
	}

	var got struct {
		State  string `json:"state"`
		Alerts []struct {
			Group    string `json:"group"`
			Severity string `json:"severity"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.State != "ALERTING" {
		t.Errorf("state = %q", got.State)
	}
	if len(got.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got.Alerts))
	}
	if got.Alerts[0].Group != "Cimentación" || got.Alerts[0].Severity != "WARNING" {
		t.Errorf("unexpected first alert: %+v", got.Alerts[0])
	}
	if got.Alerts[1].Group != "Instalaciones" || got.Alerts[1].Severity != "CRITICAL" {
		t.Errorf("unexpected second alert: %+v", got.Alerts[1])
	}
}

func TestScheduleCommand(t *testing.T) {
	// Global average is 36.25.
	tests := []struct {
		name     string
		args     []string
		wantCode int
		contains string
	}{
		{"on schedule", []string{"--elapsed", "30", "--planned", "100"}, 0, "ON_SCHEDULE"},
		{"mild", []string{"--elapsed", "38", "--planned", "100"}, 1, "MILD_DELAY"},
		{"critical", []string{"--elapsed", "60", "--planned", "100"}, 2, "CRITICAL_DELAY"},
		{"wide margin", []string{"--elapsed", "60", "--planned", "100", "--margin", "30"}, 1, "MILD_DELAY"},
	}

	path := writeProject(t, progressCSV, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(append([]string{"schedule", "--config", path}, tt.args...)...)
			if got := exitCode(t, err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output should contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestScheduleFromConfig(t *testing.T) {
	cfg := "sitectl:\n  dataset: progress.csv\nschedule:\n  elapsed_days: 60\n  planned_days: 100\n"
	path := writeProject(t, progressCSV, cfg)

	out, err := run("schedule", "--config", path, "--json")
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("exit code = %d, want 2", got)
	}

	var got struct {
		PhysicalPct float64 `json:"physical_pct"`
		ExpectedPct float64 `json:"expected_pct"`
		Status      string  `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.PhysicalPct != 36.25 || got.ExpectedPct != 60 || got.Status != "CRITICAL_DELAY" {
		t.Errorf("unexpected variance: %+v", got)
	}
}

func TestScheduleErrors(t *testing.T) {
	path := writeProject(t, progressCSV, "")

	_, err := run("schedule", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "no schedule") {
		t.Errorf("expected missing schedule error, got %v", err)
	}

	_, err = run("schedule", "--config", path, "--elapsed", "10", "--planned", "0")
	if err == nil || !strings.Contains(err.Error(), "invalid schedule") {
		t.Errorf("expected invalid schedule error, got %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	path := writeProject(t, progressCSV, "")

	out, err := run("export", "--config", path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Activity,Group,Unit,Total_Quantity,Executed_Quantity,Progress_Pct" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "Excavación,Cimentación,m3,100,30,30.00" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
}

func TestExportGroup(t *testing.T) {
	path := writeProject(t, progressCSV, "")

	out, err := run("export", "--config", path, "--group", "Estructura")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	want := "Activity,Group,Unit,Total_Quantity,Executed_Quantity,Progress_Pct\n" +
		"Columnas,Estructura,ml,200,150,75.00\n"
	if out != want {
		t.Errorf("export:\n%s\nwant:\n%s", out, want)
	}
}

func TestExportGroupsToFile(t *testing.T) {
	path := writeProject(t, progressCSV, "")
	outFile := filepath.Join(t.TempDir(), "groups.csv")

	out, err := run("export", "--config", path, "--groups", "-o", outFile)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+outFile) {
		t.Errorf("expected confirmation, got: %s", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "Group,Mean,Items,State\n" +
		"Cimentación,35.00,2,BELOW_THRESHOLD\n" +
		"Estructura,75.00,1,OK\n" +
		"Instalaciones,0.00,1,BELOW_THRESHOLD\n"
	if string(data) != want {
		t.Errorf("groups CSV:\n%s\nwant:\n%s", data, want)
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeProject(t, progressCSV+"Losa,Estructura,m2,10,5\n", "")

	out, err := run("validate", "--config", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, s := range []string{"is valid", "Dialect: spanish", "Rows:    5", "Groups:  3"} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
}

func TestValidateWrite(t *testing.T) {
	path := writeProject(t, "Actividad;Área;Unidad;Cantidad_Total;Cantidad_Ejecutada;Frente\n"+
		"Excavación;Cimentación;m3;100;30,5;Norte\n\n"+
		"Columnas;Estructura;ml;200;150;\n", "")
	outFile := filepath.Join(t.TempDir(), "normalized", "progress.csv")

	out, err := run("validate", "--config", path, "--write", outFile)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "Wrote "+outFile) {
		t.Errorf("expected confirmation, got: %s", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "Activity,Group,Unit,Total_Quantity,Executed_Quantity,Frente\n" +
		"Excavación,Cimentación,m3,100,30.5,Norte\n" +
		"Columnas,Estructura,ml,200,150,\n"
	if string(data) != want {
		t.Errorf("written CSV:\n%s\nwant:\n%s", data, want)
	}
}

func TestValidateWriteSkippedOnFailure(t *testing.T) {
	path := writeProject(t, "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,,m2,5,0\n", "")
	outFile := filepath.Join(t.TempDir(), "out.csv")

	_, err := run("validate", "--config", path, "--write", outFile)
	if got := exitCode(t, err); got != 1 {
		t.Errorf("exit code = %d, want 1", got)
	}
	if _, statErr := os.Stat(outFile); !os.IsNotExist(statErr) {
		t.Errorf("nothing should be written for an invalid sheet, stat err = %v", statErr)
	}
}

func TestValidateCommandFailures(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		contains string
	}{
		{"missing column", "Actividad,Área,Unidad,Cantidad_Total\nExcavación,Cimentación,m3,100\n", `missing column "Cantidad_Ejecutada"`},
		{"negative quantity", "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,-5,0\n", ""},
		{"empty group", "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,,m2,5,0\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProject(t, tt.csv, "")
			out, err := run("validate", "--config", path)
			if got := exitCode(t, err); got != 1 {
				t.Errorf("exit code = %d, want 1", got)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output should contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	path := writeProject(t, progressCSV, "sitectl:\n  dataset: progress.csv\nalert:\n  threshold: 60\n")

	out, err := run("config", "--config", path)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, "Alert threshold: 60.00%") {
		t.Errorf("expected threshold, got:\n%s", out)
	}

	out, err = run("config", "--config", path, "--format", "yaml")
	if err != nil {
		t.Fatalf("config yaml failed: %v", err)
	}
	if !strings.Contains(out, "threshold: 60") {
		t.Errorf("expected YAML threshold, got:\n%s", out)
	}

	if _, err := run("config", "--config", path, "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigValidate(t *testing.T) {
	path := writeProject(t, progressCSV, "")
	out, err := run("config", "--config", path, "--validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "Status: VALID") {
		t.Errorf("expected VALID, got:\n%s", out)
	}

	path = writeProject(t, progressCSV, "sitectl:\n  dataset: elsewhere.csv\n")
	out, err = run("config", "--config", path, "--validate")
	if got := exitCode(t, err); got != 1 {
		t.Errorf("exit code = %d, want 1", got)
	}
	if !strings.Contains(out, "Dataset not found") {
		t.Errorf("expected missing dataset, got:\n%s", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := run("init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, f := range []string{".sitectl/config.yaml", "progress.csv"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected %s to be created", f)
		}
		if !strings.Contains(out, f) {
			t.Errorf("output should mention %s", f)
		}
	}

	// The generated project is discovered from the working directory.
	out, err = run("report", "-v")
	if err != nil {
		t.Fatalf("report after init failed: %v", err)
	}
	if !strings.Contains(out, "36.25%") || !strings.Contains(out, "Foundations") {
		t.Errorf("unexpected report:\n%s", out)
	}

	out, err = run("init")
	if got := exitCode(t, err); got != 1 {
		t.Errorf("second init exit code = %d, want 1", got)
	}
	if !strings.Contains(out, "Use --force to overwrite") {
		t.Errorf("expected force hint, got:\n%s", out)
	}

	if _, err := run("init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}
