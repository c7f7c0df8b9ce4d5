package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportCommand(t *testing.T) {
	path := writeProject(t, progressCSV, "sitectl:\n  dataset: progress.csv\ngroups:\n  Cimentación: Foundations\n")

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "summary",
			args:     nil,
			contains: []string{"Site Progress", "36.25%", "4 measured, 0 excluded, 3 groups", "2 group(s) below 50.00% (1 critical)"},
			excludes: []string{"Foundations", "Excavación"},
		},
		{
			name:     "groups",
			args:     []string{"-v"},
			contains: []string{"Foundations", "35.00%", "75.00%", "BELOW_THRESHOLD"},
			excludes: []string{"Ranking"},
		},
		{
			name:     "ranking and alerts",
			args:     []string{"-vv"},
			contains: []string{"Ranking", "Alerts", "Instalaciones at 0.00% is below the 50.00% threshold", "CRITICAL"},
		},
		{
			name:     "items",
			args:     []string{"-vvv"},
			contains: []string{"Activities", "Excavación", "Instalación eléctrica", "30.00%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(append([]string{"report", "--config", path}, tt.args...)...)
			if err != nil {
				t.Fatalf("report failed: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output should contain %q, got:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}

func TestReportGroup(t *testing.T) {
	path := writeProject(t, progressCSV+"Cerco,Obras provisionales,ml,0,0\n", "")

	out, err := run("report", "--config", path, "--group", "cimentación")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, s := range []string{"2 measured, 0 excluded, 1 groups", "Group:   Cimentación", "35.00%", "BELOW_THRESHOLD"} {
		if !strings.Contains(out, s) {
			t.Errorf("output should contain %q, got:\n%s", s, out)
		}
	}
	if strings.Contains(out, "Instalaciones") {
		t.Errorf("other groups should be filtered out:\n%s", out)
	}

	out, err = run("report", "--config", path, "--group", "Obras provisionales")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Obras provisionales has no planned quantities") {
		t.Errorf("expected unmeasured note, got:\n%s", out)
	}

	_, err = run("report", "--config", path, "--group", "Techos")
	if err == nil {
		t.Fatal("expected error for unknown group")
	}
	for _, s := range []string{`group "Techos" not found`, "Cimentación, Estructura, Instalaciones"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error should contain %q, got %v", s, err)
		}
	}
}

func TestReportFileArgument(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "avance.csv")
	if err := os.WriteFile(file, []byte(progressCSV), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run("report", file)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Dataset: avance.csv") {
		t.Errorf("expected dataset name, got:\n%s", out)
	}
}

func TestReportJSON(t *testing.T) {
	path := writeProject(t, progressCSV, "")

	out, err := run("report", "--config", path, "--json")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	var got struct {
		Summary struct {
			GlobalAverage float64 `json:"global_average"`
			Ranking       []struct {
				Group string `json:"group"`
			} `json:"ranking"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Summary.GlobalAverage != 36.25 {
		t.Errorf("global_average = %v, want 36.25", got.Summary.GlobalAverage)
	}
	if len(got.Summary.Ranking) != 3 || got.Summary.Ranking[0].Group != "Estructura" {
		t.Errorf("unexpected ranking: %+v", got.Summary.Ranking)
	}
}

func TestReportWeighted(t *testing.T) {
	path := writeProject(t, progressCSV, "")

	// 200 executed of 430 planned.
	out, err := run("report", "--config", path, "--weighted")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "46.51%") {
		t.Errorf("expected weighted global average, got:\n%s", out)
	}
	if !strings.Contains(out, "weighted by planned quantity") {
		t.Errorf("expected weighted note, got:\n%s", out)
	}
}

func TestReportZeroQuantityWarning(t *testing.T) {
	csv := "Activity,Group,Unit,Total_Quantity,Executed_Quantity\nWalls,North,m2,100,50\nRoof,South,m2,0,0\n"
	path := writeProject(t, csv, "")

	out, err := run("report", "--config", path, "-v")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "South has no planned quantities") {
		t.Errorf("expected unmeasured group, got:\n%s", out)
	}
	if !strings.Contains(out, "Warning:") || !strings.Contains(out, "row 2") {
		t.Errorf("expected zero-quantity warning, got:\n%s", out)
	}
}

func TestReportMissingDataset(t *testing.T) {
	_, err := run("report", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
}

func TestReportSchemaError(t *testing.T) {
	path := writeProject(t, "Activity,Group\nWalls,North\n", "")
	_, err := run("report", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "Total_Quantity") {
		t.Errorf("expected missing column error, got %v", err)
	}
}
