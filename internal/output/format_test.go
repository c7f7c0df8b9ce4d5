package output

import (
	"strings"
	"testing"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity string
		expected string
	}{
		{"CRITICAL", BoldRed},
		{"WARNING", Yellow},
		{"warning", Yellow},
		{"other", White},
	}

	for _, tt := range tests {
		got := SeverityColor(tt.severity)
		if got != tt.expected {
			t.Errorf("SeverityColor(%q) = %q, want %q", tt.severity, got, tt.expected)
		}
	}
}

func TestScheduleColor(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"ON_SCHEDULE", Green},
		{"MILD_DELAY", Yellow},
		{"CRITICAL_DELAY", BoldRed},
		{"", White},
	}

	for _, tt := range tests {
		got := ScheduleColor(tt.status)
		if got != tt.expected {
			t.Errorf("ScheduleColor(%q) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestIcons(t *testing.T) {
	DisableColor()
	defer EnableColor()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"state ok", StateIcon("OK"), "✓"},
		{"state below", StateIcon("BELOW_THRESHOLD"), "✗"},
		{"state unknown", StateIcon("?"), "?"},
		{"warning", SeverityIcon("WARNING"), "⚠"},
		{"critical", SeverityIcon("CRITICAL"), "✗"},
		{"check ok", Checkmark(true), "✓"},
		{"check fail", Checkmark(false), "✗"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	DisableColor()
	defer EnableColor()

	tests := []struct {
		percent float64
		filled  int
	}{
		{100, 20},
		{150, 20},
		{50, 10},
		{0, 0},
		{-5, 0},
	}

	for _, tt := range tests {
		got := ProgressBar(tt.percent, 20)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("ProgressBar(%.1f) filled = %d, want %d", tt.percent, n, tt.filled)
		}
		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != 20 {
			t.Errorf("ProgressBar(%.1f) width = %d, want 20", tt.percent, n)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	DisableColor()
	defer EnableColor()

	if got := FormatPercent(48.333); got != "48.33%" {
		t.Errorf("FormatPercent = %q, want 48.33%%", got)
	}
	if got := FormatDelta(-11.67); got != "-11.67 pp" {
		t.Errorf("FormatDelta = %q, want -11.67 pp", got)
	}
	if got := FormatDelta(3); got != "+3.00 pp" {
		t.Errorf("FormatDelta = %q, want +3.00 pp", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"Cimentación", 20, "Cimentación"},
		{"Cimentación profunda", 10, "Cimenta..."},
		{"Área", 2, "Ár"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.text, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := PadRight("Área", 6); got != "Área  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("7.5", 5); got != "  7.5" {
		t.Errorf("PadLeft = %q", got)
	}
}

func TestHeaderWidth(t *testing.T) {
	DisableColor()
	defer EnableColor()

	for _, text := range []string{"Progress Report", "Avance de Obra: Área Norte"} {
		if got := displayWidth(Header(text, 60)); got != 60 {
			t.Errorf("Header(%q) width = %d, want 60", text, got)
		}
		if got := displayWidth(SubHeader(text, 60)); got != 60 {
			t.Errorf("SubHeader(%q) width = %d, want 60", text, got)
		}
	}
}
