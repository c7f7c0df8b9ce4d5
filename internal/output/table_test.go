package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	table := NewTable("Group", "Mean", "Items").AlignRight(1, 2)
	table.AddRow("Cimentación", "35.00%", "2")
	table.AddRow("Estructura", "75.00%", "1")
	table.SetFooter("Global", "36.25%", "4")

	want := "" +
		"Group          Mean  Items\n" +
		"-----------  ------  -----\n" +
		"Cimentación  35.00%      2\n" +
		"Estructura   75.00%      1\n" +
		"-----------  ------  -----\n" +
		"Global       36.25%      4\n"
	assert.Equal(t, want, table.Render())
}

func TestTableRowsFitColumns(t *testing.T) {
	table := NewTable("Group", "Mean")
	table.AddRow("Instalaciones eléctricas", "7.5%", "dropped")
	table.AddRow("Roof")

	want := "" +
		"Group                     Mean\n" +
		"------------------------  ----\n" +
		"Instalaciones eléctricas  7.5%\n" +
		"Roof\n"
	assert.Equal(t, want, table.Render())
}

func TestTableWithoutFooter(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("1", "2")

	assert.Equal(t, "A  B\n-  -\n1  2\n", table.Render())
	assert.Equal(t, "", NewTable().Render())
}

func TestTableAlignRightIgnoresUnknownColumns(t *testing.T) {
	table := NewTable("A").AlignRight(-1, 3)
	table.AddRow("x")
	assert.Equal(t, "A\n-\nx\n", table.Render())
}

func TestTableColoredCells(t *testing.T) {
	table := NewTable("State", "N").AlignRight(1)
	table.AddRow("\033[32mOK\033[0m", "10")
	table.AddRow("BELOW", "9")

	want := "" +
		"State   N\n" +
		"-----  --\n" +
		"\033[32mOK\033[0m     10\n" +
		"BELOW   9\n"
	assert.Equal(t, want, table.Render())
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello", 5},
		{"Área", 4},
		{"Área", 4},
		{"✓", 1},
		{"工程", 4},
		{"\033[32mgreen\033[0m", 5},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, displayWidth(tt.input), "displayWidth(%q)", tt.input)
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"\033[32mgreen\033[0m", "green"},
		{"\033[1;31mred bold\033[0m", "red bold"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, stripANSI(tt.input))
	}
}
