package output

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// columnGap separates adjacent columns.
const columnGap = "  "

// Table lays out rows in aligned columns under a dashed rule:
//
//	Group        Mean  Items
//	-----------  ------  -----
//	Cimentación  35.00%      2
//	-----------  ------  -----
//	Global       36.25%      4
//
// The footer, when set, sits below a second rule.
type Table struct {
	columns []column
	rows    [][]string
	footer  []string
}

type column struct {
	title string
	width int
	right bool
}

// NewTable creates a table with the given column titles.
func NewTable(titles ...string) *Table {
	t := &Table{columns: make([]column, len(titles))}
	for i, title := range titles {
		t.columns[i] = column{title: title, width: displayWidth(title)}
	}
	return t
}

// AlignRight right-aligns the given columns, titles included.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.columns) {
			t.columns[c].right = true
		}
	}
	return t
}

// AddRow appends a row. Missing cells are blank; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

// SetFooter sets a totals row rendered below the data.
func (t *Table) SetFooter(cells ...string) {
	t.footer = t.fit(cells)
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.columns))
	copy(row, cells)
	for i, cell := range row {
		if w := displayWidth(cell); w > t.columns[i].width {
			t.columns[i].width = w
		}
	}
	return row
}

// Render returns the table, one line per row, each ending in a newline.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.title
	}

	var sb strings.Builder
	t.writeLine(&sb, titles)
	t.writeRule(&sb)
	for _, row := range t.rows {
		t.writeLine(&sb, row)
	}
	if t.footer != nil {
		t.writeRule(&sb)
		t.writeLine(&sb, t.footer)
	}
	return sb.String()
}

func (t *Table) writeLine(sb *strings.Builder, cells []string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.columns[i].right {
			parts[i] = PadLeft(cell, t.columns[i].width)
		} else {
			parts[i] = PadRight(cell, t.columns[i].width)
		}
	}
	sb.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
	sb.WriteByte('\n')
}

func (t *Table) writeRule(sb *strings.Builder) {
	parts := make([]string, len(t.columns))
	for i, c := range t.columns {
		parts[i] = strings.Repeat("-", c.width)
	}
	sb.WriteString(strings.Join(parts, columnGap))
	sb.WriteByte('\n')
}

var ansiSequence = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")

// stripANSI removes terminal color sequences.
func stripANSI(s string) string {
	return ansiSequence.ReplaceAllString(s, "")
}

// displayWidth returns the terminal columns s occupies. Color sequences and
// combining marks take none; East Asian wide runes take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range stripANSI(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
