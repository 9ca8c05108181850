package services

import (
	"regexp"
	"strings"
)

const BulletGlyph = "•"

var (
	boldPattern         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	headingPattern      = regexp.MustCompile(`^\s*#{1,6}(\s+|$)`)
	bulletPattern       = regexp.MustCompile(`^(\s*)[-*]\s+`)
	separatorRowPattern = regexp.MustCompile(`^[\s|:\-]*-[\s|:\-]*$`)
	sectionRulePattern  = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
)

// summaryMarker only matches the table heading or label line, never a
// passing mention inside a sentence.
var summaryMarker = regexp.MustCompile(`(?im)^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*)?[ \t]*final[ \t]+summary[ \t]+table\b`)

// SummaryTable is the ranking table parsed from the model output. Row 0 is
// the header; Normalize gives every row the header's width.
type SummaryTable [][]string

func (t SummaryTable) IsEmpty() bool {
	return len(t) == 0
}

func (t SummaryTable) Header() []string {
	if t.IsEmpty() {
		return nil
	}
	return t[0]
}

func (t SummaryTable) Body() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Normalize pads short rows with empty cells and truncates long rows so that
// every row has exactly as many cells as the header.
func (t SummaryTable) Normalize() SummaryTable {
	if t.IsEmpty() {
		return t
	}
	width := len(t[0])
	out := make(SummaryTable, 0, len(t))
	for _, row := range t {
		fixed := make([]string, width)
		copy(fixed, row)
		out = append(out, fixed)
	}
	return out
}

// Report is the model response split into prose sections and a summary table.
type Report struct {
	Raw      string
	Sections []string
	Table    SummaryTable
}

// FormatReport turns the loosely structured markdown returned by the model
// into something the renderers can lay out.
func FormatReport(response string) *Report {
	return &Report{
		Raw:      response,
		Sections: ExtractProseSections(response),
		Table:    ParseSummaryTable(ExtractTableLines(response)).Normalize(),
	}
}

// PlainText is the text/plain flavour of the report.
func (r *Report) PlainText() string {
	var b strings.Builder
	for _, section := range r.Sections {
		b.WriteString(section)
		b.WriteString("\n\n")
	}
	if r.Table.IsEmpty() {
		b.WriteString("No table data found.\n")
		return b.String()
	}
	for _, row := range r.Table {
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

func StripBold(s string) string {
	s = boldPattern.ReplaceAllString(s, "$1")
	return strings.ReplaceAll(s, "**", "")
}

// CleanMarkdown removes heading hashes and bold markers from one line and
// turns a leading "- " or "* " into a bullet glyph.
func CleanMarkdown(line string) string {
	line = strings.TrimRight(line, " \t\r")
	line = headingPattern.ReplaceAllString(line, "")
	line = bulletPattern.ReplaceAllString(line, "${1}"+BulletGlyph+" ")
	return StripBold(line)
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func isSeparatorRow(line string) bool {
	return separatorRowPattern.MatchString(line)
}

// ExtractTableLines collects every line whose trimmed form starts with "|".
func ExtractTableLines(response string) []string {
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		if isTableLine(line) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

// ParseSummaryTable splits pipe-delimited lines into cells. Separator rows
// such as "| --- | :---: |" are dropped; the first remaining row is the header.
func ParseSummaryTable(lines []string) SummaryTable {
	var table SummaryTable
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || isSeparatorRow(line) {
			continue
		}

		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")

		parts := strings.Split(line, "|")
		cells := make([]string, 0, len(parts))
		for _, cell := range parts {
			cells = append(cells, StripBold(strings.TrimSpace(cell)))
		}
		table = append(table, cells)
	}
	return table
}

// ExtractProseSections returns the narrative part of the response. Anything
// from the "Final Summary Table" heading line on is dropped because the
// parsed table already carries it.
func ExtractProseSections(response string) []string {
	prose := response
	if loc := summaryMarker.FindStringIndex(prose); loc != nil {
		lineStart := strings.LastIndex(prose[:loc[0]], "\n") + 1
		prose = prose[:lineStart]
	}

	var kept []string
	for _, line := range strings.Split(prose, "\n") {
		if !isTableLine(line) {
			kept = append(kept, line)
		}
	}

	var sections []string
	for _, raw := range sectionRulePattern.Split(strings.Join(kept, "\n"), -1) {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			lines = append(lines, CleanMarkdown(line))
		}
		section := strings.TrimSpace(strings.Join(lines, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
	}
	return sections
}
