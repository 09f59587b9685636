// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table detects '&'-delimited rows inside a bullet list and renders
// them as a booktabs table block.
package table

import (
	"fmt"
	"regexp"
	"strings"
)

// maxCellWords is the word count above which a cell is shortened.
const maxCellWords = 4

var (
	// recordMarker matches enumerated record labels such as "Case 3".
	recordMarker = regexp.MustCompile(`(?i)(Mystery|Test|Item|Row|Case|Scenario)\s+\d+`)

	// leadingRecord matches a record label at the start of a cell.
	leadingRecord = regexp.MustCompile(`(?i)^(Mystery|Test|Item|Row|Case|Scenario)\s+\d+`)

	manualBreak = regexp.MustCompile(`\\\\([^a-zA-Z]|$)`)
	whitespace  = regexp.MustCompile(`\s+`)

	citeCmd  = regexp.MustCompile(`\\cite[pt]?\{[^}]+\}`)
	refCmd   = regexp.MustCompile(`\\[Cc]?ref\{[^}]+\}`)
	labelCmd = regexp.MustCompile(`\\label\{[^}]+\}`)

	boldMD   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMD = regexp.MustCompile(`\*(.+?)\*`)
	codeMD   = regexp.MustCompile("`([^`]+)`")
)

// Detect reports whether bullets form a table and returns its rows. Every
// line must contain a delimiter, all lines must have the same column count
// of at least two, and at least two rows must result.
func Detect(bullets []string) ([][]string, bool) {
	var rows [][]string
	cols := 0
	for _, line := range expandRecords(bullets) {
		line = manualBreak.ReplaceAllString(line, " $1")
		line = strings.ReplaceAll(line, `\&`, "&")
		if !strings.Contains(line, "&") {
			return nil, false
		}
		parts := strings.Split(line, "&")
		if cols == 0 {
			cols = len(parts)
		} else if len(parts) != cols {
			return nil, false
		}
		row := make([]string, len(parts))
		for i, p := range parts {
			p = strings.Trim(p, ` \`)
			row[i] = strings.TrimSpace(whitespace.ReplaceAllString(p, " "))
		}
		rows = append(rows, row)
	}
	if cols < 2 || len(rows) < 2 {
		return nil, false
	}
	return rows, true
}

// expandRecords splits bullets holding two or more record markers before
// each marker after the first. Text ahead of the first marker is dropped.
func expandRecords(bullets []string) []string {
	var out []string
	for _, b := range bullets {
		locs := recordMarker.FindAllStringIndex(b, -1)
		if len(locs) < 2 {
			out = append(out, b)
			continue
		}
		for i, loc := range locs {
			end := len(b)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			if seg := strings.TrimSpace(b[loc[0]:end]); seg != "" {
				out = append(out, seg)
			}
		}
	}
	return out
}

// Render formats rows as a small booktabs table. When the first cell is an
// enumerated record label, generic headers are synthesized and every row is
// data; otherwise row 0 is the header.
func Render(rows [][]string) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	cols := len(rows[0])

	var header []string
	data := rows
	if leadingRecord.MatchString(strings.TrimSpace(rows[0][0])) {
		for _, h := range syntheticHeaders(cols) {
			header = append(header, bold(h))
		}
	} else {
		for _, c := range rows[0] {
			header = append(header, bold(cell(c)))
		}
		data = rows[1:]
	}

	var b strings.Builder
	b.WriteString("\\scriptsize\n")
	b.WriteString("  \\begin{table}\n")
	b.WriteString("    \\centering\n")
	fmt.Fprintf(&b, "    \\begin{tabular}{%s}\n", columnSpec(cols))
	b.WriteString("      \\toprule\n")
	fmt.Fprintf(&b, "      %s \\\\\n", strings.Join(header, " & "))
	b.WriteString("      \\midrule\n")
	for _, row := range data {
		cells := make([]string, cols)
		for i := range cells {
			if i < len(row) {
				cells[i] = cell(row[i])
			}
		}
		fmt.Fprintf(&b, "      %s \\\\\n", strings.Join(cells, " & "))
	}
	b.WriteString("      \\bottomrule\n")
	b.WriteString("    \\end{tabular}\n")
	b.WriteString("  \\end{table}\n")
	return b.String()
}

func syntheticHeaders(cols int) []string {
	switch cols {
	case 2:
		return []string{"Item", "Value"}
	case 3:
		return []string{"Item", "Value", "Notes"}
	case 4:
		return []string{"Item", "Value 1", "Value 2", "Notes"}
	case 5:
		return []string{"Variant", "Acc", "Gain 1", "Gain 2", "Description"}
	}
	out := make([]string, cols)
	for i := range out {
		out[i] = fmt.Sprintf("Column %d", i+1)
	}
	return out
}

// columnSpec left-aligns the first column and centers the rest.
func columnSpec(cols int) string {
	spec := []string{"l"}
	for i := 1; i < cols; i++ {
		spec = append(spec, "c")
	}
	return strings.Join(spec, " ")
}

func bold(s string) string {
	return `\textbf{` + s + `}`
}

// cell cleans a cell and shortens it to three words plus an ellipsis when it
// is longer than four words. Ampersands stay unescaped.
func cell(text string) string {
	s := citeCmd.ReplaceAllString(text, "")
	s = refCmd.ReplaceAllString(s, "")
	s = labelCmd.ReplaceAllString(s, "")
	s = manualBreak.ReplaceAllString(s, " $1")
	s = boldMD.ReplaceAllString(s, `\textbf{$1}`)
	s = italicMD.ReplaceAllString(s, `\textit{$1}`)
	s = codeMD.ReplaceAllString(s, `\texttt{$1}`)
	words := strings.Fields(s)
	if len(words) > maxCellWords {
		return strings.Join(words[:3], " ") + "..."
	}
	return strings.Join(words, " ")
}
