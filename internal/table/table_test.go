// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		want   [][]string
		wantOK bool
	}{
		{
			name:   "uniform three columns",
			in:     []string{"A & B & C", "D & E & F"},
			want:   [][]string{{"A", "B", "C"}, {"D", "E", "F"}},
			wantOK: true,
		},
		{
			name: "mismatched column counts",
			in:   []string{"A & B", "C & D & E"},
		},
		{
			name: "single row",
			in:   []string{"A & B"},
		},
		{
			name: "line without delimiter",
			in:   []string{"A & B", "plain text"},
		},
		{
			name:   "escaped delimiters and row breaks",
			in:     []string{`Model \& Acc \\`, `Ours \& 95\%`},
			want:   [][]string{{"Model", "Acc"}, {"Ours", `95\%`}},
			wantOK: true,
		},
		{
			name:   "concatenated records are split",
			in:     []string{"Case 1 & 90 & 85 Case 2 & 88 & 80"},
			want:   [][]string{{"Case 1", "90", "85"}, {"Case 2", "88", "80"}},
			wantOK: true,
		},
		{
			name: "empty",
			in:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, ok := Detect(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestRender_HeaderRow(t *testing.T) {
	got := Render([][]string{{"Model", "Acc", "F1"}, {"Ours", "95", "0.9"}})
	want := "\\scriptsize\n" +
		"  \\begin{table}\n" +
		"    \\centering\n" +
		"    \\begin{tabular}{l c c}\n" +
		"      \\toprule\n" +
		"      \\textbf{Model} & \\textbf{Acc} & \\textbf{F1} \\\\\n" +
		"      \\midrule\n" +
		"      Ours & 95 & 0.9 \\\\\n" +
		"      \\bottomrule\n" +
		"    \\end{tabular}\n" +
		"  \\end{table}\n"
	assert.Equal(t, want, got)
}

func TestRender_SyntheticHeaders(t *testing.T) {
	tests := []struct {
		cols   int
		header string
	}{
		{2, `\textbf{Item} & \textbf{Value} \\`},
		{3, `\textbf{Item} & \textbf{Value} & \textbf{Notes} \\`},
		{4, `\textbf{Item} & \textbf{Value 1} & \textbf{Value 2} & \textbf{Notes} \\`},
		{5, `\textbf{Variant} & \textbf{Acc} & \textbf{Gain 1} & \textbf{Gain 2} & \textbf{Description} \\`},
		{6, `\textbf{Column 1} & \textbf{Column 2} & \textbf{Column 3} & \textbf{Column 4} & \textbf{Column 5} & \textbf{Column 6} \\`},
	}
	for _, tt := range tests {
		row1 := []string{"Case 1"}
		row2 := []string{"Case 2"}
		for i := 1; i < tt.cols; i++ {
			row1 = append(row1, "x")
			row2 = append(row2, "y")
		}
		got := Render([][]string{row1, row2})
		assert.Contains(t, got, tt.header)
		assert.Contains(t, got, "Case 1 & x")
		assert.Contains(t, got, "Case 2 & y")
	}
}

func TestRender_ShortensLongCells(t *testing.T) {
	got := Render([][]string{
		{"Name", "Notes"},
		{"A", "this is a very long description"},
		{"B", "**four words kept here**"},
	})
	assert.Contains(t, got, "A & this is a... \\\\")
	assert.Contains(t, got, "B & \\textbf{four words kept here} \\\\")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}

func TestDetectThenRender(t *testing.T) {
	rows, ok := Detect([]string{"Method & Acc", "Baseline & 80", "Ours & 92"})
	require.True(t, ok)
	out := Render(rows)
	assert.Contains(t, out, `\textbf{Method} & \textbf{Acc} \\`)
	assert.Contains(t, out, "{l c}")
}
