// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prioritize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/texslides/pkg/types"
)

func section(title string, texts ...string) *types.ContentNode {
	n := types.NewNode(types.KindSection, title)
	for _, t := range texts {
		n.Append(types.NewNode(types.KindText, t))
	}
	return n
}

func TestClassify(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		title string
		want  Tier
	}{
		{"References", TierSkip},
		{"Appendix A: Proofs", TierSkip},
		{"Acknowledgments", TierSkip},
		{"Methodology", TierHigh},
		{"Experimental Results", TierHigh},
		{"Introduction", TierLow},
		{"RELATED WORK", TierLow},
		{"Discussion", TierMedium},
		{"Conclusion", TierMedium},
		// skip wins over high
		{"Supplementary Results", TierSkip},
		// high wins over low
		{"Background on the Model", TierHigh},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Classify(tt.title))
		})
	}
}

func TestClassify_CustomPrecedence(t *testing.T) {
	r := DefaultRules()
	r.Precedence = []Tier{TierLow, TierHigh, TierSkip}
	assert.Equal(t, TierLow, r.Classify("Background on the Model"))
}

func TestPlan(t *testing.T) {
	nodes := []*types.ContentNode{
		types.NewNode(types.KindText, "stray preamble text"),
		section("Introduction", "Intro line one", "intro line two."),
		section("Methodology", "We propose."),
		section("Discussion", "It works."),
		section("Related Work", "Prior art."),
		section("References"),
	}
	plans := DefaultRules().Plan(nodes)
	require.Len(t, plans, 3)

	merged := plans[0]
	assert.Equal(t, TierLow, merged.Tier)
	assert.Equal(t, 1, merged.Quota)
	assert.Equal(t, `Background \& Context`, merged.Node.Content)
	require.Len(t, merged.Node.Children, 2)
	assert.Equal(t, "Intro line one intro line two.", merged.Node.Children[0].Content)
	assert.Equal(t, "Prior art.", merged.Node.Children[1].Content)
	assert.Equal(t, 1, merged.Node.Children[0].Level)

	assert.Equal(t, "Methodology", plans[1].Node.Content)
	assert.Equal(t, TierHigh, plans[1].Tier)
	assert.Equal(t, 3, plans[1].Quota)
	assert.Equal(t, 5, plans[1].PerFrame)

	assert.Equal(t, "Discussion", plans[2].Node.Content)
	assert.Equal(t, TierMedium, plans[2].Tier)
	assert.Equal(t, 2, plans[2].Quota)
	assert.Equal(t, 4, plans[2].PerFrame)
}

func TestPlan_MergeLimits(t *testing.T) {
	nodes := []*types.ContentNode{
		section("Introduction", "A & B", "C & D", "E & F"),
		section("Background", "b."),
		section("Motivation", "m."),
		section("Notation", "n."),
	}
	plans := DefaultRules().Plan(nodes)
	require.Len(t, plans, 1)

	var got []string
	for _, c := range plans[0].Node.Children {
		got = append(got, c.Content)
	}
	// Two paragraphs from the tabular section, none from the fourth.
	assert.Equal(t, []string{"A & B", "C & D", "b.", "m."}, got)
}

func TestPlan_MergeDoesNotTouchSources(t *testing.T) {
	intro := section("Introduction", "text")
	DefaultRules().Plan([]*types.ContentNode{intro})
	require.Len(t, intro.Children, 1)
	assert.Equal(t, 1, intro.Children[0].Level)
}

func TestPlan_EmptyMergeStillPlanned(t *testing.T) {
	plans := DefaultRules().Plan([]*types.ContentNode{section("Introduction")})
	require.Len(t, plans, 1)
	assert.Empty(t, plans[0].Node.Children)
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := `precedence: [high, skip, low]
keywords:
  high: [proof]
tiers:
  medium: {quota: 1, bullet_cap: 3, llm_bullets: 3, per_frame: 3}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []Tier{TierHigh, TierSkip, TierLow}, r.Precedence)
	assert.Equal(t, []string{"proof"}, r.Keywords.High)
	assert.Contains(t, r.Keywords.Skip, "reference")
	assert.Equal(t, 1, r.Limits(TierMedium).Quota)
	assert.Equal(t, 3, r.Limits(TierHigh).Quota)
	assert.Equal(t, TierMedium, r.Classify("Methodology"))
	assert.Equal(t, TierHigh, r.Classify("Proof of Theorem 1"))
}

func TestLoadRules_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("precedence: [medium]\n"), 0o644))
	_, err := LoadRules(bad)
	assert.ErrorIs(t, err, ErrInvalidRules)

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("tiers:\n  high: {quota: 0, bullet_cap: 1, per_frame: 1}\n"), 0o644))
	_, err = LoadRules(zero)
	assert.ErrorIs(t, err, ErrInvalidRules)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	garbled := filepath.Join(dir, "garbled.yaml")
	require.NoError(t, os.WriteFile(garbled, []byte("precedence: {\n"), 0o644))
	_, err = LoadRules(garbled)
	assert.Error(t, err)
}
