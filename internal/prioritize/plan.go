// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prioritize

import (
	"github.com/pdiddy/texslides/internal/reflow"
	"github.com/pdiddy/texslides/pkg/types"
)

// SectionPlan is one section scheduled for composition.
type SectionPlan struct {
	Node *types.ContentNode
	Tier Tier
	Limits
}

// Plan classifies the top-level sections among nodes. Skip-tier sections are
// dropped. Low-tier sections are merged into one plan placed first; medium
// and high plans follow in source order. Non-section nodes are ignored.
func (r *Rules) Plan(nodes []*types.ContentNode) []SectionPlan {
	var plans []SectionPlan
	var low []*types.ContentNode
	for _, n := range nodes {
		if n.Kind != types.KindSection {
			continue
		}
		switch tier := r.Classify(n.Content); tier {
		case TierSkip:
		case TierLow:
			low = append(low, n)
		default:
			plans = append(plans, SectionPlan{Node: n, Tier: tier, Limits: r.Limits(tier)})
		}
	}
	if len(low) == 0 {
		return plans
	}

	merged := SectionPlan{Node: r.merge(low), Tier: TierLow, Limits: r.Limits(TierLow)}
	merged.Quota = 1
	return append([]SectionPlan{merged}, plans...)
}

// merge builds a fresh section from the leading paragraphs of the first few
// low-tier sections. Source nodes are not modified.
func (r *Rules) merge(sections []*types.ContentNode) *types.ContentNode {
	node := types.NewNode(types.KindSection, r.Merge.Title)
	if len(sections) > r.Merge.MaxSections {
		sections = sections[:r.Merge.MaxSections]
	}
	for _, s := range sections {
		paragraphs := reflow.ReflowNodes(s.Children)
		if r.Merge.MaxParagraphs > 0 && len(paragraphs) > r.Merge.MaxParagraphs {
			paragraphs = paragraphs[:r.Merge.MaxParagraphs]
		}
		for _, p := range paragraphs {
			node.Append(types.NewNode(types.KindText, p))
		}
	}
	return node
}
