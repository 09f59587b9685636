// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one LaTeX source through normalization, parsing,
// prioritization and composition, and reports what happened.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/texslides/internal/bullets"
	"github.com/pdiddy/texslides/internal/compose"
	"github.com/pdiddy/texslides/internal/normalize"
	"github.com/pdiddy/texslides/internal/prioritize"
	"github.com/pdiddy/texslides/internal/texparse"
	"github.com/pdiddy/texslides/pkg/types"
)

// Options configures a run.
type Options struct {
	Deck       types.DeckConfig
	Rules      *prioritize.Rules
	Capability *bullets.Capability

	// Style is the free-form presentation prompt handed to the summarizer.
	Style string

	Logger *slog.Logger
}

// progress writes human-readable lines to w and keeps a copy for the report.
type progress struct {
	w     io.Writer
	lines []string
}

func (p *progress) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	p.lines = append(p.lines, line)
	fmt.Fprintln(p.w, line)
}

// Run converts markup into a Beamer deck. Progress lines go to w and are
// mirrored into the report's pipeline log.
func Run(ctx context.Context, markup string, opts Options, w io.Writer) (string, types.Report) {
	if w == nil {
		w = io.Discard
	}
	log := &progress{w: w}
	rules := opts.Rules
	if rules == nil {
		rules = prioritize.DefaultRules()
	}

	log.printf("input: %d characters", len(markup))

	n := normalize.New()
	cleaned := n.Normalize(markup)
	st := n.Stats()
	log.printf("normalized: %d macros, %d custom environments, %d characters",
		st.MacrosFound, st.CustomEnvironments, len(cleaned))

	meta := texparse.Metadata(cleaned)
	deck := opts.Deck
	if deck.Title == "" {
		deck.Title = meta.Title
	}
	if deck.Author == "" {
		deck.Author = meta.Author
	}

	nodes := texparse.Parse(cleaned)
	total := countNodes(nodes)
	log.printf("parsed: %d top-level nodes, %d total", len(nodes), total)

	plans := rules.Plan(nodes)
	log.printf("planned: %s", describePlans(plans))

	summary := ""
	if opts.Capability != nil && opts.Capability.CanSummarize() {
		out, res := opts.Capability.Summarize(ctx, bullets.Outline(nodes), opts.Style)
		if res.OK() {
			summary = out
			log.printf("summary: %d characters from %s", len(out), opts.Capability.Name())
		} else {
			log.printf("warning: summary unavailable: %s", res.Reason)
		}
	}

	composer := compose.New(deck, rules,
		compose.WithCapability(opts.Capability),
		compose.WithLogger(opts.Logger),
	)
	doc, stats := composer.Compose(ctx, nodes, summary)
	for _, d := range stats.Degraded {
		log.printf("warning: %s: rule-based bullets (%s)", d.Section, d.Reason)
	}
	log.printf("composed: %d of %d slides", stats.SlidesGenerated, stats.MaxSlides)

	return doc, types.Report{
		Title:           deck.Title,
		Author:          deck.Author,
		InputSize:       len(markup),
		CleanedSize:     len(cleaned),
		NodesParsed:     total,
		SlidesGenerated: stats.SlidesGenerated,
		MaxSlides:       stats.MaxSlides,
		DegradedCount:   len(stats.Degraded),
		SectionAssets:   SectionAssets(nodes),
		PipelineLog:     log.lines,
	}
}

// SectionAssets lists, for every top-level section, its first figure image
// and first equation block.
func SectionAssets(nodes []*types.ContentNode) []types.SectionAsset {
	var out []types.SectionAsset
	for _, n := range nodes {
		if n.Kind != types.KindSection {
			continue
		}
		asset := types.SectionAsset{Section: n.Content}
		for _, d := range n.Descendants() {
			switch {
			case d.Kind == types.KindFigure && asset.ImagePath == "":
				asset.ImagePath = d.Meta(types.MetaImagePath)
			case d.Kind == types.KindEquation && asset.CoreEquation == "":
				asset.CoreEquation = d.Content
			}
		}
		out = append(out, asset)
	}
	return out
}

func countNodes(nodes []*types.ContentNode) int {
	total := len(nodes)
	for _, n := range nodes {
		total += len(n.Descendants())
	}
	return total
}

func describePlans(plans []prioritize.SectionPlan) string {
	if len(plans) == 0 {
		return "no sections"
	}
	counts := map[prioritize.Tier]int{}
	for _, p := range plans {
		counts[p.Tier]++
	}
	var parts []string
	for _, t := range []prioritize.Tier{prioritize.TierHigh, prioritize.TierMedium, prioritize.TierLow} {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
		}
	}
	return fmt.Sprintf("%d sections (%s)", len(plans), strings.Join(parts, ", "))
}
