// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prioritize classifies top-level sections into tiers and turns
// them into slide plans. Keyword sets, their precedence and per-tier limits
// come from a rule table that can be loaded from YAML.
package prioritize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Tier is a section priority.
type Tier string

const (
	TierSkip   Tier = "skip"
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// ErrInvalidRules is returned when a rule table cannot be used.
var ErrInvalidRules = errors.New("invalid rule table")

// Limits bounds what one section contributes to the deck.
type Limits struct {
	// Quota is the number of frames the section may emit.
	Quota int `yaml:"quota"`

	// BulletCap is the maximum number of bullets kept for the section.
	BulletCap int `yaml:"bullet_cap"`

	// LLMBullets is the number of bullets requested from a generator.
	LLMBullets int `yaml:"llm_bullets"`

	// PerFrame is the bullet chunk size of plain bullet frames.
	PerFrame int `yaml:"per_frame"`
}

// Keywords holds the lowercase keyword sets matched against titles.
type Keywords struct {
	Skip []string `yaml:"skip"`
	High []string `yaml:"high"`
	Low  []string `yaml:"low"`
}

// Merge controls how low-tier sections are folded together.
type Merge struct {
	Title         string `yaml:"title"`
	MaxSections   int    `yaml:"max_sections"`
	MaxParagraphs int    `yaml:"max_paragraphs"`
}

// Rules is the classification and budgeting table.
type Rules struct {
	// Precedence is the order in which keyword sets are tested.
	Precedence []Tier          `yaml:"precedence"`
	Keywords   Keywords        `yaml:"keywords"`
	Tiers      map[Tier]Limits `yaml:"tiers"`
	Merge      Merge           `yaml:"merge"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	return &Rules{
		Precedence: []Tier{TierSkip, TierHigh, TierLow},
		Keywords: Keywords{
			Skip: []string{
				"reference", "bibliography", "appendix", "acknowledgement",
				"acknowledgment", "supplementary", "prompt example",
				"naming variants", "use of large language",
			},
			High: []string{
				"method", "algorithm", "approach", "experiment", "result",
				"evaluation", "technique", "model", "architecture", "analysis",
				"finding", "ablation", "implementation", "performance", "validation",
			},
			Low: []string{
				"introduction", "background", "related work", "prior work",
				"motivation", "preliminaries", "notation",
			},
		},
		Tiers: map[Tier]Limits{
			TierHigh:   {Quota: 3, BulletCap: 15, LLMBullets: 12, PerFrame: 5},
			TierMedium: {Quota: 2, BulletCap: 8, LLMBullets: 8, PerFrame: 4},
			TierLow:    {Quota: 1, BulletCap: 4, LLMBullets: 4, PerFrame: 4},
		},
		Merge: Merge{
			Title:         `Background \& Context`,
			MaxSections:   3,
			MaxParagraphs: 2,
		},
	}
}

// LoadRules reads a YAML rule table. Fields absent from the file keep their
// default values.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	r := DefaultRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks that precedence names keyword sets and that every planned
// tier has a positive quota and frame size.
func (r *Rules) Validate() error {
	for _, t := range r.Precedence {
		switch t {
		case TierSkip, TierHigh, TierLow:
		default:
			return fmt.Errorf("%w: precedence entry %q has no keyword set", ErrInvalidRules, t)
		}
	}
	for _, t := range []Tier{TierHigh, TierMedium, TierLow} {
		l, ok := r.Tiers[t]
		if !ok {
			return fmt.Errorf("%w: missing limits for tier %q", ErrInvalidRules, t)
		}
		if l.Quota < 1 || l.PerFrame < 1 || l.BulletCap < 1 {
			return fmt.Errorf("%w: tier %q needs positive quota, per_frame and bullet_cap", ErrInvalidRules, t)
		}
	}
	if r.Merge.MaxSections < 1 {
		return fmt.Errorf("%w: merge.max_sections must be positive", ErrInvalidRules)
	}
	return nil
}

// Classify returns the tier of a section title. Keyword sets are tested in
// precedence order with case-insensitive substring matching; a title that
// matches none is medium.
func (r *Rules) Classify(title string) Tier {
	lower := strings.ToLower(title)
	for _, t := range r.Precedence {
		if containsAny(lower, r.keywords(t)) {
			return t
		}
	}
	return TierMedium
}

// Limits returns the limits of tier t.
func (r *Rules) Limits(t Tier) Limits {
	return r.Tiers[t]
}

func (r *Rules) keywords(t Tier) []string {
	switch t {
	case TierSkip:
		return r.Keywords.Skip
	case TierHigh:
		return r.Keywords.High
	case TierLow:
		return r.Keywords.Low
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
