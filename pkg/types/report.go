// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionAsset summarizes the visual material of one top-level section.
type SectionAsset struct {
	// Section is the section title.
	Section string `json:"section" yaml:"section"`

	// ImagePath is the first figure's image reference, if any.
	ImagePath string `json:"image_path,omitempty" yaml:"image_path,omitempty"`

	// CoreEquation is the first captured equation block, if any.
	CoreEquation string `json:"core_equation,omitempty" yaml:"core_equation,omitempty"`
}

// Report describes one generation run.
type Report struct {
	Title           string         `json:"title" yaml:"title"`
	Author          string         `json:"author" yaml:"author"`
	InputSize       int            `json:"input_size" yaml:"input_size"`
	CleanedSize     int            `json:"cleaned_size" yaml:"cleaned_size"`
	NodesParsed     int            `json:"nodes_parsed" yaml:"nodes_parsed"`
	SlidesGenerated int            `json:"slides_generated" yaml:"slides_generated"`
	MaxSlides       int            `json:"max_slides" yaml:"max_slides"`
	DegradedCount   int            `json:"degraded_sections" yaml:"degraded_sections"`
	SectionAssets   []SectionAsset `json:"section_assets" yaml:"section_assets"`
	PipelineLog     []string       `json:"pipeline_log" yaml:"pipeline_log"`
}
