// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strconv"
)

// DefaultMaxSlides is the budget used when a style prompt names none.
const DefaultMaxSlides = 20

var (
	slideRange = regexp.MustCompile(`(?i)(\d+)\s*(?:-|–|to)\s*(\d+)\s*slides?`)
	slideCount = regexp.MustCompile(`(?i)(\d+)\s*slides?`)
)

// MaxSlidesFromPrompt reads a slide budget from a style prompt such as
// "15-20 slides", "15 to 20 slides" or "20 slides". A range yields its
// upper bound.
func MaxSlidesFromPrompt(prompt string) int {
	if m := slideRange.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
			return n
		}
	}
	if m := slideCount.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxSlides
}
