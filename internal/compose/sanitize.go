// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/texslides/internal/bullets"
	"github.com/pdiddy/texslides/internal/reflow"
	"github.com/pdiddy/texslides/internal/title"
)

// Narrow-layout ceiling for a single bullet.
const (
	narrowMaxWords = 100
	narrowMaxChars = 500
)

var (
	listMarker     = regexp.MustCompile(`^(?:[*-]|\d+\.)\s+`)
	seeEmpty       = regexp.MustCompile(`(?i)\((?:see|prompt example in)\s+\)`)
	emptyParens    = regexp.MustCompile(`\(\s*\)`)
	spaceBeforeP   = regexp.MustCompile(`\s+([.,;:])`)
	spaceAfterP    = regexp.MustCompile(`([.,;:])\s+`)
	overviewMarker = regexp.MustCompile(`^(?:\d+\.|\*|-)\s+`)
)

// overviewFiller marks summary lines that talk about the deck rather than
// the paper.
var overviewFiller = []string{
	"slide", ":", "here's", "here is", "presentation", "based on",
	"following", "provided", "document", "outline", "overview",
	"---", "--", "===", "***",
}

// SanitizeBullet normalizes one bullet for Beamer output: list markers,
// citations, references and manual breaks are removed, Markdown emphasis is
// converted, empty parentheses are dropped, punctuation spacing is fixed,
// special characters are escaped and brace groups are balanced.
func SanitizeBullet(text string) string {
	s := listMarker.ReplaceAllString(strings.TrimSpace(text), "")
	s = reflow.Sanitize(s)
	s = bullets.ConvertMarkdown(s)
	s = seeEmpty.ReplaceAllString(s, "")
	s = emptyParens.ReplaceAllString(s, "")
	s = spaceBeforeP.ReplaceAllString(s, "$1")
	s = spaceAfterP.ReplaceAllString(s, "$1 ")
	return title.Balance(EscapeSpecials(strings.TrimSpace(s)))
}

// EscapeSpecials escapes '&' and '%' characters not already escaped, and
// '_' and '#' outside inline math. An unpaired '$' is escaped as a literal.
func EscapeSpecials(s string) string {
	lone := loneDollar(s)
	var b strings.Builder
	escaped, inMath := false, false
	for i, r := range s {
		if escaped {
			escaped = false
			b.WriteRune(r)
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '&', '%':
			b.WriteByte('\\')
		case '_', '#':
			if !inMath {
				b.WriteByte('\\')
			}
		case '$':
			if i == lone {
				b.WriteByte('\\')
			} else {
				inMath = !inMath
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// loneDollar returns the byte offset of the last unescaped '$' when their
// count is odd, or -1.
func loneDollar(s string) int {
	last, count := -1, 0
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '$':
			last = i
			count++
		}
	}
	if count%2 == 0 {
		return -1
	}
	return last
}

// tooLongForNarrow reports whether s exceeds the half-width column ceiling.
func tooLongForNarrow(s string) bool {
	return len(strings.Fields(s)) > narrowMaxWords || len([]rune(s)) > narrowMaxChars
}

// OverviewLines extracts at most six presentable lines from a summary.
// Lines about the deck itself and short fragments are dropped.
func OverviewLines(summary string) []string {
	var out []string
	for _, line := range strings.Split(summary, "\n") {
		s := strings.TrimLeft(strings.TrimSpace(line), "#")
		s = overviewMarker.ReplaceAllString(strings.TrimSpace(s), "")
		s = strings.Trim(s, " \t-")
		if s == "" || containsAny(strings.ToLower(s), overviewFiller) {
			continue
		}
		s = SanitizeBullet(s)
		if len([]rune(s)) <= 10 {
			continue
		}
		out = append(out, s)
		if len(out) == 6 {
			break
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ShortenImagePath keeps the last two components of a figure path.
func ShortenImagePath(p string) string {
	p = filepath.ToSlash(p)
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) <= 2 {
		return p
	}
	return path.Join(parts[len(parts)-2:]...)
}

// resolveImage returns the path written into the deck and the full path
// handed to an image-aware generator. The full path is empty without a
// figure root or when no candidate file exists.
func resolveImage(figureRoot, image string) (short, full string) {
	short = ShortenImagePath(image)
	if figureRoot == "" {
		return short, ""
	}
	for _, candidate := range []string{short, image} {
		p := filepath.Join(figureRoot, filepath.FromSlash(candidate))
		if fileExists(p) {
			return short, p
		}
	}
	return short, ""
}

// imageLikely reports whether a columns layout should be used for path.
func imageLikely(short, full string) bool {
	if full != "" {
		return true
	}
	if strings.Contains(short, "figures/") {
		return true
	}
	switch strings.ToLower(path.Ext(short)) {
	case ".pdf", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
