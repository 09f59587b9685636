// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bullets provides the optional bullet-generation capability used
// by the slide composer. A Capability wraps a text generator and, when built
// with NewMultimodalCapability, an image-aware one. Every call returns a
// Result instead of an error so callers branch on Ok or Degraded.
package bullets

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds one Generate call, client retries included.
const DefaultTimeout = 2 * time.Minute

// TextGenerator produces bullets from section text.
type TextGenerator interface {
	GenerateBullets(ctx context.Context, content, title string, maxBullets int) ([]string, error)
}

// ImageGenerator additionally considers a figure image.
type ImageGenerator interface {
	TextGenerator
	GenerateBulletsWithImage(ctx context.Context, content, title, imagePath string, maxBullets int) ([]string, error)
}

// Summarizer produces a slide-oriented summary of a document outline.
type Summarizer interface {
	Summarize(ctx context.Context, outline, style string) (string, error)
}

// Request is one bullet-generation call.
type Request struct {
	Title      string
	Content    string
	ImagePath  string
	MaxBullets int
}

// Result is the outcome of a generation call: Ok with bullets, or Degraded
// with the reason the caller should fall back.
type Result struct {
	Bullets []string
	Reason  string
	ok      bool
}

// Ok returns a successful Result.
func Ok(bullets []string) Result {
	return Result{Bullets: bullets, ok: true}
}

// Degraded returns a failed Result carrying reason.
func Degraded(reason string) Result {
	return Result{Reason: reason}
}

// OK reports whether the Result carries bullets.
func (r Result) OK() bool {
	return r.ok
}

// Option configures a Capability.
type Option func(*Capability)

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Capability) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSummarizer attaches a Summarizer used for the overview frame.
func WithSummarizer(s Summarizer) Option {
	return func(c *Capability) { c.summarizer = s }
}

// Capability is a configured bullet generator. Image support is fixed at
// construction.
type Capability struct {
	name       string
	text       TextGenerator
	image      ImageGenerator
	summarizer Summarizer
	timeout    time.Duration
}

// NewCapability returns a text-only Capability.
func NewCapability(name string, gen TextGenerator, opts ...Option) *Capability {
	c := &Capability{name: name, text: gen, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewMultimodalCapability returns a Capability that passes figure images to
// gen when a request carries one.
func NewMultimodalCapability(name string, gen ImageGenerator, opts ...Option) *Capability {
	c := NewCapability(name, gen, opts...)
	c.image = gen
	return c
}

// Name identifies the backing provider.
func (c *Capability) Name() string {
	return c.name
}

// SupportsImages reports whether requests with an ImagePath use the image
// generator.
func (c *Capability) SupportsImages() bool {
	return c.image != nil
}

// CanSummarize reports whether a Summarizer is attached.
func (c *Capability) CanSummarize() bool {
	return c.summarizer != nil
}

// Generate runs one request under the capability timeout. Errors, timeouts
// and empty output all yield Degraded.
func (c *Capability) Generate(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		bullets []string
		err     error
	)
	if c.image != nil && req.ImagePath != "" {
		bullets, err = c.image.GenerateBulletsWithImage(ctx, req.Content, req.Title, req.ImagePath, req.MaxBullets)
	} else {
		bullets, err = c.text.GenerateBullets(ctx, req.Content, req.Title, req.MaxBullets)
	}
	if err != nil {
		return Degraded(fmt.Sprintf("%s: %v", c.name, err))
	}
	bullets = nonEmpty(bullets)
	if len(bullets) == 0 {
		return Degraded(fmt.Sprintf("%s: empty response", c.name))
	}
	if req.MaxBullets > 0 && len(bullets) > req.MaxBullets {
		bullets = bullets[:req.MaxBullets]
	}
	return Ok(bullets)
}

// Summarize asks the attached Summarizer for an overview. It returns
// Degraded when none is attached or the call fails.
func (c *Capability) Summarize(ctx context.Context, outline, style string) (string, Result) {
	if c.summarizer == nil {
		return "", Degraded(c.name + ": no summarizer")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	summary, err := c.summarizer.Summarize(ctx, outline, style)
	if err != nil {
		return "", Degraded(fmt.Sprintf("%s: %v", c.name, err))
	}
	if summary == "" {
		return "", Degraded(c.name + ": empty summary")
	}
	return summary, Ok(nil)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
