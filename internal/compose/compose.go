// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns planned sections into a Beamer deck under a global
// frame budget.
package compose

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/texslides/internal/bullets"
	"github.com/pdiddy/texslides/internal/prioritize"
	"github.com/pdiddy/texslides/internal/reflow"
	"github.com/pdiddy/texslides/internal/table"
	"github.com/pdiddy/texslides/internal/title"
	"github.com/pdiddy/texslides/pkg/types"
)

// Deck defaults applied by New.
const (
	DefaultMaxSlides = 20
	DefaultTheme     = "Madrid"
	DefaultDate      = `\today`

	narrowBullets = 3
)

// Degradation records a section whose bullets fell back to rules.
type Degradation struct {
	Section string `json:"section" yaml:"section"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Stats summarizes one Compose call.
type Stats struct {
	SlidesGenerated int
	MaxSlides       int
	Overview        bool
	Degraded        []Degradation
	Trace           []State
}

// Option configures a Composer.
type Option func(*Composer)

// WithCapability routes section bullets through c.
func WithCapability(c *bullets.Capability) Option {
	return func(cp *Composer) { cp.capability = c }
}

// WithLogger sets the logger used for degradation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(cp *Composer) {
		if l != nil {
			cp.logger = l
		}
	}
}

// Composer renders decks. It holds no per-run state and may be reused.
type Composer struct {
	cfg        types.DeckConfig
	rules      *prioritize.Rules
	capability *bullets.Capability
	logger     *slog.Logger
}

// New returns a Composer for cfg. A nil rules uses prioritize.DefaultRules.
func New(cfg types.DeckConfig, rules *prioritize.Rules, opts ...Option) *Composer {
	if rules == nil {
		rules = prioritize.DefaultRules()
	}
	if cfg.MaxSlides == 0 {
		cfg.MaxSlides = DefaultMaxSlides
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.Date == "" {
		cfg.Date = DefaultDate
	}
	if cfg.BulletBound <= 0 {
		cfg.BulletBound = reflow.DefaultBound
	}
	if cfg.TitleMaxWords <= 0 {
		cfg.TitleMaxWords = title.DefaultMaxWords
	}
	c := &Composer{
		cfg:    cfg,
		rules:  rules,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose renders nodes as a complete Beamer document. summary, when
// non-empty, feeds the overview frame.
func (c *Composer) Compose(ctx context.Context, nodes []*types.ContentNode, summary string) (string, Stats) {
	r := &run{
		Composer: c,
		ctx:      ctx,
		budget:   NewBudget(c.cfg.MaxSlides),
		state:    StateIdle,
	}
	r.stats.Trace = []State{StateIdle}

	r.titleFrame()
	r.overview(summary)
	r.enter(StateSectionLoop)
	for _, plan := range c.rules.Plan(nodes) {
		if r.budget.Exhausted() {
			break
		}
		r.section(plan)
	}
	r.enter(StateDone)

	r.stats.SlidesGenerated = r.budget.Used()
	r.stats.MaxSlides = r.budget.Max()
	doc := render("document", documentData{
		Theme:     c.cfg.Theme,
		Title:     EscapeSpecials(c.cfg.Title),
		Author:    EscapeSpecials(c.cfg.Author),
		Institute: EscapeSpecials(c.cfg.Institute),
		Date:      c.cfg.Date,
		Frames:    r.frames,
	})
	return doc, r.stats
}

// run is the state of one Compose call.
type run struct {
	*Composer
	ctx    context.Context
	budget *Budget
	state  State
	frames []string
	stats  Stats
}

func (r *run) enter(s State) {
	if r.state == s || r.state == StateDone {
		return
	}
	r.state = s
	r.stats.Trace = append(r.stats.Trace, s)
}

// emit takes a frame from the budget. Once the budget is spent the run is
// done and nothing further is emitted.
func (r *run) emit(frame string) bool {
	if r.state == StateDone || !r.budget.Take() {
		r.enter(StateDone)
		return false
	}
	r.frames = append(r.frames, frame)
	return true
}

func (r *run) titleFrame() {
	if r.emit(render("title", nil)) {
		r.enter(StateTitleEmitted)
	}
}

func (r *run) overview(summary string) {
	if r.state == StateDone || strings.TrimSpace(summary) == "" {
		return
	}
	items := OverviewLines(summary)
	if len(items) == 0 || r.budget.Exhausted() {
		return
	}
	if r.emit(render("frame", frameData{Title: "Overview", Items: items})) {
		r.stats.Overview = true
		r.enter(StateOverviewEmitted)
	}
}

// section emits the frames for one plan until its quota or the budget ends.
func (r *run) section(plan prioritize.SectionPlan) {
	node := plan.Node
	desc := node.Descendants()
	paragraphs := reflow.Reflow(reflow.Texts(desc))
	figure := firstOfKind(desc, types.KindFigure)
	equation := firstOfKind(desc, types.KindEquation)

	var short, full string
	if figure != nil {
		short, full = resolveImage(r.cfg.FigureRoot, figure.Meta(types.MetaImagePath))
	}

	items := r.sectionBullets(plan, paragraphs, full)
	if plan.BulletCap > 0 && len(items) > plan.BulletCap {
		items = items[:plan.BulletCap]
	}

	secTitle, secOverflow := title.Compress(node.Content, r.cfg.TitleMaxWords)
	secTitle = EscapeSpecials(secTitle)
	used := 0
	overflowShown := false

	switch {
	case figure != nil && used < plan.Quota:
		raw := figure.Meta(types.MetaCaption)
		if raw == "" {
			raw = node.Content
		}
		figTitle, figOverflow := title.Compress(raw, r.cfg.TitleMaxWords)
		if !r.emit(r.figureFrame(EscapeSpecials(figTitle), figOverflow, short, full, items)) {
			return
		}
		used++
		items = drop(items, narrowBullets)
	case equation != nil && used < plan.Quota:
		if !r.emit(r.equationFrame(secTitle, secOverflow, equation.Content, items)) {
			return
		}
		used++
		overflowShown = true
		items = drop(items, narrowBullets)
	}

	per := plan.PerFrame
	if per <= 0 {
		per = len(items)
	}
	first := true
	for len(items) > 0 && used < plan.Quota {
		chunk := items
		if len(chunk) > per {
			chunk = chunk[:per]
		}
		items = items[len(chunk):]

		frameTitle, overflow := secTitle, secOverflow
		if !first {
			frameTitle += " (cont.)"
		}
		if !first || overflowShown {
			overflow = ""
		}
		first = false

		frame, ok := r.bulletFrame(frameTitle, overflow, chunk)
		if !ok {
			continue
		}
		if !r.emit(frame) {
			return
		}
		used++
	}
}

// sectionBullets asks the capability for bullets and falls back to the
// rule-based split when it is absent or degrades.
func (r *run) sectionBullets(plan prioritize.SectionPlan, paragraphs []string, imagePath string) []string {
	if r.capability != nil && (len(paragraphs) > 0 || imagePath != "") {
		req := bullets.Request{
			Title:      title.Clean(plan.Node.Content),
			Content:    strings.Join(paragraphs, " "),
			MaxBullets: plan.LLMBullets,
		}
		if r.capability.SupportsImages() {
			req.ImagePath = imagePath
		}
		res := r.capability.Generate(r.ctx, req)
		if res.OK() {
			return res.Bullets
		}
		r.logger.Warn("bullet generation degraded",
			"section", plan.Node.Content,
			"provider", r.capability.Name(),
			"reason", res.Reason)
		r.stats.Degraded = append(r.stats.Degraded, Degradation{Section: plan.Node.Content, Reason: res.Reason})
	}

	var out []string
	for _, p := range paragraphs {
		out = append(out, reflow.Split(reflow.Sanitize(p), r.cfg.BulletBound)...)
	}
	return out
}

// figureFrame lays the image out beside at most three bullets. Without a
// usable image path the bullets take the full width.
func (r *run) figureFrame(frameTitle, overflow, short, full string, items []string) string {
	items = head(items, narrowBullets)
	if !imageLikely(short, full) {
		return r.fullWidth(frameTitle, overflow, items)
	}
	var kept []string
	for _, b := range withOverflow(items, overflow, true) {
		if !tooLongForNarrow(b) {
			kept = append(kept, b)
		}
	}
	fd := frameData{Title: frameTitle, Image: short}
	fillBody(&fd, head(kept, narrowBullets))
	return render("frame", fd)
}

func (r *run) equationFrame(frameTitle, overflow, eq string, items []string) string {
	items = withOverflow(head(items, narrowBullets), overflow, true)
	fd := frameData{Title: frameTitle, Equation: equationBlock(eq)}
	fillBody(&fd, head(items, narrowBullets))
	return render("frame", fd)
}

func (r *run) fullWidth(frameTitle, overflow string, items []string) string {
	fd := frameData{Title: frameTitle}
	fillBody(&fd, withOverflow(items, overflow, false))
	return render("frame", fd)
}

// bulletFrame renders a plain bullet frame. It reports false when nothing
// presentable remains.
func (r *run) bulletFrame(frameTitle, overflow string, items []string) (string, bool) {
	fd := frameData{Title: frameTitle}
	fillBody(&fd, withOverflow(items, overflow, false))
	if fd.Table == "" && len(fd.Items) == 0 {
		return "", false
	}
	return render("frame", fd), true
}

// fillBody sets a table when the bullets carry rows, otherwise sanitized
// list items.
func fillBody(fd *frameData, items []string) {
	if rows, ok := table.Detect(items); ok {
		fd.Table = table.Render(rows)
		return
	}
	for _, b := range items {
		if s := SanitizeBullet(b); s != "" {
			fd.Items = append(fd.Items, s)
		}
	}
}

// withOverflow prepends the title overflow unless the first bullet already
// contains it or, in narrow layouts, it is too long.
func withOverflow(items []string, overflow string, narrow bool) []string {
	if overflow == "" {
		return items
	}
	if len(items) > 0 && strings.Contains(items[0], overflow) {
		return items
	}
	if narrow && tooLongForNarrow(overflow) {
		return items
	}
	return append([]string{overflow}, items...)
}

func firstOfKind(nodes []*types.ContentNode, kind types.NodeKind) *types.ContentNode {
	for _, n := range nodes {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func drop(items []string, n int) []string {
	if len(items) > n {
		return items[n:]
	}
	return nil
}
