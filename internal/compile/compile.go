// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile turns a generated Beamer source into a PDF and checks the
// result.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/texslides/internal/container"
	"github.com/pdiddy/texslides/pkg/types"
)

// Defaults applied by New.
const (
	DefaultEngine = "pdflatex"
	DefaultImage  = "texlive/texlive:latest"
	DefaultPasses = 2

	// logTail is how many engine output lines an error carries.
	logTail = 15
)

// Sentinel errors for compilation.
var (
	ErrEngineFailed = errors.New("latex engine failed")
	ErrNoPDF        = errors.New("no PDF produced")
)

// Result describes a compiled deck.
type Result struct {
	PDFPath string
	Pages   int
	Runtime string
	Passes  int
}

// Compiler runs a LaTeX engine through a container.Runtime.
type Compiler struct {
	cfg types.CompileConfig
	rt  container.Runtime
}

// New returns a Compiler. Zero fields of cfg take the package defaults.
func New(cfg types.CompileConfig, rt container.Runtime) *Compiler {
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.Image == "" {
		cfg.Image = DefaultImage
	}
	if cfg.Passes <= 0 {
		cfg.Passes = DefaultPasses
	}
	return &Compiler{cfg: cfg, rt: rt}
}

// Compile runs the engine over texPath the configured number of times in
// the file's directory, then opens the PDF to count its pages. Engine
// output is streamed to w.
func (c *Compiler) Compile(ctx context.Context, texPath string, w io.Writer) (Result, error) {
	if w == nil {
		w = io.Discard
	}
	abs, err := filepath.Abs(texPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", texPath, err)
	}
	spec := container.Spec{
		Image:   c.cfg.Image,
		Dir:     filepath.Dir(abs),
		Command: []string{c.cfg.Engine, "-interaction=nonstopmode", "-halt-on-error", filepath.Base(abs)},
	}

	res := Result{Runtime: c.rt.Name()}
	for pass := 1; pass <= c.cfg.Passes; pass++ {
		var out bytes.Buffer
		err := c.rt.Run(ctx, spec, io.MultiWriter(&out, w))
		res.Passes = pass
		if err != nil {
			return res, fmt.Errorf("%w: pass %d: %v\n%s", ErrEngineFailed, pass, err, tail(out.String(), logTail))
		}
	}

	res.PDFPath = strings.TrimSuffix(abs, filepath.Ext(abs)) + ".pdf"
	info, err := Inspect(res.PDFPath)
	if err != nil {
		return res, err
	}
	res.Pages = info.Pages
	return res, nil
}

// Info summarizes a PDF file.
type Info struct {
	Pages     int
	FirstPage string
}

// Inspect opens a PDF and returns its page count and the plain text of its
// first page.
func Inspect(path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, fmt.Errorf("%w: %s", ErrNoPDF, path)
	}
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info := Info{Pages: reader.NumPage()}
	if info.Pages > 0 {
		if page := reader.Page(1); !page.V.IsNull() && !page.V.Key("Contents").IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				info.FirstPage = strings.TrimSpace(text)
			}
		}
	}
	return info, nil
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
