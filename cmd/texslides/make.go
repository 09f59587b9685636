// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texslides/internal/bullets"
	"github.com/pdiddy/texslides/internal/compile"
	"github.com/pdiddy/texslides/internal/container"
	"github.com/pdiddy/texslides/internal/discover"
	"github.com/pdiddy/texslides/internal/history"
	"github.com/pdiddy/texslides/internal/pipeline"
	"github.com/pdiddy/texslides/internal/prioritize"
	"github.com/pdiddy/texslides/pkg/types"
)

var makeCmd = &cobra.Command{
	Use:   "make <paper.tex | dir>",
	Short: "Generate a Beamer deck from a LaTeX paper",
	Long: `Make reads a LaTeX source (or finds the main file in a directory),
plans its sections, and writes a Beamer deck. Use --compile to build the
PDF with pdflatex locally or inside a container.`,
	Args: cobra.ExactArgs(1),
	RunE: runMake,
}

func runMake(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := resolveSource(cmd, args[0])
	if err != nil {
		return err
	}
	markup, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	applyPrompt(cmd, &cfg.Deck)
	if cfg.Deck.FigureRoot == "" {
		cfg.Deck.FigureRoot = filepath.Dir(source)
	}

	rules := prioritize.DefaultRules()
	if cfg.RulesFile != "" {
		if rules, err = prioritize.LoadRules(cfg.RulesFile); err != nil {
			return err
		}
	}

	capability, err := bullets.FromConfig(cfg.AI, logger)
	if err != nil {
		return err
	}

	prompt, _ := cmd.Flags().GetString("prompt")
	doc, report := pipeline.Run(ctx, string(markup), pipeline.Options{
		Deck:       cfg.Deck,
		Rules:      rules,
		Capability: capability,
		Style:      prompt,
		Logger:     logger,
	}, os.Stderr)

	output := outputPath(cmd, source)
	if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d slides)\n", output, report.SlidesGenerated)

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := pipeline.WriteReport(path, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote report %s\n", path)
	}

	runID := recordRun(ctx, cfg, source, output, report)

	if doCompile, _ := cmd.Flags().GetBool("compile"); doCompile {
		compileDeck(ctx, cfg, output, runID, os.Stderr)
	}
	return nil
}

// resolveSource accepts either a .tex file or a directory to search.
func resolveSource(cmd *cobra.Command, arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %s", discover.ErrInputNotFound, arg)
	}
	if !info.IsDir() {
		return arg, nil
	}
	mainFile, _ := cmd.Flags().GetString("main")
	return discover.Find(arg, mainFile)
}

// applyPrompt derives the slide budget from --prompt unless --max-slides
// or the config already set one.
func applyPrompt(cmd *cobra.Command, deck *types.DeckConfig) {
	prompt, _ := cmd.Flags().GetString("prompt")
	if prompt == "" || cmd.Flags().Changed("max-slides") || viper.InConfig("deck.max_slides") {
		return
	}
	deck.MaxSlides = pipeline.MaxSlidesFromPrompt(prompt)
}

func outputPath(cmd *cobra.Command, source string) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	return stem + "_slides.tex"
}

// recordRun stores the run in history and returns its ID. Failures are
// warnings; the deck is already written.
func recordRun(ctx context.Context, cfg types.AppConfig, source, output string, report types.Report) string {
	if cfg.History.Disabled {
		return ""
	}
	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return ""
	}
	defer store.Close()

	run := &history.Run{
		Source:   source,
		Output:   output,
		Provider: string(cfg.AI.Provider),
		Report:   report,
	}
	if err := store.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
		return ""
	}
	logger.Debug("recorded run", "id", run.ID)
	return run.ID
}

// compileDeck builds the PDF. Errors are reported on w and never fail the
// command.
func compileDeck(ctx context.Context, cfg types.AppConfig, texPath, runID string, w io.Writer) {
	rt, err := container.Select(ctx, cfg.Compile.Runtime)
	if err != nil {
		fmt.Fprintf(w, "warning: compile skipped: %v\n", err)
		return
	}
	if err := rt.ImageExists(ctx, cfg.Compile.Image); err != nil {
		logger.Info("image not present locally, the runtime will pull it", "image", cfg.Compile.Image)
	}

	res, err := compile.New(cfg.Compile, rt).Compile(ctx, texPath, w)
	if err != nil {
		fmt.Fprintf(w, "warning: compile failed: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d pages, %s)\n", res.PDFPath, res.Pages, res.Runtime)

	if runID == "" {
		return
	}
	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.SetPages(ctx, runID, res.Pages); err != nil {
		fmt.Fprintf(w, "warning: recording pages: %v\n", err)
	}
}

func init() {
	makeCmd.Flags().String("main", "", "main .tex file inside the input directory")
	makeCmd.Flags().StringP("output", "o", "", "deck path (default: <input>_slides.tex)")
	makeCmd.Flags().String("report", "", "write a run report (.json, .yaml or .yml)")
	makeCmd.Flags().String("prompt", "", "presentation style prompt, e.g. \"15-20 slides for a seminar\"")
	makeCmd.Flags().Int("max-slides", 0, "slide budget including the title frame")
	makeCmd.Flags().String("provider", "", "bullet provider: none, nvidia, openai or gemini")
	makeCmd.Flags().String("model", "", "provider model identifier")
	makeCmd.Flags().String("figure-root", "", "directory figure paths resolve against (default: input directory)")
	makeCmd.Flags().String("title", "", "deck title (default: \\title from the source)")
	makeCmd.Flags().String("author", "", "deck author (default: \\author from the source)")
	makeCmd.Flags().String("institute", "", "deck institute")
	makeCmd.Flags().String("theme", "", "Beamer theme")
	makeCmd.Flags().String("rules", "", "YAML rule table replacing the built-in keywords")
	makeCmd.Flags().Bool("compile", false, "compile the deck to PDF")
	makeCmd.Flags().String("runtime", "", "compile runtime: local, docker, podman or auto")
	makeCmd.Flags().String("engine", "", "LaTeX engine binary")
	makeCmd.Flags().Bool("no-history", false, "do not record this run")

	bindFlags(makeCmd, map[string]string{
		"max-slides":  "deck.max_slides",
		"provider":    "ai.provider",
		"model":       "ai.model",
		"figure-root": "deck.figure_root",
		"title":       "deck.title",
		"author":      "deck.author",
		"institute":   "deck.institute",
		"theme":       "deck.theme",
		"rules":       "rules",
		"runtime":     "compile.runtime",
		"engine":      "compile.engine",
		"no-history":  "history.disabled",
	})

	rootCmd.AddCommand(makeCmd)
}

// bindFlags binds each flag to its viper key so flags override config and
// environment values.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
