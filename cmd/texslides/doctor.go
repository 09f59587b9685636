// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texslides/internal/container"
	"github.com/pdiddy/texslides/internal/prioritize"
	"github.com/pdiddy/texslides/internal/secrets"
	"github.com/pdiddy/texslides/pkg/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the compile toolchain, provider key and rule table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper(), loadedSecrets)
		if failed := doctor(cmd.Context(), cfg, os.Stdout); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

// doctor prints one line per check and returns the number that failed.
// A missing LaTeX engine only fails when no container runtime can stand in.
func doctor(ctx context.Context, cfg types.AppConfig, w io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	failed := 0
	check := func(ok bool, format string, args ...any) {
		mark := "ok  "
		if !ok {
			mark = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, fmt.Sprintf(format, args...))
	}

	_, engineErr := exec.LookPath(cfg.Compile.Engine)
	rt, rtErr := container.DetectRuntime(ctx)
	switch {
	case rtErr == nil:
		fmt.Fprintf(w, "[ok  ] container runtime: %s\n", rt.Name())
		imgErr := rt.ImageExists(ctx, cfg.Compile.Image)
		if imgErr != nil {
			fmt.Fprintf(w, "[warn] image %s not pulled yet\n", cfg.Compile.Image)
		} else {
			fmt.Fprintf(w, "[ok  ] image %s\n", cfg.Compile.Image)
		}
		if engineErr != nil {
			fmt.Fprintf(w, "[warn] %s not on PATH; decks compile in %s\n", cfg.Compile.Engine, rt.Name())
		} else {
			fmt.Fprintf(w, "[ok  ] %s on PATH\n", cfg.Compile.Engine)
		}
	default:
		check(engineErr == nil, "%s on PATH (no container runtime found)", cfg.Compile.Engine)
	}

	switch key := secrets.KeyName(cfg.AI.Provider); {
	case key == "":
		fmt.Fprintf(w, "[ok  ] provider: none (rule-based bullets)\n")
	default:
		check(cfg.AI.APIKey != "", "provider %s: API key (%s or TEXSLIDES_AI_API_KEY)", cfg.AI.Provider, key)
	}

	if cfg.RulesFile != "" {
		_, err := prioritize.LoadRules(cfg.RulesFile)
		check(err == nil, "rule table %s%s", cfg.RulesFile, errSuffix(err))
	}
	return failed
}

func errSuffix(err error) string {
	if err == nil {
		return ""
	}
	return ": " + err.Error()
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
