// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/texslides/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past generation runs (list, show, export, delete)",
	Long: `History reads the SQLite run database written by make. Every run
records its source, output, provider, compiled page count and report.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	runs, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-6s  %-5s  %-8s  %s\n",
		"ID", "Created", "Slides", "Pages", "Provider", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-6d  %-5d  %-8s  %s\n",
			r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Report.SlidesGenerated, r.Pages, r.Provider, r.Source)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run's report; the ID may be a unique prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	sections, err := store.Sections(ctx, run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("Created:  %s\n", run.CreatedAt.Local().Format(time.RFC1123))
	fmt.Printf("Source:   %s\n", run.Source)
	fmt.Printf("Output:   %s\n", run.Output)
	fmt.Printf("Provider: %s\n", run.Provider)
	fmt.Printf("Slides:   %d of %d\n", run.Report.SlidesGenerated, run.Report.MaxSlides)
	if run.Pages > 0 {
		fmt.Printf("Pages:    %d\n", run.Pages)
	}
	if run.Report.DegradedCount > 0 {
		fmt.Printf("Degraded: %d section(s)\n", run.Report.DegradedCount)
	}
	if len(sections) > 0 {
		fmt.Println("\nSections:")
		for _, s := range sections {
			fmt.Printf("  - %s\n", s)
		}
	}
	if log, _ := cmd.Flags().GetBool("log"); log {
		fmt.Println("\nPipeline log:")
		for _, line := range run.Report.PipelineLog {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export runs as YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return store.Export(context.Background(), os.Stdout, format, opts)
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		run, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, run.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", run.ID)
		return nil
	},
}

func openHistory() (*history.Store, error) {
	return history.Open(viper.GetString("history.dir"))
}

func listOptsFromFlags(cmd *cobra.Command) (history.ListOptions, error) {
	var opts history.ListOptions
	opts.Source, _ = cmd.Flags().GetString("source")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return opts, fmt.Errorf("parsing --since (want YYYY-MM-DD): %w", err)
		}
		opts.Since = t
	}
	return opts, nil
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("source", "", "only runs whose source path contains this text")
		c.Flags().String("since", "", "only runs created on or after this date (YYYY-MM-DD)")
	}
	historyListCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyListCmd.Flags().Bool("json", false, "output as JSON")
	historyShowCmd.Flags().Bool("log", false, "print the pipeline log")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
