// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/texslides/internal/prioritize"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active section rule table as YAML",
	Long: `Rules prints the keyword tiers and per-tier limits used to plan
sections. Redirect the output to a file, edit it, and pass it back with
--rules or the rules config key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := prioritize.DefaultRules()
		if path := viper.GetString("rules"); path != "" {
			var err error
			if rules, err = prioritize.LoadRules(path); err != nil {
				return err
			}
		}
		data, err := yaml.Marshal(rules)
		if err != nil {
			return fmt.Errorf("marshaling rules: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
