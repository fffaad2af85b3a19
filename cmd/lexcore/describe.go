package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the rule set's variable and parameter descriptors",
	Long: `Describe prints the rule set metadata consumed by discovery tooling:
entities, variable descriptors (value type, definition period, formula
history) and the parameter tree layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		system, err := buildSystem(cfg)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(system.Describe())
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
