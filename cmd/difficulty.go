package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/performance"
	"github.com/abhisek/countup/internal/progression"
)

var difficultyCmd = &cobra.Command{
	Use:   "difficulty <mode-id>",
	Short: "Print the difficulty config for a mode level as JSON",
	Long: "Print the difficulty config for a mode level. Passing any of the performance flags " +
		"applies the adaptive adjustment on top of the initial parameters.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		age, _ := cmd.Flags().GetInt("age")

		var metrics *performance.Metrics
		if cmd.Flags().Changed("accuracy") || cmd.Flags().Changed("avg-time") ||
			cmd.Flags().Changed("streak") || cmd.Flags().Changed("problems") {
			m := performance.NeutralMetrics()
			if v, _ := cmd.Flags().GetFloat64("accuracy"); cmd.Flags().Changed("accuracy") {
				m.RecentAccuracy = v
			}
			if v, _ := cmd.Flags().GetFloat64("avg-time"); cmd.Flags().Changed("avg-time") {
				m.AverageTimePerProblem = v
			}
			if v, _ := cmd.Flags().GetInt("streak"); cmd.Flags().Changed("streak") {
				m.StreakLength = v
			}
			if v, _ := cmd.Flags().GetInt("problems"); cmd.Flags().Changed("problems") {
				m.TotalProblems = v
			}
			metrics = &m
		}

		// The config is pure; no database is needed.
		e := progression.New(catalog.Default(), nil)
		cfg, err := e.DifficultyConfig(args[0], level, catalog.ClampAge(age), metrics)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

func init() {
	difficultyCmd.Flags().Int("level", 1, "Mode level")
	difficultyCmd.Flags().Int("age", catalog.MinAge, "Child age")
	difficultyCmd.Flags().Float64("accuracy", 0, "Recent accuracy (0-100)")
	difficultyCmd.Flags().Float64("avg-time", 0, "Average seconds per problem")
	difficultyCmd.Flags().Int("streak", 0, "Current correct streak")
	difficultyCmd.Flags().Int("problems", 0, "Problems answered so far")
}
