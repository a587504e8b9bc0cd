package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/countup/internal/catalog"
	"github.com/abhisek/countup/internal/ui/theme"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "Browse the mode catalog",
}

var modesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes, optionally only those designed for an age",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		c := catalog.Default()

		modes := c.TopologicalOrder()
		if age != 0 {
			modes = c.ForAge(age)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-24s  %-14s  %-5s  %s\n", "ID", "Name", "Domain", "Ages", "Levels")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, m := range modes {
			fmt.Fprintf(out, "%-20s  %-24s  %-14s  %d-%d    %d\n",
				m.ID, m.Emoji+" "+m.Name, catalog.DomainDisplayName(m.Domain),
				m.AgeRange.Min, m.AgeRange.Max, m.TotalLevels)
		}
		return nil
	},
}

var modesShowCmd = &cobra.Command{
	Use:   "show <mode-id>",
	Short: "Show a mode and what unlocks it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := catalog.Default()
		m, err := c.Mode(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(m.Emoji+" "+m.Name))
		fmt.Fprintln(out, theme.Subtitle.Render(m.Description))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Domain:    %s\n", catalog.DomainDisplayName(m.Domain))
		fmt.Fprintf(out, "Ages:      %d-%d\n", m.AgeRange.Min, m.AgeRange.Max)
		fmt.Fprintf(out, "Levels:    %d\n", m.TotalLevels)

		if len(m.UnlockRequirements) == 0 {
			fmt.Fprintln(out, "Unlock:    always open")
		} else {
			fmt.Fprintln(out, "Unlock:")
			for _, req := range m.UnlockRequirements {
				fmt.Fprintf(out, "  - %s\n", describeRequirement(c, req))
			}
		}

		if deps := c.Dependents(m.ID); len(deps) > 0 {
			names := make([]string, 0, len(deps))
			for _, d := range deps {
				names = append(names, d.ID)
			}
			fmt.Fprintf(out, "Opens:     %s\n", strings.Join(names, ", "))
		}
		return nil
	},
}

func describeRequirement(c *catalog.Catalog, req catalog.Requirement) string {
	switch r := req.(type) {
	case catalog.LevelComplete:
		name := r.ModeID
		if m, err := c.Mode(r.ModeID); err == nil {
			name = m.Name
		}
		return fmt.Sprintf("level %d of %s", r.Level, name)
	case catalog.AgeGate:
		return fmt.Sprintf("age %d or older", r.MinAge)
	case catalog.MultiMode:
		groups := make([]string, 0, len(r.Groups))
		for _, group := range r.Groups {
			parts := make([]string, 0, len(group))
			for _, sub := range group {
				parts = append(parts, describeRequirement(c, sub))
			}
			groups = append(groups, strings.Join(parts, " and "))
		}
		return "(" + strings.Join(groups, ") or (") + ")"
	default:
		return fmt.Sprintf("%v", req)
	}
}

func init() {
	modesListCmd.Flags().Int("age", 0, "Only list modes designed for this age")
	modesCmd.AddCommand(modesListCmd, modesShowCmd)
}
