package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and locate GTK themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled and user themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		themes, err := theme.ListAvailableThemes()
		if err != nil {
			return fmt.Errorf("failed to list themes: %w", err)
		}

		current := ""
		if cfg, err := loadConfig(); err == nil {
			current = cfg.Theme.Name
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range themes {
			source := t.Path
			if t.IsBundled {
				source = "bundled"
			}
			mark := " "
			if t.Name == current {
				mark = "*"
			}
			note := ""
			if len(t.Missing) > 0 {
				note = fmt.Sprintf("missing %d classes: %s", len(t.Missing), strings.Join(t.Missing, ", "))
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\n", mark, t.Name, source, note)
		}
		return w.Flush()
	},
}

var themeDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Create and print the user themes directory",
	Long: `Create the user themes directory if needed and print its path. CSS files
placed there can be selected by name with [theme] name in the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theme.CreateThemesDir(); err != nil {
			return fmt.Errorf("failed to create themes directory: %w", err)
		}
		dir, err := theme.ThemesDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd, themeDirCmd)
}
