package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive toast playground",
	Long: `Launch a terminal playground that renders toasts and the confirmation
dialog with the same engine the daemon uses.

Key bindings:
  1-7         Show a success/error/info/warning/dark/light/custom toast
  c           Open a confirmation dialog
  j/k, ↑/↓    Select a toast
  h           Toggle hover on the selected toast (pauses its countdown)
  x           Close the selected toast
  X           Dismiss every toast
  esc         Dismiss the newest toast, or cancel the dialog
  tab         Move focus inside the dialog
  enter       Activate the focused dialog button
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.RunOptions{
		Config: cfg,
		Logger: logger,
	})
}
