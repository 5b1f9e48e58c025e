package main

import (
	"fmt"
	"path/filepath"

	"github.com/Nomadcxx/neischeck/internal/tui"
	"github.com/spf13/cobra"
)

func newReviewCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "review dates|reading <file>",
		Short: "Browse a check result in the terminal",
		Long: `Run a check and open the result in a scrollable viewer.

Keys: tab/shift+tab switch section, ↑/↓ pgup/pgdn scroll, q quit.

Examples:
  neischeck review dates 창체_자율.xlsx
  neischeck review reading 독서활동.xlsx --threshold 0.8`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"dates", "reading"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, checker, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			path := args[1]
			title := fmt.Sprintf("neischeck %s: %s", args[0], filepath.Base(path))

			switch args[0] {
			case "dates":
				rep, err := checker.CheckDatesFile(path)
				if err != nil {
					return err
				}
				return tui.Run(title, tui.DateSections(rep))
			case "reading":
				rep, err := checker.CheckReadingFile(path, threshold)
				if err != nil {
					return err
				}
				return tui.Run(title, tui.DuplicateSections(rep))
			}
			return fmt.Errorf("unknown check %q (want dates or reading)", args[0])
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "similarity threshold for reading (default from config)")

	return cmd
}
