package main

import (
	"fmt"

	"github.com/Nomadcxx/neischeck/internal/report"
	"github.com/Nomadcxx/neischeck/internal/ui"
	"github.com/spf13/cobra"
)

func newDatesCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "dates <file>",
		Short: "Check date notation in 자율활동 records",
		Long: `Check every parenthesized date in the 자율활동 rows of an activity export.

Accepted notations:
  (2024.03.04.)                                single date
  (2024.03.04., 2024.05.01.)                   list of dates
  (2024.03.04.-2024.03.08./5회)                period with a count

Examples:
  neischeck dates 창체_자율.xlsx
  neischeck dates export.csv --format json
  neischeck dates export.xlsx --strict        # exit 1 when any date is wrong`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, checker, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			rep, err := checker.CheckDatesFile(args[0])
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout(), rep, format()); err != nil {
				return err
			}

			if strict && rep.Summary.Invalid > 0 {
				return fmt.Errorf("%d of %d dates need fixing", rep.Summary.Invalid, rep.Summary.Tokens)
			}
			if format() == report.FormatText && rep.Summary.Invalid == 0 && rep.Summary.Tokens > 0 {
				ui.SuccessMsg("모든 날짜 형식이 올바릅니다.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any date is invalid")

	return cmd
}

func newReadingCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "reading <file>",
		Short: "Find duplicate titles in 독서활동 상황",
		Long: `Find titles each student recorded more than once, and titles similar
enough to be the same book under a different spelling.

Examples:
  neischeck reading 독서활동.xlsx
  neischeck reading 독서활동.xlsx --threshold 0.8
  neischeck reading 독서활동.csv --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, checker, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			rep, err := checker.CheckReadingFile(args[0], threshold)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), rep, format())
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "similarity threshold in (0, 1] (default from config, 0.7)")

	return cmd
}
