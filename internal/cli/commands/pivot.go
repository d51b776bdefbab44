package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pivotsql/pkg/pivot"
)

// NewPivotCommand creates the pivot command.
func NewPivotCommand() *cobra.Command {
	var (
		source      string
		aggregate   string
		valueColumn string
		pivotColumn string
		destination string
		suffix      string
		sortValues  bool
	)

	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Create a pivot table from a source relation",
		Long: `Create a pivot table from a source relation.

Discovers the distinct values of the value column, introspects the
source's columns, and creates (or replaces) the destination as a
PIVOT of the source. Prints a mapping of each distinct value to the
output column that holds its aggregate.`,
		Example: `  # Pivot sales by category, one max(amount) column per category
  pivotsql pivot -s sales -a max --value-column category --pivot-column amount -d sales_by_category

  # Same, with a suffix appended to each generated column
  pivotsql pivot -s sales -a max --value-column category --pivot-column amount -d sales_by_category --suffix _flag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := openTarget(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			g := pivot.New(cmdCtx.DB, cmdCtx.Dialect, cmdCtx.Logger)
			mapping, err := g.Run(cmd.Context(), pivot.Request{
				Source:      source,
				Aggregate:   aggregate,
				ValueColumn: valueColumn,
				PivotColumn: pivotColumn,
				Destination: destination,
				Suffix:      suffix,
				SortValues:  sortValues,
			})
			if err != nil {
				return err
			}

			return renderMapping(cmd.OutOrStdout(), mapping, outputFormat(cmd, cmdCtx.Cfg))
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "source relation or parenthesized subquery (required)")
	cmd.Flags().StringVarP(&aggregate, "aggregate", "a", "sum", "aggregate function applied to the value column")
	cmd.Flags().StringVar(&valueColumn, "value-column", "", "column whose distinct values become columns (required)")
	cmd.Flags().StringVar(&pivotColumn, "pivot-column", "", "column to aggregate (required)")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "table to create or replace (required)")
	cmd.Flags().StringVar(&suffix, "suffix", "", "suffix appended to each generated column name")
	cmd.Flags().BoolVar(&sortValues, "sort", false, "sort discovered values before generating columns")
	cmd.Flags().StringP("format", "f", "", "output format (table, json, csv, md)")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("value-column")
	_ = cmd.MarkFlagRequired("pivot-column")
	_ = cmd.MarkFlagRequired("destination")

	return cmd
}
