package commands

import (
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns <relation>",
		Short: "List the columns of a relation",
		Long: `List the columns of a table, view, or parenthesized subquery.

Uses a zero-row projection against the target, so it works for any
relation the target can select from, including subqueries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := openTarget(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			cols, err := cmdCtx.DB.ListColumns(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderNames(cmd.OutOrStdout(), "column", cols, outputFormat(cmd, cmdCtx.Cfg))
		},
	}

	cmd.Flags().StringP("format", "f", "", "output format (table, json, csv, md)")

	return cmd
}
