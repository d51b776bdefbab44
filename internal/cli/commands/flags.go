package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pivotsql/pkg/codemap"
)

// NewFlagsCommand creates the flags command.
func NewFlagsCommand() *cobra.Command {
	var (
		codelist       string
		descrColumn    string
		source         string
		codeColumn     string
		codeTypeColumn string
		destination    string
		extra          string
	)

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Flag source rows that match an ICD codelist",
		Long: `Flag source rows that match an ICD codelist.

Reads a codelist CSV (code, code_type, description), builds regex and
range matchers from it, then creates the destination as a copy of the
source with map_code, map_code_type and map_descr columns populated
for every matching row.`,
		Example: `  pivotsql flags --codelist diagnoses.csv -s claims --code-column dx_code --code-type-column dx_type -d claims_flagged

  # Restrict matching with an extra predicate
  pivotsql flags --codelist diagnoses.csv -s claims --code-column dx_code --code-type-column dx_type -d claims_flagged --where "AND svc_year >= 2024"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := codemap.Load(codelist, descrColumn)
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := openTarget(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			f := codemap.New(cmdCtx.DB, cmdCtx.Dialect, cmdCtx.Logger)
			if err := f.Run(cmd.Context(), list, codemap.Request{
				Source:         source,
				CodeColumn:     codeColumn,
				CodeTypeColumn: codeTypeColumn,
				Destination:    destination,
				Extra:          extra,
			}); err != nil {
				return err
			}

			groups := list.RegexGroups()
			ranges := list.Ranges()
			cmdCtx.Logger.Info("flagged source into destination",
				"destination", destination,
				"regex_groups", len(groups),
				"ranges", len(ranges))

			seen := make(map[string]bool)
			var descrs []string
			for _, g := range groups {
				if !seen[g.Descr] {
					seen[g.Descr] = true
					descrs = append(descrs, g.Descr)
				}
			}
			for _, r := range ranges {
				if !seen[r.Descr] {
					seen[r.Descr] = true
					descrs = append(descrs, r.Descr)
				}
			}
			return renderNames(cmd.OutOrStdout(), "flag", descrs, outputFormat(cmd, cmdCtx.Cfg))
		},
	}

	cmd.Flags().StringVar(&codelist, "codelist", "", "path to the codelist CSV (required)")
	cmd.Flags().StringVar(&descrColumn, "descr-column", "descr", "codelist column holding the flag description")
	cmd.Flags().StringVarP(&source, "source", "s", "", "source relation (required)")
	cmd.Flags().StringVar(&codeColumn, "code-column", "", "source column holding the code (required)")
	cmd.Flags().StringVar(&codeTypeColumn, "code-type-column", "", "source column holding the code type (required)")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "table to create or replace (required)")
	cmd.Flags().StringVar(&extra, "where", "", `extra predicate appended to each match, must start with "AND"`)
	cmd.Flags().StringP("format", "f", "", "output format (table, json, csv, md)")

	_ = cmd.MarkFlagRequired("codelist")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("code-column")
	_ = cmd.MarkFlagRequired("code-type-column")
	_ = cmd.MarkFlagRequired("destination")

	return cmd
}
