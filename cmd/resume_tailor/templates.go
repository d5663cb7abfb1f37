package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/templates"
)

func newTemplatesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the resume templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := templates.All()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tATS\tDESCRIPTION")
			for _, t := range list {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.ID, t.Name, t.ATSScore, t.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full template definitions as JSON")
	return cmd
}
