package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell/internal/export"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := export.NewRegistry()

			rows := [][]string{{"scriv", ".scriv", "Scrivener bundle"}}
			for _, format := range registry.Formats() {
				exporter := registry.Get(format)
				rows = append(rows, []string{string(format), exporter.FileExtension(), exporter.Name()})
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Format", "Extension", "Name"}, rows, nil))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s\t%s\t%s\n", row[0], row[1], row[2])
			}
			return nil
		},
	}
}
