package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/domain/models/scrivx"
	"inkwell/internal/scrivener"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <bundle.scriv>",
		Short: "Print the binder tree of a bundle without converting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			foreign, err := scrivener.InspectBundle(args[0])
			if err != nil {
				return err
			}
			writeInspect(cmd.OutOrStdout(), foreign)
			return nil
		},
	}
}

func writeInspect(w io.Writer, p *scrivx.Project) {
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s (%s, %d items)\n\n", title, p.Version, p.ItemCount())

	for _, item := range p.Items {
		writeInspectItem(w, item, 0)
	}

	if len(p.Labels) > 0 {
		fmt.Fprintf(w, "\nLabels: %s\n", strings.Join(labelNames(p.Labels), ", "))
	}
	if len(p.Statuses) > 0 {
		fmt.Fprintf(w, "Statuses: %s\n", strings.Join(statusNames(p.Statuses), ", "))
	}
	if len(p.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(keywordTitles(p.Keywords), ", "))
	}
	if p.Targets.DraftTarget > 0 || p.Targets.SessionTarget > 0 {
		fmt.Fprintf(w, "Targets: draft %d words, session %d words\n", p.Targets.DraftTarget, p.Targets.SessionTarget)
	}
}

func writeInspectItem(w io.Writer, it *scrivx.BinderItem, depth int) {
	title := it.Title
	if title == "" {
		title = "(untitled)"
	}
	note := ""
	if it.Kind == scrivx.ItemKindText && !it.IncludeInCompile {
		note = " (not compiled)"
	}
	fmt.Fprintf(w, "%s- [%s] %s%s\n", strings.Repeat("  ", depth), it.Kind, title, note)
	for _, child := range it.Children {
		writeInspectItem(w, child, depth+1)
	}
}

func labelNames(labels []scrivx.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

func statusNames(statuses []scrivx.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	return names
}

func keywordTitles(keywords []scrivx.Keyword) []string {
	titles := make([]string, 0, len(keywords))
	for _, k := range keywords {
		titles = append(titles, k.Title)
	}
	return titles
}
