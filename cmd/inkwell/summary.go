package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/export"
)

type summaryRow struct {
	label string
	value string
}

// writeSummary renders label/value pairs as a rounded table on a
// terminal and as plain key: value lines everywhere else.
func writeSummary(w io.Writer, rows []summaryRow) {
	if isTerminal(w) {
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			tableRows = append(tableRows, []string{row.label, row.value})
		}
		fmt.Fprintln(w, renderTable(nil, tableRows, []columnAlignment{alignLeft, alignRight}))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s: %s\n", strings.ToLower(row.label), row.value)
	}
}

// writeWarnings lists every collected warning, one line each, after the
// summary so the counts above are never the only trace of a problem.
func writeWarnings(w io.Writer, warnings []domain.Warning) {
	for _, warning := range warnings {
		if warning.ItemTitle != "" {
			fmt.Fprintf(w, "[%s] %s: %s\n", warning.Severity, warning.ItemTitle, warning.Message)
		} else {
			fmt.Fprintf(w, "[%s] %s\n", warning.Severity, warning.Message)
		}
	}
}

func severityCounts(warnings []domain.Warning) (infos, warns, errs int) {
	for _, w := range warnings {
		switch w.Severity {
		case domain.SeverityError:
			errs++
		case domain.SeverityWarning:
			warns++
		default:
			infos++
		}
	}
	return infos, warns, errs
}

func writeImportSummary(w io.Writer, dest string, result *domain.Result) {
	infos, warns, errs := severityCounts(result.Warnings)
	writeSummary(w, []summaryRow{
		{"Documents", strconv.Itoa(result.DocumentsImported)},
		{"Folders", strconv.Itoa(result.FoldersImported)},
		{"Skipped", strconv.Itoa(result.ItemsSkipped)},
		{"Info", strconv.Itoa(infos)},
		{"Warnings", strconv.Itoa(warns)},
		{"Errors", strconv.Itoa(errs)},
		{"Workspace", dest},
	})
	writeWarnings(w, result.Warnings)
}

func writeBundleSummary(w io.Writer, project *manuscript.Project, bundlePath, archivePath string, result *domain.Result) {
	rows := []summaryRow{
		{"Format", "scriv"},
		{"Documents", strconv.Itoa(countDocuments(project))},
		{"Words", strconv.Itoa(project.TotalWordCount())},
		{"Bundle", bundlePath},
	}
	if archivePath != "" {
		rows = append(rows, summaryRow{"Archive", archivePath})
	}
	writeSummary(w, rows)
	writeWarnings(w, result.Warnings)
}

func writeExportSummary(w io.Writer, project *manuscript.Project, format export.Format, output string, size int, result *domain.Result) {
	writeSummary(w, []summaryRow{
		{"Format", string(format)},
		{"Documents", strconv.Itoa(countDocuments(project))},
		{"Words", strconv.Itoa(project.TotalWordCount())},
		{"Output", output},
		{"Size", sizeString(size)},
	})
	writeWarnings(w, result.Warnings)
}

func countDocuments(p *manuscript.Project) int {
	n := 0
	for _, root := range p.Roots() {
		n += root.CountDocuments()
	}
	return n
}

func sizeString(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
