package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/export"
	"inkwell/internal/scrivener"
	"inkwell/internal/stage"
	"inkwell/internal/workspace"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		formatFlag   string
		output       string
		settingsPath string
		zipOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "export <workspace>",
		Short: "Export a workspace to a Scrivener bundle or a compiled document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, ctx, args[0], formatFlag, output, settingsPath, zipOutput)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: scriv, docx, epub, pdf, markdown, text, html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Compile settings TOML file")
	cmd.Flags().BoolVar(&zipOutput, "zip", false, "Also package .scriv output into a zip archive")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(cmd *cobra.Command, cctx *commandContext, dir, formatName, output, settingsPath string, zipOutput bool) error {
	project, result, err := workspace.New(cctx.logger).Load(cmd.Context(), dir)
	if err != nil {
		return err
	}

	if strings.EqualFold(formatName, "scriv") {
		if !strings.EqualFold(filepath.Ext(output), ".scriv") {
			output += ".scriv"
		}
		exportResult, err := scrivener.NewExporter(cctx.logger).Export(cmd.Context(), project, output, cctx.progress(cmd))
		if err != nil {
			return err
		}
		result.Warnings = append(result.Warnings, exportResult.Warnings...)

		archivePath := ""
		if zipOutput {
			archivePath = archiveName(output)
			if err := scrivener.PackageBundle(output, archivePath); err != nil {
				return err
			}
		}

		writeBundleSummary(cmd.OutOrStdout(), project, output, archivePath, result)
		if !result.Clean() {
			return errCompletedWithWarnings
		}
		return nil
	}

	if zipOutput {
		return errors.New("--zip applies only to scriv output")
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	settings := export.DefaultSettings()
	if settingsPath != "" {
		settings, err = config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
	}

	data, err := export.NewRegistry().Export(cmd.Context(), format, project, settings)
	if err != nil {
		return err
	}
	if err := stage.ReplaceFile(output, data); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	writeExportSummary(cmd.OutOrStdout(), project, format, output, len(data), result)
	if !result.Clean() {
		return errCompletedWithWarnings
	}
	return nil
}

// archiveName derives the zip path from the bundle path: novel.scriv
// packages as novel.zip.
func archiveName(bundlePath string) string {
	return strings.TrimSuffix(bundlePath, filepath.Ext(bundlePath)) + ".zip"
}
