package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/ingest"
	"inkwell/internal/scrivener"
	"inkwell/internal/workspace"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var title string

	cmd := &cobra.Command{
		Use:   "import <bundle.scriv|archive.zip|file...>",
		Short: "Import a Scrivener bundle, a zip archive, or loose files into a workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, result, err := runImport(cmd, ctx, args, title)
			if err != nil {
				return err
			}
			if err := workspace.New(ctx.logger).Save(cmd.Context(), project, output); err != nil {
				return err
			}
			writeImportSummary(cmd.OutOrStdout(), output, result)
			if !result.Clean() {
				return errCompletedWithWarnings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Workspace directory to write")
	cmd.Flags().StringVar(&title, "title", "", "Project title for file and archive imports")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// runImport routes the arguments to the right importer: a single .scriv
// directory goes through the bundle pipeline, a single .zip is probed
// for a packaged bundle before falling back to the archive importer, and
// anything else is treated as loose files.
func runImport(cmd *cobra.Command, ctx *commandContext, args []string, title string) (*manuscript.Project, *domain.Result, error) {
	progress := ctx.progress(cmd)

	if len(args) == 1 {
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".scriv":
			return scrivener.NewImporter(ctx.logger).Import(cmd.Context(), args[0], progress)
		case ".zip":
			return importArchive(cmd.Context(), ctx, args[0], title, progress)
		}
	}

	for _, arg := range args {
		switch strings.ToLower(filepath.Ext(arg)) {
		case ".scriv", ".zip":
			return nil, nil, fmt.Errorf("%s must be imported on its own, not alongside other files", arg)
		}
	}

	registry := ingest.NewRegistry()
	importer := ingest.NewFileImporter(registry, ctx.logger)
	return importer.ImportFiles(cmd.Context(), importTitle(title, args[0]), args, progress)
}

func importArchive(ctx context.Context, cctx *commandContext, path, title string, progress domain.ProgressFunc) (*manuscript.Project, *domain.Result, error) {
	hasBundle, err := scrivener.ArchiveHasBundle(path)
	if err != nil {
		return nil, nil, err
	}

	if hasBundle {
		staging, err := os.MkdirTemp("", "inkwell-import-")
		if err != nil {
			return nil, nil, fmt.Errorf("create staging directory: %w", err)
		}
		defer os.RemoveAll(staging)

		root, err := scrivener.UnpackArchive(path, staging)
		if err != nil {
			return nil, nil, err
		}
		return scrivener.NewImporter(cctx.logger).Import(ctx, root, progress)
	}

	registry := ingest.NewRegistry()
	importer := ingest.NewZipImporter(registry, cctx.logger)
	return importer.ImportZip(ctx, importTitle(title, path), path, progress)
}

// importTitle falls back to the first input's base name when no --title
// was given.
func importTitle(flag, firstPath string) string {
	if flag != "" {
		return flag
	}
	base := filepath.Base(firstPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
