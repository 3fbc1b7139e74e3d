package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/compose"
	"github.com/kayz/promptstack/internal/fileset"
	"github.com/kayz/promptstack/internal/logger"
	"github.com/kayz/promptstack/internal/store"
	"github.com/kayz/promptstack/internal/tokens"
)

var (
	renderOutputPath string
	renderFilesDir   string
	renderRecord     bool
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Expand a named template and print the assembled prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		name := args[0]

		cfg, _, engine, err := loadEnvironment()
		if err != nil {
			return err
		}

		comp := compose.New(name, engine)
		if _, err := comp.InsertNamedTemplate(ctx, name); err != nil {
			return err
		}
		for _, w := range comp.Warnings() {
			warnPrinter(w)
		}

		if renderFilesDir != "" {
			snap, err := fileset.Load(renderFilesDir, fileset.Options{
				IgnoreFile:   cfg.FileSet.IgnoreFile,
				MaxFileBytes: cfg.FileSet.MaxFileBytes,
			})
			if err != nil {
				return fmt.Errorf("load file snapshot: %w", err)
			}
			for _, b := range comp.FileSetBlocks() {
				fileset.Populate(b, snap)
			}
		}

		out := comp.Render()

		if renderOutputPath == "" {
			fmt.Println(out)
		} else {
			if err := os.WriteFile(renderOutputPath, []byte(out), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		if renderRecord && cfg.History.Enabled {
			if err := recordRender(historyDBPath(cfg), name, out, len(comp.Warnings()), cfg.Tokens.Model); err != nil {
				logger.Warn("record render failed: %v", err)
			}
		}

		return nil
	},
}

func recordRender(dbPath, source, content string, warningCount int, model string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.RecordRender(source, content, tokens.Estimate(content, model), warningCount)
	return err
}

func init() {
	renderCmd.Flags().StringVar(&renderOutputPath, "output", "", "Write output to file (default: stdout)")
	renderCmd.Flags().StringVar(&renderFilesDir, "files", "", "Populate FILE_BLOCK placeholders with a snapshot of this directory")
	renderCmd.Flags().BoolVar(&renderRecord, "record", false, "Record the render in the history database")
	rootCmd.AddCommand(renderCmd)
}
