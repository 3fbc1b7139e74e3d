package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/compose"
)

var exportOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export <template>",
	Short: "Materialize a template and export the composition as XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		name := args[0]

		_, _, engine, err := loadEnvironment()
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

		out := os.Stdout
		if exportOutputPath != "" {
			f, err := os.Create(exportOutputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		return comp.ExportXML(out)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <composition.xml>",
	Short: "Import an exported composition and print its rendered prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, engine, err := loadEnvironment()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		comp, err := compose.ImportXML(f, engine)
		if err != nil {
			return err
		}
		fmt.Println(comp.Render())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutputPath, "out", "", "Write XML to file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
