package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/blockengine"
	"github.com/kayz/promptstack/internal/config"
	"github.com/kayz/promptstack/internal/library"
	"github.com/kayz/promptstack/internal/logger"
)

var (
	logLevel    string
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:   "promptstack",
	Short: "Assemble LLM prompts from reusable template files",
	Long: `promptstack expands placeholder-laden template files into structured
prompt compositions.

Templates may embed {{TEXT_BLOCK}}, {{FILE_BLOCK}}, {{TEMPLATE_BLOCK=...}}
and {{PROMPT_RESPONSE=...}} placeholders, or reference other templates by
name with {{template-name}}. References resolve from the project template
directory first, then the global one.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Parse and set log level
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".",
		"Project root directory")
}

// loadEnvironment builds the config, library and engine for the selected
// project root.
func loadEnvironment() (*config.Config, *library.Library, *blockengine.Engine, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	lib := library.New(projectRoot, cfg)
	engine := blockengine.NewEngine(lib, lib)
	engine.MaxDepth = cfg.Engine.MaxDepth
	return cfg, lib, engine, nil
}

// historyDBPath resolves the configured database path against the project
// root when it is relative.
func historyDBPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.History.DBPath) {
		return cfg.History.DBPath
	}
	return filepath.Join(projectRoot, cfg.History.DBPath)
}

// warnPrinter logs engine warnings as they surface.
func warnPrinter(w blockengine.Warning) {
	logger.Warn("%s: %s", w.Kind, w.Message)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
