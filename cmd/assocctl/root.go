package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/assockit/internal/config"
	"github.com/joshuapare/assockit/internal/logging"
)

var (
	// Global flags
	scopeName  string
	regFile    string
	configPath string
	logLevel   string
	quiet      bool
	jsonOut    bool
	noColor    bool

	cfg    = &config.Config{}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "assocctl",
	Short: "Register applications and file type associations in the Windows registry",
	Long: `assocctl manages ProgID records and file extension bindings under the
registry's classes root. It can target the live registry (per-user, per-machine
or the merged view) or an offline .reg snapshot given with --reg-file.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scopeName, "scope", "user", "Classes root: user, machine or merged")
	rootCmd.PersistentFlags().StringVar(&regFile, "reg-file", "", "Operate on a .reg snapshot instead of the live registry")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/assocctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// setup loads the config file, lets it fill flags the user did not set and
// installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		dir, err := config.DefaultDir()
		if err == nil {
			configPath = filepath.Join(dir, config.FileName)
		}
	}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if !flags.Changed("scope") && cfg.Scope != "" {
		scopeName = cfg.Scope
	}
	if !flags.Changed("log-level") && cfg.LogLevel != "" {
		logLevel = cfg.LogLevel
	}
	if !flags.Changed("reg-file") && cfg.RegFile != "" {
		regFile = cfg.RegFile
	}
	if !flags.Changed("json") && cfg.JSON {
		jsonOut = true
	}
	if quiet {
		logLevel = "error"
	}
	if noColor {
		disableColor()
	}

	logger = logging.New(logLevel, jsonOut, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "config", configPath, "scope", scopeName, "reg_file", regFile)
	return nil
}

// saveConfig persists cfg when a config path is known.
func saveConfig() {
	if configPath == "" {
		return
	}
	if err := config.Save(configPath, cfg); err != nil {
		logger.Warn("could not save config", "path", configPath, "error", err)
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, errorStyle.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
