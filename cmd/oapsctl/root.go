package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/oaps-dev/oaps/internal/artifactstore"
	"github.com/oaps-dev/oaps/internal/checkpoint"
	"github.com/oaps-dev/oaps/internal/config"
	"github.com/oaps-dev/oaps/internal/ideastore"
	"github.com/oaps-dev/oaps/internal/logging"
	"github.com/oaps-dev/oaps/internal/query"
	"github.com/oaps-dev/oaps/internal/registry"
	"github.com/oaps-dev/oaps/internal/specstore"
	"github.com/oaps-dev/oaps/internal/statestore"
)

// jsonOutput, when set via --json, switches every subcommand's result
// printing from the human table/line format to json.MarshalIndent.
var jsonOutput bool

// Package-level store handles, wired up once in rootCmd's
// PersistentPreRunE and shared by every subcommand file, the same way
// the teacher's cmd/bd package wires a package-level store singleton.
var (
	oapsDir     string
	specs       *specstore.Store
	artifacts   *artifactstore.Store
	ideas       *ideastore.Store
	queryEngine *query.Engine
	projectCkpt *checkpoint.Repo // nil when --no-git or discovery fails
	state       *statestore.Store
)

var (
	colorAccent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	colorWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	colorError  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	colorMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var rootCmd = &cobra.Command{
	Use:   "oapsctl",
	Short: "Drive the oaps artifact/spec/idea stores from a terminal",
	Long: `oapsctl is a thin harness over the core store, query, checkpoint, and
state packages. It does not run hooks or evaluate rules; it exists so a
human or script can exercise the core's contract directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable JSON instead of tables")
	rootCmd.PersistentFlags().String("db", "", "path to the .oaps store directory (overrides discovery)")
	rootCmd.PersistentFlags().String("actor", "", "identity recorded on mutations (overrides config and git identity)")
	rootCmd.PersistentFlags().Bool("no-git", false, "disable checkpoint commits for this invocation")
}

// setup loads configuration, resolves the .oaps store directory, and
// constructs every store handle the subcommand files read from package
// globals. It runs once per invocation, before any subcommand's RunE.
func setup(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	jsonOutput, _ = cmd.Flags().GetBool("json")

	if dbFlag, _ := cmd.Flags().GetString("db"); cmd.Flags().Changed("db") {
		config.Set("db", dbFlag)
	}
	if cmd.Flags().Changed("no-git") {
		config.Set("no-git", true)
	}

	root, err := resolveOapsDir()
	if err != nil {
		return err
	}
	oapsDir = root

	logDir := filepath.Join(oapsDir, "log")
	if logger, err := logging.New(logDir, logging.LevelWarn); err == nil {
		config.SetLogger(logger)
	} else {
		config.SetLogger(logging.NewDiscard())
	}

	reg := registry.Default()
	artifacts = artifactstore.New(oapsDir, reg)
	specs = specstore.New(oapsDir)
	ideas = ideastore.New(oapsDir)
	queryEngine = query.New(specs, artifacts)

	statePath := filepath.Join(oapsDir, "state.db")
	state = statestore.NewProjectStore(statePath)

	if !config.GitDisabled() {
		if err := os.MkdirAll(oapsDir, 0o755); err == nil {
			if _, statErr := os.Stat(filepath.Join(oapsDir, ".git")); statErr != nil {
				_ = exec.Command("git", "-C", oapsDir, "init").Run()
			}
		}
		if repo, err := checkpoint.NewStoreCheckpoint(oapsDir); err == nil {
			projectCkpt = repo
		}
	}

	return nil
}

// resolveOapsDir honors an explicit --db/config override first, then
// walks up from the working directory looking for an existing .oaps
// directory, and finally falls back to ./.oaps so a fresh project has
// somewhere to write. Mirrors internal/config's own walk-up discovery.
func resolveOapsDir() (string, error) {
	if override := config.StorePath(); override != "" {
		return override, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, ".oaps")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(cwd, ".oaps"), nil
}

func actorFlag(cmd *cobra.Command) string {
	flagValue, _ := cmd.Flags().GetString("actor")
	return config.GetIdentity(flagValue)
}

// checkpointCommitOptions is the shared CommitOptions every subcommand
// passes to CommitPending. No trailers are recorded yet; kept as a
// single call site so that changes later (e.g. a session trailer)
// aren't needed in every subcommand file.
func checkpointCommitOptions() checkpoint.CommitOptions {
	return checkpoint.CommitOptions{}
}
