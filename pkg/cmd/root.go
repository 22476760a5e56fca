// Package cmd wires the CLI surface: flag parsing and the Complete/Validate/Run
// lifecycle that assembles the dispatcher and runs it until stdin EOF.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/reviewbridge/review-bridge-mcp-server/pkg/bridge"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/config"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/mcp"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/mcplog"
	"github.com/reviewbridge/review-bridge-mcp-server/pkg/tools"
)

const (
	flagConfig     = "config"
	flagLogLevel   = "log-level"
	flagTimeout    = "timeout"
	flagHelperName = "helper-name"
)

// IOStreams mirrors the teacher's stream-injection pattern so tests can
// swap stdin/stdout/stderr without touching the real process streams.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Options holds flag values plus the derived configuration for one run.
type Options struct {
	ConfigPath string
	LogLevel   int
	Timeout    time.Duration
	HelperName string

	IOStreams
}

// NewOptions builds Options defaulted for real process streams.
func NewOptions(streams IOStreams) *Options {
	return &Options{IOStreams: streams, Timeout: 30 * time.Second}
}

// NewRootCommand builds the root command, which has no subcommands:
// running the binary starts the bridge.
func NewRootCommand(streams IOStreams) *cobra.Command {
	o := NewOptions(streams)

	cmd := &cobra.Command{
		Use:   "review-bridge-mcp-server",
		Short: "MCP bridge between an AI coding assistant and a human reviewer",
		RunE: func(c *cobra.Command, args []string) error {
			if err := o.Complete(); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(c.Context())
		},
	}

	cmd.Flags().StringVar(&o.ConfigPath, flagConfig, "", "Path to config.json (defaults to the platform user configuration directory)")
	cmd.Flags().IntVar(&o.LogLevel, flagLogLevel, mcplog.LevelFromEnv(), "Log verbosity (higher is more verbose)")
	cmd.Flags().DurationVar(&o.Timeout, flagTimeout, o.Timeout, "Timeout for one interactive prompt call")
	cmd.Flags().StringVar(&o.HelperName, flagHelperName, bridge.DefaultHelperName, "Override the UI helper binary name")

	return cmd
}

// Complete resolves defaults that depend on flags or the environment.
func (o *Options) Complete() error {
	if o.ConfigPath == "" {
		path, err := config.Path()
		if err != nil {
			return fmt.Errorf("failed to resolve default config path: %w", err)
		}
		o.ConfigPath = path
	}
	return nil
}

// Validate checks option values that Complete cannot fix up.
func (o *Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("--%s must be positive", flagTimeout)
	}
	return nil
}

// Run establishes the log sink first (before any other subsystem can log),
// sweeps orphaned descriptor files, wires the tool registry, and runs the
// dispatcher until stdin reaches EOF.
func (o *Options) Run(ctx context.Context) error {
	log, closeLog, err := mcplog.New("", o.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closeLog()

	fs := afero.NewOsFs()
	tempMgr := bridge.NewTempManager(fs, "")
	tempMgr.Sweep(log)

	stopWatch := config.Watch(o.ConfigPath, log)
	defer stopWatch()

	invoker := bridge.NewInvoker(o.HelperName, o.Timeout)

	registry := []mcp.ToolDef{
		tools.NewPromptTool(fs, "", invoker, log),
		tools.NewMemoTool(fs, log),
	}

	server := mcp.NewServer(registry, o.ConfigPath, log)
	dispatcher := mcp.NewDispatcher(server, o.Out, log, 16)

	in := o.In
	if in == nil {
		in = os.Stdin
	}

	log.Info("review-bridge-mcp-server starting")
	if err := dispatcher.Run(ctx, in); err != nil {
		return err
	}
	log.Info("review-bridge-mcp-server shutting down cleanly")
	return nil
}
