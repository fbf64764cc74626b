package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m4ce/sensu-plugins-disk-usage/pkg/check"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/config"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/debug"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/inventory"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/output"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/overrides"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/runner"
	"github.com/m4ce/sensu-plugins-disk-usage/pkg/sink"
)

var (
	version   = "dev"
	gitCommit = ""
	buildTime = ""
)

// SetVersion records build metadata shown by --version.
func SetVersion(v, commit, built string) {
	version, gitCommit, buildTime = v, commit, built
}

// newProvider is swapped out in tests.
var newProvider = func() inventory.Provider {
	return inventory.NewSystem()
}

type exitCoder interface {
	ExitCode() int
}

// ExitError allows commands to exit with a specific exit code.
// If Err is nil, no error message is printed.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) ExitCode() int { return e.Code }
func (e ExitError) Unwrap() error { return e.Err }
func (e ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	config.LoadEnv(&cfg)

	cmd := &cobra.Command{
		Use:   "check-disk-usage",
		Short: "Check space and inode usage of mounted filesystems",
		Long: `check-disk-usage inspects every mounted filesystem that passes the
configured filters, compares space and inode usage against warning and
critical thresholds, and sends one event per filesystem and metric to the
local Sensu client socket.

Per-mount thresholds can be set in an override file:

  {"mountpoints": {"/data": {"warn_space": 90, "crit_space": 97}}}`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), &cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&cfg.Filters.FSTypes, "fstype", nil, "Comma separated list of file system type(s) (default: all)")
	f.StringSliceVar(&cfg.Filters.IgnoreFSTypes, "ignore-fstype", nil, "Comma separated list of file system type(s) to ignore")
	f.StringSliceVar(&cfg.Filters.Mounts, "mount", nil, "Comma separated list of mount point(s) (default: all)")
	f.StringSliceVar(&cfg.Filters.MountRegex, "mount-regex", nil, "Comma separated list of mount point(s) (regex)")
	f.StringSliceVar(&cfg.Filters.IgnoreMounts, "ignore-mount", nil, "Comma separated list of mount point(s) to ignore")
	f.StringSliceVar(&cfg.Filters.IgnoreMountRegex, "ignore-mount-regex", nil, "Comma separated list of mount point(s) to ignore (regex)")

	f.StringVarP(&cfg.OverridesPath, "config", "c", cfg.OverridesPath, "Optional per-mount threshold file (JSON or YAML)")
	f.IntVar(&cfg.Defaults.Space.Warn, "warn-space", cfg.Defaults.Space.Warn, "Warn if PERCENT or more of disk space used")
	f.IntVar(&cfg.Defaults.Space.Crit, "crit-space", cfg.Defaults.Space.Crit, "Critical if PERCENT or more of disk space used")
	f.IntVar(&cfg.Defaults.Inodes.Warn, "warn-inodes", cfg.Defaults.Inodes.Warn, "Warn if PERCENT or more of inodes used")
	f.IntVar(&cfg.Defaults.Inodes.Crit, "crit-inodes", cfg.Defaults.Inodes.Crit, "Critical if PERCENT or more of inodes used")
	f.StringSliceVar(&cfg.Handlers, "handlers", nil, "Comma separated list of handlers")
	f.BoolVarP(&cfg.WarnOnly, "warn", "w", false, "Warn instead of throwing a critical failure")

	f.StringVar(&cfg.SinkAddr, "sink", cfg.SinkAddr, "Address of the Sensu client socket")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Print events to stdout instead of sending them")
	f.StringVarP((*string)(&cfg.Format), "format", "f", string(cfg.Format), "Output format: sensu, table or json")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	f.BoolVar(&cfg.DebugTiming, "debug-timing", false, "Print inventory call durations to stderr")
	f.BoolVar(&cfg.DumpRaw, "dump-raw", false, "Print raw counters of the selected mounts to stderr")

	return cmd
}

// Execute runs the check and exits with its status code.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		var ec exitCoder
		if errors.As(err, &ec) {
			if msg := strings.TrimSpace(err.Error()); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stdout, sink.Output(check.StatusUnknown, err.Error()))
		os.Exit(check.StatusUnknown.ExitCode())
	}
}

func versionString() string {
	v := version
	if gitCommit != "" {
		v += " (" + gitCommit + ")"
	}
	if buildTime != "" {
		v += " built " + buildTime
	}
	return v
}

// unknown prints err as the check result and returns the UNKNOWN exit error.
func unknown(stdout io.Writer, err error) error {
	fmt.Fprintln(stdout, sink.Output(check.StatusUnknown, err.Error()))
	return ExitError{Code: check.StatusUnknown.ExitCode()}
}

func runCheck(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.Validate(); err != nil {
		return unknown(stdout, err)
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return unknown(stdout, err)
	}

	store, err := overrides.Load(cfg.OverridesPath)
	if err != nil {
		return unknown(stdout, err)
	}
	logger.WithField("mounts", store.Len()).Debug("Threshold overrides loaded")

	provider := newProvider()
	var timed *debug.TimedProvider
	if cfg.DebugTiming {
		timed = debug.NewTimedProvider(provider)
		provider = timed
	}

	formatter := output.NewFormatter(cfg.Format, stdout)
	var delivery sink.Sink
	if cfg.DryRun {
		// stdout carries a single JSON document in json format.
		events := stdout
		if cfg.Format == output.FormatJSON {
			events = stderr
		}
		delivery = sink.NewWriter(events)
	} else {
		delivery = sink.NewUDP(cfg.SinkAddr, logger)
	}

	r, err := runner.New(cfg.Runner(), provider, store, sink.Multi{delivery, formatter}, logger)
	if err != nil {
		return unknown(stdout, err)
	}

	var records []inventory.MountRecord
	if cfg.DumpRaw {
		r.OnRecord = func(rec inventory.MountRecord) {
			records = append(records, rec)
		}
	}

	res, err := r.Run(ctx)
	if cfg.DumpRaw {
		debug.DumpRecords(stderr, records)
	}
	if timed != nil {
		debug.TimingReport(stderr, timed.Timings)
	}
	if err != nil {
		return unknown(stdout, err)
	}

	if err := formatter.Render(res); err != nil {
		return ExitError{Code: check.StatusUnknown.ExitCode(), Err: fmt.Errorf("failed to render result: %w", err)}
	}

	if code := res.Status.ExitCode(); code != 0 {
		return ExitError{Code: code}
	}
	return nil
}
