package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bamsammich/extsort/internal/config"
	"github.com/bamsammich/extsort/internal/engine"
	"github.com/bamsammich/extsort/internal/event"
	"github.com/bamsammich/extsort/internal/stats"
	"github.com/bamsammich/extsort/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code:
// 0 when everything was copied, 1 when some scans or copies failed but at
// least one file made it, 2 when nothing was copied because of failures or
// the command line was unusable.
func run(args []string) int {
	var (
		workers     int
		verbose     bool
		quiet       bool
		showVersion bool
		logFile     string
	)

	rootCmd := &cobra.Command{
		Use:   "extsort [flags] <source_folder> <output_folder>",
		Short: "Copy every file under a folder into per-extension folders",
		Long: `extsort walks source_folder recursively and copies each file to
output_folder/<ext>/<name>, where <ext> is the file's lowercased extension
("noext" for files without one). Copies run concurrently; a file that
fails to copy is logged and does not stop the others.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "extsort %s\n", version)
				return nil
			}
			src, dst := args[0], args[1]

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &workers, &verbose, &quiet, &logFile)

			if workers < 0 {
				return errors.New("--workers must be >= 0")
			}

			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			} else if quiet {
				logLevel = slog.LevelWarn
			}
			var jsonLog io.Writer
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonLog = lf
			}
			logger := ui.NewLogger(os.Stderr, logLevel, jsonLog)
			slog.SetDefault(logger)

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)
			presenter := ui.NewPresenter(ui.Config{Logger: logger, Stats: collector})

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(events)
			}()

			slog.Debug("starting run", "src", src, "dst", dst, "workers", workers)
			result := engine.Run(cmd.Context(), engine.Config{
				Src:     src,
				Dst:     dst,
				Workers: workers,
				Events:  events,
				Stats:   collector,
			})
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet {
				fmt.Fprintln(os.Stderr, presenter.Summary())
			}

			slog.Debug("run finished", "stats", result.Stats.String())
			if result.Err != nil {
				slog.Debug("run finished with errors", "failures", result.Stats.Failures(), "error", result.Err)
				if result.Stats.FilesCopied > 0 {
					return &exitError{code: 1} // partial failure
				}
				return &exitError{code: 2} // nothing copied
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		IntVarP(&workers, "workers", "n", 0, "maximum concurrent copies (0 = one per file, unbounded)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "log only warnings and errors")
	rootCmd.Flags().StringVar(&logFile, "log", "", "also write a structured JSON log to FILE")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newDocsCmd())
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	workers *int,
	verbose *bool,
	quiet *bool,
	logFile *string,
) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("verbose") && !cmd.Flags().Changed("quiet") {
		if defaults.Verbose != nil {
			*verbose = *defaults.Verbose
		}
		if defaults.Quiet != nil {
			*quiet = *defaults.Quiet
		}
	}
	if !cmd.Flags().Changed("log") && defaults.Log != nil {
		*logFile = *defaults.Log
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
