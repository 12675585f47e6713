package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reallyoldfogie/rl-replay-go/internal/config"
	"github.com/reallyoldfogie/rl-replay-go/internal/logging"
	"github.com/reallyoldfogie/rl-replay-go/rlreplay/scanner"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	workers int
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "rlreplay-validate [options] <replay|dir> [replay|dir ...]",
	Short: "Decode replay files and report structural problems",
	Long: `rlreplay-validate decodes every given .replay file (directories are
searched recursively) and reports files that fail to decode, along with
structural warnings for files that do. Exits 1 if any file fails.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runValidate,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "Files decoded in parallel (overrides config)")
	_ = v.BindPFlag("scan.workers", rootCmd.Flags().Lookup("workers"))
}

// errFailures signals a non-zero exit without printing another message.
var errFailures = errors.New("one or more replays failed to decode")

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = zerolog.DebugLevel.String()
	}
	log := logging.Setup(level, cfg.LogPretty, os.Stderr)
	// Results are printed below; per-file log lines only in verbose mode.
	scanLog := zerolog.Nop()
	if verbose {
		scanLog = log
	}

	var paths []string
	for _, arg := range args {
		found, err := scanner.Find(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", arg, err)
			return errFailures
		}
		paths = append(paths, found...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scanner.New(
		scanner.WithWorkers(cfg.Workers),
		scanner.WithOptions(cfg.DecodeOptions()),
		scanner.WithLogger(scanLog),
	)
	results, err := s.Scan(ctx, paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, res := range results {
		name := filepath.Base(res.Path)
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", name, res.Err)
			failed = true
			continue
		}
		if quiet {
			continue
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "⚠️  %s: %s\n", name, w)
		}
		fmt.Fprintf(out, "✅ %s: valid (%s, crc %s)\n", name, res.Replay.Version, res.Replay.CRC)
	}

	if failed {
		return errFailures
	}
	if !quiet && len(results) > 1 {
		fmt.Fprintf(out, "\nAll %d replay files are valid!\n", len(results))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
