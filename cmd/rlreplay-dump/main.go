package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reallyoldfogie/rl-replay-go/adapters"
	"github.com/reallyoldfogie/rl-replay-go/internal/config"
	"github.com/reallyoldfogie/rl-replay-go/internal/logging"
	"github.com/reallyoldfogie/rl-replay-go/rlreplay"
)

var (
	cfgFile  string
	toon     bool
	compact  bool
	maxDepth int
	v        = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "rlreplay-dump <file.replay>",
	Short: "Decode a replay file and print it",
	Long: `rlreplay-dump decodes a .replay file and prints the header properties,
keyframes, debug log, goal frames, string tables, class index map and the
rebuilt class net cache tree. The network stream is not printed.

Examples:
  rlreplay-dump match.replay
  rlreplay-dump --toon match.replay
  rlreplay-dump --compact match.replay | jq .header`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDump,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.Flags().BoolVar(&toon, "toon", false, "Output in LLM-friendly toon format")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "Output JSON without indentation")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum array property nesting (overrides config)")
	_ = v.BindPFlag("decode.max_array_depth", rootCmd.Flags().Lookup("max-depth"))
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	r, err := rlreplay.ReadFile(args[0], cfg.DecodeOptions())
	if err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}
	for _, w := range rlreplay.Check(r) {
		log.Warn().Str("path", args[0]).Msg(w)
	}

	if toon {
		out, err := adapters.TOON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	out, err := adapters.JSON(r, !compact)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
