package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agentuity/go-collections/logger"
	"github.com/agentuity/go-collections/replay"
	"github.com/agentuity/go-collections/tui"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	format   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "collections",
	Short:         "Exercise the in-memory caches and queues",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var replayCmd = &cobra.Command{
	Use:     "replay <script.yaml>",
	Short:   "Run a scripted sequence of operations against a cache or queue",
	Example: "collections replay ttl.yaml\ncat ttl.yaml | collections replay -",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "unable to open script")
			}
			defer f.Close()
			r = f
		}
		script, err := replay.Load(r)
		if err != nil {
			return err
		}
		log := logger.NewConsoleLogger(logger.ParseLevel(logLevel, logger.GetLevelFromEnv()))
		results, err := replay.Run(script, log)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), results)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func render(w io.Writer, results []replay.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case "table":
		rows := make([][]string, len(results))
		for i, r := range results {
			rows[i] = []string{strconv.Itoa(r.Step), r.Op, r.Output, strings.Join(r.Events, " ")}
		}
		tui.Table(w, []string{"step", "op", "output", "events"}, rows)
		return nil
	}
	return errors.Newf("unknown format %q: use table or json", format)
}

func init() {
	replayCmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); defaults to $"+logger.LevelEnv)
	rootCmd.AddCommand(replayCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
