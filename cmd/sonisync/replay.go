package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/sonisync/internal/presentation/graph"
	"github.com/aretw0/sonisync/internal/presentation/tui"
	"github.com/aretw0/sonisync/pkg/observability"
	"github.com/aretw0/sonisync/pkg/scenario"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a chart scenario against a recording engine",
	Long: `Replays a scripted chart lifecycle (creation, data updates, legend toggles,
navigation, destruction) and prints the reconciliation verdict and the engine
operations of every step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		appendMode := cfg.Append
		if cmd.Flags().Changed("append") {
			appendMode, _ = cmd.Flags().GetBool("append")
		}

		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		replayer := scenario.NewReplayer(
			scenario.WithLogger(logger),
			scenario.WithAppend(appendMode),
			scenario.WithLifecycleHooks(observability.LogHooks(logger)),
		)
		report, err := replayer.Replay(cmd.Context(), sc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(report))
			return nil
		case "markdown":
			md := tui.ReportMarkdown(report)
			if !isTerminal() {
				fmt.Fprint(out, md)
				return nil
			}
			rendered, err := tui.NewRenderer()(md)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		case "text":
			profile := termenv.Ascii
			if isTerminal() {
				profile = termenv.ColorProfile()
				tui.PrintBanner(out)
			}
			tui.PrintSteps(out, profile, report)
			return nil
		default:
			return fmt.Errorf("unknown format %q (text, json, markdown, mermaid)", format)
		}
	},
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("append", false, "Apply pure appends incrementally instead of replacing the engine data")
	replayCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown or mermaid")
}
