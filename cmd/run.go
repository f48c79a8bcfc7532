package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/tui"
)

var (
	flagActions []string
	flagRunJSON bool
	flagNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run <path|url>",
	Short: "Scan, analyze, fix and document a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, err := assistant.ParseActions(flagActions)
		if err != nil {
			return err
		}

		pc := pipelineConfig()
		pc.Assistant = newAssistant()
		pc.Actions = actions
		if len(actions) == 0 {
			pc.Assistant = nil
		}
		if !flagNoSave {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			pc.Store = st
		}
		pc.OnEvent = func(e pipeline.Event) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s%s\n", e.Progress, levelPrefix(e.Level), e.Line)
		}

		report, err := pipeline.New(pc).Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if flagRunJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printMarkdown(tui.ReportMarkdown(report))
		return nil
	},
}

func levelPrefix(l pipeline.Level) string {
	switch l {
	case pipeline.LevelSuccess:
		return "✓ "
	case pipeline.LevelWarn:
		return "! "
	case pipeline.LevelError:
		return "✗ "
	}
	return ""
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func init() {
	runCmd.Flags().StringSliceVar(&flagActions, "actions", []string{"analyze", "fix", "generate-docs"}, "actions to run, comma separated (analyze, fix, generate-docs)")
	runCmd.Flags().BoolVar(&flagRunJSON, "json", false, "print the report as JSON")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "do not store the report")
	rootCmd.AddCommand(runCmd)
}
