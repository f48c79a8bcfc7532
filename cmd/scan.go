package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

var flagScanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan <path|url>",
	Short: "Scan a folder or GitHub repository and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc := pipelineConfig()
		scanner, err := pipeline.NewScanner(cmd.Context(), pc.Scan, args[0], pc.GitHub, pc.Walk)
		if err != nil {
			return err
		}

		start := time.Now()
		sum, err := scanner.Scan(cmd.Context())
		if err != nil {
			if pipeline.IsFatal(err) {
				return fmt.Errorf("cannot scan %s: %w", args[0], err)
			}
			return err
		}

		if flagScanJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}
		printSummary(sum, time.Since(start))
		return nil
	},
}

func printSummary(sum *scan.Summary, elapsed time.Duration) {
	st := sum.Stats()
	fmt.Printf("Scanned in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Files:      %d listed, %d read, %d bytes\n", st.Listed, st.Processed, st.TotalSize)
	fmt.Printf("  Languages:  %s\n", joinOrNone(sum.Languages))
	fmt.Printf("  Frameworks: %s\n", joinOrNone(sum.Frameworks))

	if len(sum.Errors) > 0 {
		fmt.Printf("\nIssues (%d):\n", len(sum.Errors))
		for _, e := range sum.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if len(sum.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(sum.Warnings))
		for _, w := range sum.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "none"
	}
	s := string(items[0])
	for _, it := range items[1:] {
		s += ", " + string(it)
	}
	return s
}

func init() {
	scanCmd.Flags().BoolVar(&flagScanJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(scanCmd)
}
