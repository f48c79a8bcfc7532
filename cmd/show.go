package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/tui"
)

var (
	flagShowJSON bool
	flagShowTab  string
	flagShowTUI  bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := st.Get(args[0])
		if err != nil {
			return err
		}

		switch {
		case flagShowJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case flagShowTUI:
			return showInTUI(st, report)
		}

		if flagShowTab == "" {
			printMarkdown(tui.ReportMarkdown(report))
			return nil
		}
		tab, err := parseTab(flagShowTab)
		if err != nil {
			return err
		}
		printMarkdown(tui.TabMarkdown(report, tab))
		return nil
	},
}

func parseTab(s string) (tui.Tab, error) {
	for _, t := range tui.Tabs {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown section %q (want overview, analysis, fixes or docs)", s)
}

func showInTUI(st store.Store, report *store.Report) error {
	if err := fileOnlyLogging(); err != nil {
		return err
	}
	pc := pipelineConfig()
	pc.Store = st
	return tui.Run(tui.Config{
		Pipeline:        pc,
		LLMURL:          cfg.LLM.URL,
		Model:           cfg.LLM.Model,
		LLMTimeout:      cfg.LLM.Timeout,
		MaxContentChars: cfg.LLM.MaxContentChars,
		Source:          report.Source,
		Report:          report,
	})
}

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "print the report as JSON")
	showCmd.Flags().StringVar(&flagShowTab, "section", "", "only print one section: overview, analysis, fixes or docs")
	showCmd.Flags().BoolVar(&flagShowTUI, "tui", false, "browse the report interactively")
	rootCmd.AddCommand(showCmd)
}
