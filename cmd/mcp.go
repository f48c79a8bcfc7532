package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/pipeline"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/store"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/tui"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing repository scan and report tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s := newMCPServer(pipelineConfig(), newAssistant(), st)
	return mcpserver.ServeStdio(s)
}

func newMCPServer(pc pipeline.Config, actor pipeline.Actor, st store.Store) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("autofix", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(scanRepositoryTool(), makeScanHandler(pc))
	s.AddTool(runActionTool(), makeRunActionHandler(pc, actor, st))
	s.AddTool(listReportsTool(), makeListReportsHandler(st))
	s.AddTool(getReportTool(), makeGetReportHandler(st))
	return s
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func scanRepositoryTool() mcp.Tool {
	return mcp.NewTool("scan_repository",
		mcp.WithDescription("Scan a local folder or a public GitHub repository URL. Returns the bounded repository summary as JSON: languages, frameworks, file structure, file contents, detected issues and warnings."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(true),
		}),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Local directory path or https://github.com/<owner>/<repo> URL"),
		),
		mcp.WithBoolean("include_contents",
			mcp.Description("Include file contents in the result (default false)"),
		),
	)
}

func runActionTool() mcp.Tool {
	return mcp.NewTool("run_action",
		mcp.WithDescription("Scan a source and run one assistant action on it: analyze (issue analysis with a 0-100 score), fix (proposed patches with diffs) or generate-docs (README and summary). The report is stored and its id returned."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Local directory path or https://github.com/<owner>/<repo> URL"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Enum("analyze", "fix", "generate-docs"),
			mcp.Description("Action to run"),
		),
	)
}

func listReportsTool() mcp.Tool {
	return mcp.NewTool("list_reports",
		mcp.WithDescription("List stored reports, newest first, with id, source, file count and score."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reports to return (default 20)"),
		),
	)
}

func getReportTool() mcp.Tool {
	return mcp.NewTool("get_report",
		mcp.WithDescription("Get a stored report as Markdown. Accepts a full id or a unique prefix."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report id or unique id prefix, as shown by list_reports"),
		),
		mcp.WithString("section",
			mcp.Enum("overview", "analysis", "fixes", "docs"),
			mcp.Description("Only return one section"),
		),
	)
}

// --- Handler factories ---

func makeScanHandler(pc pipeline.Config) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		if source == "" {
			return mcp.NewToolResultError("source is required"), nil
		}

		scanner, err := pipeline.NewScanner(ctx, pc.Scan, source, pc.GitHub, pc.Walk)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
		}
		sum, err := scanner.Scan(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
		}

		if !req.GetBool("include_contents", false) {
			trimmed := *sum
			trimmed.Files = make([]scan.FileRecord, 0, len(sum.Files))
			for _, f := range sum.Files {
				f.Content = ""
				trimmed.Files = append(trimmed.Files, f)
			}
			sum = &trimmed
		}

		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode summary: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeRunActionHandler(pc pipeline.Config, actor pipeline.Actor, st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		if source == "" {
			return mcp.NewToolResultError("source is required"), nil
		}
		action, err := assistant.ParseAction(req.GetString("action", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		pc.Assistant = actor
		pc.Actions = []assistant.Action{action}
		pc.Store = st
		report, err := pipeline.New(pc).Run(ctx, source)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
		}
		if msg, failed := report.Failures[action]; failed {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", action, msg)), nil
		}

		var sb strings.Builder
		if report.ID != "" {
			fmt.Fprintf(&sb, "Report id: %s\n\n", report.ID)
		}
		sb.WriteString(tui.TabMarkdown(report, actionTab(action)))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func actionTab(a assistant.Action) tui.Tab {
	switch a {
	case assistant.ActionAnalyze:
		return tui.TabAnalysis
	case assistant.ActionFix:
		return tui.TabFixes
	}
	return tui.TabDocs
}

func makeListReportsHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}

		reports, err := st.List(limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list reports failed: %v", err)), nil
		}
		if len(reports) == 0 {
			return mcp.NewToolResultText("No reports stored yet. Call run_action to create one."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Reports (%d)\n\n", len(reports))
		for _, r := range reports {
			score := "not analyzed"
			if r.Score >= 0 {
				score = fmt.Sprintf("score %d/100", r.Score)
			}
			fmt.Fprintf(&sb, "- **%s** %s (%d files, %s, %s)\n",
				r.ID, r.Source, r.FileCount, score, r.CreatedAt.Format("2006-01-02 15:04 MST"))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeGetReportHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		report, err := st.Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("report %q not found; call list_reports to see available ids", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get report failed: %v", err)), nil
		}

		section := req.GetString("section", "")
		if section == "" {
			return mcp.NewToolResultText(tui.ReportMarkdown(report)), nil
		}
		tab, err := parseTab(section)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(tui.TabMarkdown(report, tab)), nil
	}
}
