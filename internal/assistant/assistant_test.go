package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/llm"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

type stubChat struct {
	reply string
	err   error
	got   []llm.Message
}

func (s *stubChat) Generate(_ context.Context, msgs []llm.Message) (string, error) {
	s.got = msgs
	return s.reply, s.err
}

func sampleSummary() *scan.Summary {
	return &scan.Summary{
		Languages:  []classify.Language{classify.TypeScript},
		Frameworks: []classify.Framework{classify.React},
		Files: []scan.FileRecord{
			{Path: "src/app.ts", Content: "let x: any = 5;\n", Type: "ts", Size: 16},
		},
		Errors:    []string{"src/app.ts: 'any' type usage detected"},
		Warnings:  []string{},
		Structure: []string{"src/app.ts"},
		TotalSize: 16,
		FileCount: 1,
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
		ok   bool
	}{
		{"analyze", ActionAnalyze, true},
		{" FIX ", ActionFix, true},
		{"generate-docs", ActionGenerateDocs, true},
		{"docs", ActionGenerateDocs, true},
		{"deploy", "", false},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseActions_OrdersAndDedupes(t *testing.T) {
	got, err := ParseActions([]string{"docs,fix", "analyze", "fix"})
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionAnalyze, ActionFix, ActionGenerateDocs}, got)

	_, err = ParseActions([]string{"analyze,nope"})
	assert.Error(t, err)
}

func TestRun_Analyze(t *testing.T) {
	chat := &stubChat{reply: "Here you go:\n```json\n" +
		`{"criticalErrors":["x"],"warnings":[],"securityIssues":null,"suggestions":["use unknown"],"score":140,"summary":" ok "}` +
		"\n```"}
	resp := New(chat).Run(context.Background(), Request{RepoSummary: sampleSummary(), Action: ActionAnalyze})

	require.True(t, resp.Success, resp.Error)
	ia, ok := resp.Result.(*IssueAnalysis)
	require.True(t, ok)
	assert.Equal(t, 100, ia.Score)
	assert.Equal(t, []string{"x"}, ia.CriticalErrors)
	assert.NotNil(t, ia.SecurityIssues)
	assert.Equal(t, "ok", ia.Summary)

	require.Len(t, chat.got, 4)
	assert.Equal(t, "system", chat.got[0].Role)
	assert.Contains(t, chat.got[1].Content, "src/app.ts")
	assert.Contains(t, chat.got[1].Content, "React")
	assert.Contains(t, chat.got[3].Content, `"score"`)
}

func TestRun_AnalyzeNegativeScoreClamped(t *testing.T) {
	chat := &stubChat{reply: `{"score":-3,"summary":"bad"}`}
	resp := New(chat).Run(context.Background(), Request{RepoSummary: sampleSummary(), Action: ActionAnalyze})
	require.True(t, resp.Success)
	assert.Equal(t, 0, resp.Result.(*IssueAnalysis).Score)
}

func TestRun_FixFillsDiffAndRecounts(t *testing.T) {
	chat := &stubChat{reply: `{"patches":[
		{"file":"src/app.ts","original":"let x: any = 5;","fixed":"const x: number = 5;","explanation":"typed","riskLevel":"LOW"},
		{"file":"src/b.ts","original":"same","fixed":"same","explanation":"noop"}
	],"fixedCount":7,"skippedReasons":["generated code"]}`}

	resp := New(chat).Run(context.Background(), Request{RepoSummary: sampleSummary(), Action: ActionFix})
	require.True(t, resp.Success, resp.Error)
	ps := resp.Result.(*PatchSet)

	require.Len(t, ps.Patches, 1)
	p := ps.Patches[0]
	assert.Equal(t, RiskLow, p.RiskLevel)
	assert.Contains(t, p.Diff, "--- a/src/app.ts")
	assert.Contains(t, p.Diff, "-let x: any = 5;")
	assert.Contains(t, p.Diff, "+const x: number = 5;")

	assert.Equal(t, 1, ps.FixedCount)
	assert.Equal(t, 2, ps.SkippedCount)
	assert.Len(t, ps.SkippedReasons, 2)
}

func TestRun_FixKeepsModelDiff(t *testing.T) {
	chat := &stubChat{reply: `{"patches":[{"file":"a.js","original":"a","fixed":"b","diff":"custom","riskLevel":"weird"}],"skippedCount":3}`}
	resp := New(chat).Run(context.Background(), Request{RepoSummary: sampleSummary(), Action: ActionFix})
	require.True(t, resp.Success)
	ps := resp.Result.(*PatchSet)
	assert.Equal(t, "custom", ps.Patches[0].Diff)
	assert.Equal(t, RiskMedium, ps.Patches[0].RiskLevel)
	assert.Equal(t, 3, ps.SkippedCount)
	assert.Equal(t, []string{}, ps.SkippedReasons)
}

func TestRun_GenerateDocs(t *testing.T) {
	chat := &stubChat{reply: `{"readme":"# App\n","summary":"An app.","problemsSolved":"- things"}`}
	resp := New(chat).Run(context.Background(), Request{RepoSummary: sampleSummary(), Action: ActionGenerateDocs})
	require.True(t, resp.Success)
	d := resp.Result.(*Documentation)
	assert.Equal(t, "# App\n", d.Readme)
	assert.Equal(t, "An app.", d.Summary)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name string
		chat *stubChat
		req  Request
		want string
	}{
		{"nil summary", &stubChat{}, Request{Action: ActionAnalyze}, "no repository summary"},
		{"bad action", &stubChat{}, Request{RepoSummary: sampleSummary(), Action: "deploy"}, "unknown action"},
		{"chat error", &stubChat{err: errors.New("connection refused")}, Request{RepoSummary: sampleSummary(), Action: ActionFix}, "connection refused"},
		{"no json", &stubChat{reply: "I cannot help"}, Request{RepoSummary: sampleSummary(), Action: ActionAnalyze}, "no JSON object"},
		{"truncated json", &stubChat{reply: `{"readme": "x`}, Request{RepoSummary: sampleSummary(), Action: ActionGenerateDocs}, "unterminated"},
		{"empty readme", &stubChat{reply: `{"readme":"  "}`}, Request{RepoSummary: sampleSummary(), Action: ActionGenerateDocs}, "empty readme"},
		{"wrong shape", &stubChat{reply: `{"score":"high"}`}, Request{RepoSummary: sampleSummary(), Action: ActionAnalyze}, "decode analysis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New(tt.chat).Run(context.Background(), tt.req)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Result)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestExtractJSON_BracesInStrings(t *testing.T) {
	raw, err := extractJSON(`noise {"a":"}{\"","b":{"c":1}} trailing }`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"}{\"","b":{"c":1}}`, string(raw))
}

func TestBuildMessages_ClipsContent(t *testing.T) {
	sum := sampleSummary()
	sum.Files = []scan.FileRecord{{Path: "big.go", Type: "go", Content: strings.Repeat("x", 500), Size: 500}}

	msgs := BuildMessages(sum, ActionAnalyze, 100)
	body := msgs[1].Content
	assert.Contains(t, body, "... (truncated)")
	assert.NotContains(t, body, strings.Repeat("x", 101))
}

func TestBuildMessages_OmitsFilesPastBudget(t *testing.T) {
	sum := sampleSummary()
	sum.Files = nil
	for i := 0; i < budgetFiles+3; i++ {
		sum.Files = append(sum.Files, scan.FileRecord{Path: "f.go", Type: "go", Content: strings.Repeat("y", 50)})
	}
	body := BuildMessages(sum, ActionFix, 50)[1].Content
	assert.Contains(t, body, "(3 more files omitted)")
}

func TestClip_KeepsRunesWhole(t *testing.T) {
	got := clip("héllo", 2)
	assert.True(t, strings.HasPrefix(got, "h\n"), got)
}

func TestUnifiedDiff(t *testing.T) {
	d := UnifiedDiff("main.go", "a\nb\nc\n", "a\nB\nc\n")
	assert.Equal(t, "--- a/main.go\n+++ b/main.go\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n", d)

	d = UnifiedDiff("new.go", "", "x\n")
	assert.Contains(t, d, "@@ -0,0 +1,1 @@")
}
