package assistant

import "github.com/yuvraj20122008-del/autofix-my-code/internal/scan"

// Request is what the pipeline hands to the assistant.
type Request struct {
	RepoSummary *scan.Summary `json:"repoSummary"`
	Action      Action        `json:"action"`
}

// Response is either a successful result whose shape depends on the action,
// or a failure carrying an error message. Result is one of *IssueAnalysis,
// *PatchSet or *Documentation.
type Response struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(result any) Response { return Response{Success: true, Result: result} }

func fail(err error) Response { return Response{Success: false, Error: err.Error()} }

// IssueAnalysis is the result of the analyze action.
type IssueAnalysis struct {
	CriticalErrors []string `json:"criticalErrors"`
	Warnings       []string `json:"warnings"`
	SecurityIssues []string `json:"securityIssues"`
	Suggestions    []string `json:"suggestions"`
	Score          int      `json:"score"`
	Summary        string   `json:"summary"`
}

// RiskLevel grades how likely a patch is to change behaviour.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Patch is one proposed change to one file.
type Patch struct {
	File        string    `json:"file"`
	Original    string    `json:"original"`
	Fixed       string    `json:"fixed"`
	Diff        string    `json:"diff"`
	Explanation string    `json:"explanation"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	TestCommand string    `json:"testCommand,omitempty"`
}

// PatchSet is the result of the fix action.
type PatchSet struct {
	Patches        []Patch  `json:"patches"`
	FixedCount     int      `json:"fixedCount"`
	SkippedCount   int      `json:"skippedCount"`
	SkippedReasons []string `json:"skippedReasons"`
}

// Documentation is the result of the generate-docs action.
type Documentation struct {
	Readme         string `json:"readme"`
	Summary        string `json:"summary"`
	ProblemsSolved string `json:"problemsSolved"`
}
