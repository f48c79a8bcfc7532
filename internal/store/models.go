package store

import (
	"time"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/assistant"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

// Report is one finished pipeline run. Each action result is nil when the
// action was not run or failed; Failures holds the error per failed action.
type Report struct {
	ID        string                      `json:"id"`
	Source    string                      `json:"source"`
	CreatedAt time.Time                   `json:"createdAt"`
	Summary   *scan.Summary               `json:"summary"`
	Analysis  *assistant.IssueAnalysis    `json:"analysis,omitempty"`
	Patches   *assistant.PatchSet         `json:"patches,omitempty"`
	Docs      *assistant.Documentation    `json:"docs,omitempty"`
	Failures  map[assistant.Action]string `json:"failures,omitempty"`
}

// ReportInfo is a lightweight report record for listings.
type ReportInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
	// Score is -1 when no analysis was stored.
	Score int `json:"score"`
}
