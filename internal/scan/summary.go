// Package scan turns a set of files, local or remote, into a bounded
// RepositorySummary. Two strategies share the Scanner interface: the local
// scanner reads every admitted file, the remote scanner lists a GitHub tree
// and fetches content only for important files.
package scan

import (
	"context"
	"fmt"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

// FileRecord is one file whose content was processed.
type FileRecord struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
}

// Summary is the sole output of a scan. It is read-only once returned.
type Summary struct {
	Languages  []classify.Language  `json:"languages"`
	Frameworks []classify.Framework `json:"frameworks"`
	Files      []FileRecord         `json:"files"`
	Errors     []string             `json:"errors"`
	Warnings   []string             `json:"warnings"`
	Structure  []string             `json:"structure"`
	TotalSize  int64                `json:"totalSize"`
	FileCount  int                  `json:"fileCount"`
}

// Scanner produces a Summary from some source.
type Scanner interface {
	Scan(ctx context.Context) (*Summary, error)
}

// assembler accumulates one Summary. Both scanners feed it so the output
// contract is maintained in a single place.
type assembler struct {
	s          *Summary
	languages  map[classify.Language]bool
	frameworks map[classify.Framework]bool
}

func newAssembler() *assembler {
	return &assembler{
		s: &Summary{
			Languages:  []classify.Language{},
			Frameworks: []classify.Framework{},
			Files:      []FileRecord{},
			Errors:     []string{},
			Warnings:   []string{},
			Structure:  []string{},
		},
		languages:  make(map[classify.Language]bool),
		frameworks: make(map[classify.Framework]bool),
	}
}

// admit records a listed path and its size.
func (a *assembler) admit(path string, size int64) {
	a.s.Structure = append(a.s.Structure, path)
	a.s.TotalSize += size
}

func (a *assembler) admitted() int { return len(a.s.Structure) }

func (a *assembler) addLanguage(lang classify.Language) {
	if a.languages[lang] {
		return
	}
	a.languages[lang] = true
	a.s.Languages = append(a.s.Languages, lang)
}

func (a *assembler) addFrameworks(fws []classify.Framework) {
	for _, fw := range fws {
		if a.frameworks[fw] {
			continue
		}
		a.frameworks[fw] = true
		a.s.Frameworks = append(a.s.Frameworks, fw)
	}
}

func (a *assembler) addIssues(issues []string) {
	a.s.Errors = append(a.s.Errors, issues...)
}

func (a *assembler) warn(format string, args ...any) {
	a.s.Warnings = append(a.s.Warnings, fmt.Sprintf(format, args...))
}

// addFile appends a processed file. FileCount always tracks len(Files).
func (a *assembler) addFile(path, content, ext string, size int64) {
	typ := ext
	if typ == "" {
		typ = "unknown"
	}
	a.s.Files = append(a.s.Files, FileRecord{
		Path:    path,
		Content: content,
		Type:    typ,
		Size:    size,
	})
	a.s.FileCount = len(a.s.Files)
}

func (a *assembler) summary() *Summary { return a.s }

// Stats is a compact view of a Summary for logs and listings.
type Stats struct {
	Listed    int
	Processed int
	Issues    int
	Warnings  int
	TotalSize int64
}

// Stats reports counts for s.
func (s *Summary) Stats() Stats {
	return Stats{
		Listed:    len(s.Structure),
		Processed: s.FileCount,
		Issues:    len(s.Errors),
		Warnings:  len(s.Warnings),
		TotalSize: s.TotalSize,
	}
}
