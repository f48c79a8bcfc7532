package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/github"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/walker"
)

// IsRemote reports whether input names a repository URL rather than a local path.
func IsRemote(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NewScanner picks the scan strategy for input: repository URLs are scanned
// remotely through client, anything else is walked as a local directory.
// Malformed URLs fail when the scan starts, not here.
func NewScanner(ctx context.Context, cfg scan.Config, input string, client *github.Client, walk walker.Options) (scan.Scanner, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("no path or repository URL given")
	}
	if IsRemote(input) {
		return scan.NewRemote(cfg, input, client), nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", input)
	}
	if walk.Tables == nil {
		walk.Tables = cfg.Tables
	}

	files, err := scan.Collect(ctx, walker.NewDirSource(ctx, input, walk))
	if err != nil {
		return nil, err
	}
	return scan.NewLocal(cfg, files), nil
}
