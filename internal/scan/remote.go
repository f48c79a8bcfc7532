package scan

import (
	"context"
	"strings"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/github"
)

// RemoteScanner lists a GitHub repository tree and fetches content only for
// important files.
// Structure covers every kept entry, Files only the fetched ones.
type RemoteScanner struct {
	cfg    Config
	url    string
	client *github.Client
	det    detectors
}

// NewRemote creates a scanner for the repository at repoURL.
func NewRemote(cfg Config, repoURL string, client *github.Client) *RemoteScanner {
	cfg = cfg.withDefaults()
	if client == nil {
		client = github.NewClient(github.Options{})
	}
	return &RemoteScanner{
		cfg:    cfg,
		url:    repoURL,
		client: client,
		det:    newDetectors(cfg.Tables),
	}
}

// Scan fails on a malformed URL or when no branch tree can be listed; every
// later failure is recorded as a warning.
func (s *RemoteScanner) Scan(ctx context.Context) (*Summary, error) {
	log := s.cfg.Logger
	limits := s.cfg.Limits
	tables := s.cfg.Tables

	repo, err := github.ParseRepoURL(s.url)
	if err != nil {
		return nil, err
	}

	tree, err := s.client.Tree(ctx, repo)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("repo", repo.String()).
		Str("branch", tree.Branch).
		Int("entries", len(tree.Entries)).
		Msg("tree listed")

	a := newAssembler()
	if tree.Truncated {
		a.warn("Repository tree listing for %s was truncated; some files were not listed", repo)
	}

	var blobs []github.TreeEntry
	for _, e := range tree.Entries {
		if e.IsFile() {
			blobs = append(blobs, e)
		}
	}
	if len(blobs) > limits.MaxFiles {
		a.warn("File limit reached (%d files); remaining files were not scanned", limits.MaxFiles)
		blobs = blobs[:limits.MaxFiles]
	}

	fetched := 0
	for _, e := range blobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tables.IsIgnored(e.Path) {
			continue
		}

		size := e.SizeOrZero()
		a.admit(e.Path, size)

		ext := classify.Extension(e.Path)
		if lang, ok := tables.LanguageFor(ext); ok {
			a.addLanguage(lang)
		}

		if !tables.IsImportant(e.Path) {
			continue
		}
		if size >= limits.MaxFileSize {
			a.warn("Skipped %s: file too large (%.1f KB)", e.Path, float64(size)/1024)
			continue
		}
		if fetched >= limits.MaxContentFetches {
			continue
		}

		content, err := s.client.Raw(ctx, repo, tree.Branch, e.Path)
		if err != nil {
			a.warn("Failed to fetch %s", e.Path)
			log.Debug().Err(err).Str("path", e.Path).Msg("raw fetch failed")
			continue
		}

		if strings.HasSuffix(e.Path, "package.json") {
			a.addFrameworks(s.det.frameworks.Detect(content))
		}
		a.addIssues(s.det.patterns.Detect(e.Path, content))
		a.addFile(e.Path, content, ext, size)
		fetched++
	}

	sum := a.summary()
	log.Debug().
		Str("repo", repo.String()).
		Int("listed", len(sum.Structure)).
		Int("fetched", fetched).
		Int("issues", len(sum.Errors)).
		Int("warnings", len(sum.Warnings)).
		Msg("remote scan complete")
	return sum, nil
}
