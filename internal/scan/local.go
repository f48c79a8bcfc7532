package scan

import (
	"context"
	"sort"
	"strings"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

// LocalScanner reads the content of every admitted file, subject to the size cap.
type LocalScanner struct {
	cfg   Config
	files []File
	det   detectors
}

// NewLocal creates a scanner over a flat list of user-provided files.
func NewLocal(cfg Config, files []File) *LocalScanner {
	cfg = cfg.withDefaults()
	return &LocalScanner{
		cfg:   cfg,
		files: files,
		det:   newDetectors(cfg.Tables),
	}
}

type localEntry struct {
	path string
	file File
}

// Scan builds the summary. Unreadable and oversized files become warnings;
// only context cancellation produces an error.
func (s *LocalScanner) Scan(ctx context.Context) (*Summary, error) {
	log := s.cfg.Logger
	limits := s.cfg.Limits
	tables := s.cfg.Tables

	entries := make([]localEntry, len(s.files))
	for i, f := range s.files {
		entries[i] = localEntry{path: RelativePath(f), file: f}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	a := newAssembler()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tables.IsIgnored(e.path) {
			continue
		}
		if a.admitted() >= limits.MaxFiles {
			a.warn("File limit reached (%d files); remaining files were not scanned", limits.MaxFiles)
			log.Debug().Int("limit", limits.MaxFiles).Msg("file limit reached")
			break
		}

		size := e.file.Size()
		a.admit(e.path, size)

		ext := classify.Extension(e.path)
		if lang, ok := tables.LanguageFor(ext); ok {
			a.addLanguage(lang)
		}

		if size > limits.MaxFileSize {
			a.warn("Skipped %s: file too large (%.1f KB)", e.path, float64(size)/1024)
			log.Debug().Str("path", e.path).Int64("size", size).Msg("skipping oversized file")
			continue
		}

		content, err := s.read(ctx, e.file)
		if err != nil {
			a.warn("Failed to read %s: %v", e.path, err)
			log.Debug().Err(err).Str("path", e.path).Msg("read failed")
			continue
		}

		if strings.HasSuffix(e.path, "package.json") {
			a.addFrameworks(s.det.frameworks.Detect(content))
		}
		a.addIssues(s.det.patterns.Detect(e.path, content))
		a.addFile(e.path, content, ext, size)
	}

	sum := a.summary()
	log.Debug().
		Int("listed", len(sum.Structure)).
		Int("processed", sum.FileCount).
		Int("issues", len(sum.Errors)).
		Int("warnings", len(sum.Warnings)).
		Msg("local scan complete")
	return sum, nil
}

func (s *LocalScanner) read(ctx context.Context, f File) (string, error) {
	if s.cfg.ReadTimeout <= 0 {
		return f.ReadText(ctx)
	}
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()
	return f.ReadText(readCtx)
}
