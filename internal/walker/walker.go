package walker

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

// Options controls a directory walk.
type Options struct {
	// Tables prunes ignored directories early. Nil uses classify.Default().
	Tables *classify.Tables
	// RespectGitignore skips paths matched by the root .gitignore.
	RespectGitignore bool
}

// diskFile is a scan.File backed by the local filesystem.
type diskFile struct {
	abs  string
	rel  string
	size int64
}

func (f *diskFile) Path() string { return f.rel }
func (f *diskFile) Name() string { return filepath.Base(f.abs) }
func (f *diskFile) Size() int64  { return f.size }

// ReadText reads the whole file, giving up when ctx is done.
func (f *diskFile) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(f.abs)
		ch <- result{data, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		return string(r.data), nil
	}
}

// Walk traverses the directory tree rooted at root and sends every regular
// file on the returned channel. Symlinks are skipped and ignored directories
// are not descended into. Both channels close when the walk ends.
func Walk(ctx context.Context, root string, opts Options) (<-chan scan.File, <-chan error) {
	files := make(chan scan.File, 64)
	errs := make(chan error, 1)

	tables := opts.Tables
	if tables == nil {
		tables = classify.Default()
	}

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			errs <- err
			return
		}
		if !info.IsDir() {
			errs <- fmt.Errorf("%s is not a directory", absRoot)
			return
		}

		var gi *ignore.GitIgnore
		if opts.RespectGitignore {
			gi = loadGitignore(absRoot)
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}
			if path == absRoot {
				return nil
			}

			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if tables.IsIgnoredDir(d.Name()) {
					return filepath.SkipDir
				}
				if gi != nil && (gi.MatchesPath(rel) || gi.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}

			// Skip symlinks and other non-regular files.
			if !d.Type().IsRegular() {
				return nil
			}
			if gi != nil && gi.MatchesPath(rel) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			select {
			case files <- &diskFile{abs: path, rel: rel, size: info.Size()}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// loadGitignore compiles root/.gitignore, or returns nil when there is none.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// DirSource adapts a directory walk to scan.Source.
type DirSource struct {
	files <-chan scan.File
	errs  <-chan error
}

// NewDirSource starts walking root. The walk stops early if ctx is cancelled.
func NewDirSource(ctx context.Context, root string, opts Options) *DirSource {
	files, errs := Walk(ctx, root, opts)
	return &DirSource{files: files, errs: errs}
}

// Next returns the next file, or io.EOF when the walk is complete.
func (s *DirSource) Next(ctx context.Context) (scan.File, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f, ok := <-s.files:
		if ok {
			return f, nil
		}
		if err := <-s.errs; err != nil {
			return nil, fmt.Errorf("walk: %w", err)
		}
		return nil, io.EOF
	}
}
