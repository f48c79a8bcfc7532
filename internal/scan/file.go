package scan

import (
	"context"
	"errors"
	"io"
)

// File is a user-provided file handle: a relative path, a byte size and a
// whole-file text read that may fail.
type File interface {
	// Path is the directory-qualified relative path, or "" when the platform
	// only knows the bare name.
	Path() string
	Name() string
	Size() int64
	ReadText(ctx context.Context) (string, error)
}

// Source produces Files lazily. It is finite and not restartable; Next
// returns io.EOF once exhausted.
type Source interface {
	Next(ctx context.Context) (File, error)
}

// RelativePath is the path a File is scanned under.
func RelativePath(f File) string {
	if p := f.Path(); p != "" {
		return p
	}
	return f.Name()
}

// Collect drains src.
func Collect(ctx context.Context, src Source) ([]File, error) {
	var files []File
	for {
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
}

// MemFile is an in-memory File.
type MemFile struct {
	RelPath  string
	BaseName string
	Content  string
	// SizeOverride, when non-zero, is reported instead of len(Content).
	SizeOverride int64
	// Err, when set, is returned by ReadText.
	Err error
}

func (m *MemFile) Path() string { return m.RelPath }
func (m *MemFile) Name() string { return m.BaseName }

func (m *MemFile) Size() int64 {
	if m.SizeOverride != 0 {
		return m.SizeOverride
	}
	return int64(len(m.Content))
}

func (m *MemFile) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Content, nil
}

// SliceSource is a Source over a fixed list of Files.
type SliceSource struct {
	files []File
	pos   int
}

// NewSliceSource returns a Source that yields files in order.
func NewSliceSource(files ...File) *SliceSource {
	return &SliceSource{files: files}
}

func (s *SliceSource) Next(ctx context.Context) (File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.files) {
		return nil, io.EOF
	}
	f := s.files[s.pos]
	s.pos++
	return f, nil
}
