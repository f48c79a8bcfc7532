package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

func mem(path, content string) *MemFile {
	return &MemFile{RelPath: path, BaseName: path[strings.LastIndex(path, "/")+1:], Content: content}
}

func scanLocal(t *testing.T, cfg Config, files ...File) *Summary {
	t.Helper()
	sum, err := NewLocal(cfg, files).Scan(context.Background())
	require.NoError(t, err)
	return sum
}

func TestLocalScan_OrdersByPathAndRecordsFiles(t *testing.T) {
	sum := scanLocal(t, Config{},
		mem("src/b.ts", "const b = 1;\n"),
		mem("README", "hello"),
		mem("src/a.go", "package a\n"),
	)

	assert.Equal(t, []string{"README", "src/a.go", "src/b.ts"}, sum.Structure)
	require.Len(t, sum.Files, 3)
	assert.Equal(t, "unknown", sum.Files[0].Type)
	assert.Equal(t, "go", sum.Files[1].Type)
	assert.Equal(t, "ts", sum.Files[2].Type)
	assert.Equal(t, "package a\n", sum.Files[1].Content)
	assert.ElementsMatch(t, []classify.Language{classify.Go, classify.TypeScript}, sum.Languages)
	assert.Equal(t, int64(5+10+13), sum.TotalSize)
	assert.Equal(t, 3, sum.FileCount)
	assert.Empty(t, sum.Warnings)
}

func TestLocalScan_TypeKeepsUnrecognizedExtension(t *testing.T) {
	sum := scanLocal(t, Config{}, mem("docs/Guide.MD", "# guide"))

	require.Len(t, sum.Files, 1)
	assert.Equal(t, "md", sum.Files[0].Type)
	assert.Empty(t, sum.Languages)
}

func TestLocalScan_BareNameWhenNoRelativePath(t *testing.T) {
	sum := scanLocal(t, Config{}, &MemFile{BaseName: "main.py", Content: "print(1)\n"})

	assert.Equal(t, []string{"main.py"}, sum.Structure)
	assert.Equal(t, []classify.Language{classify.Python}, sum.Languages)
}

func TestLocalScan_SkipsIgnoredPathsSilently(t *testing.T) {
	sum := scanLocal(t, Config{},
		mem("node_modules/react/index.js", "module.exports = {}"),
		mem("web/node_modules/x/y.js", "x"),
		mem(".git/HEAD", "ref: refs/heads/main"),
		mem("package-lock.json", "{}"),
		mem("src/index.js", "export {}"),
	)

	assert.Equal(t, []string{"src/index.js"}, sum.Structure)
	assert.Empty(t, sum.Warnings)
	assert.Equal(t, 1, sum.FileCount)
}

func TestLocalScan_FileLimitWarnsOnce(t *testing.T) {
	var files []File
	for i := 0; i < 105; i++ {
		files = append(files, mem(fmt.Sprintf("src/f%03d.txt", i), "x"))
	}

	sum := scanLocal(t, Config{}, files...)

	assert.Len(t, sum.Structure, 100)
	assert.Len(t, sum.Files, 100)
	assert.Equal(t, 100, sum.FileCount)
	assert.NotContains(t, sum.Structure, "src/f100.txt")
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], "File limit reached")
}

func TestLocalScan_ExactlyAtLimitDoesNotWarn(t *testing.T) {
	var files []File
	for i := 0; i < 100; i++ {
		files = append(files, mem(fmt.Sprintf("f%03d.txt", i), "x"))
	}

	sum := scanLocal(t, Config{}, files...)

	assert.Len(t, sum.Structure, 100)
	assert.Empty(t, sum.Warnings)
}

func TestLocalScan_IgnoredFilesDoNotCountTowardLimit(t *testing.T) {
	cfg := Config{Limits: Limits{MaxFiles: 2, MaxFileSize: 1024, MaxContentFetches: 1}}
	sum := scanLocal(t, cfg,
		mem("a.js", "1"),
		mem("dist/a.js", "1"),
		mem("dist/b.js", "1"),
		mem("z.js", "1"),
	)

	assert.Equal(t, []string{"a.js", "z.js"}, sum.Structure)
	assert.Empty(t, sum.Warnings)
}

func TestLocalScan_SizeCapBoundary(t *testing.T) {
	atCap := &MemFile{RelPath: "at.txt", Content: "x", SizeOverride: 100 * 1024}
	overCap := &MemFile{RelPath: "over.txt", Content: "x", SizeOverride: 100*1024 + 1}

	sum := scanLocal(t, Config{}, atCap, overCap)

	assert.Equal(t, []string{"at.txt", "over.txt"}, sum.Structure)
	assert.Equal(t, int64(200*1024+1), sum.TotalSize)
	require.Len(t, sum.Files, 1)
	assert.Equal(t, "at.txt", sum.Files[0].Path)
	assert.Equal(t, 1, sum.FileCount)
	assert.Equal(t, []string{"Skipped over.txt: file too large (100.0 KB)"}, sum.Warnings)
}

func TestLocalScan_ReadFailureIsWarning(t *testing.T) {
	broken := &MemFile{RelPath: "src/broken.ts", SizeOverride: 10, Err: errors.New("permission denied")}

	sum := scanLocal(t, Config{}, broken, mem("src/ok.ts", "let a = 1;"))

	assert.Equal(t, []string{"src/broken.ts", "src/ok.ts"}, sum.Structure)
	assert.Equal(t, []string{"Failed to read src/broken.ts: permission denied"}, sum.Warnings)
	assert.Equal(t, 1, sum.FileCount)
	assert.Len(t, sum.Files, 1)
}

type blockingFile struct{ MemFile }

func (b *blockingFile) ReadText(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestLocalScan_ReadTimeoutIsWarning(t *testing.T) {
	slow := &blockingFile{MemFile{RelPath: "slow.js", SizeOverride: 3}}
	cfg := Config{ReadTimeout: 10 * time.Millisecond}

	sum := scanLocal(t, cfg, slow)

	require.Len(t, sum.Warnings, 1)
	assert.True(t, strings.HasPrefix(sum.Warnings[0], "Failed to read slow.js: "))
	assert.Contains(t, sum.Warnings[0], "deadline exceeded")
	assert.Equal(t, 0, sum.FileCount)
}

func TestLocalScan_DetectsFrameworksFromPackageJSON(t *testing.T) {
	sum := scanLocal(t, Config{},
		mem("package.json", `{"dependencies": {"react": "^18.0.0"}}`),
		mem("web/package.json", `{"devDependencies": {"react": "^18.0.0", "vite": "5.0.0"}}`),
		mem("broken/package.json", `{"dependencies": `),
	)

	assert.Equal(t, []classify.Framework{classify.React, classify.Vite}, sum.Frameworks)
	assert.Empty(t, sum.Warnings)
}

func TestLocalScan_PatternIssuesArePathPrefixed(t *testing.T) {
	sum := scanLocal(t, Config{},
		mem("app/main.py", "try:\n    go()\nexcept:\n    pass\n"),
		mem("src/a.ts", "let x: any = 5;\n"),
	)

	require.Len(t, sum.Errors, 2)
	assert.Equal(t, "app/main.py: Bare except clause detected", sum.Errors[0])
	assert.Contains(t, sum.Errors[1], "'any' type usage detected")
	for _, e := range sum.Errors {
		path := e[:strings.Index(e, ": ")]
		assert.Contains(t, sum.Structure, path)
	}
}

func TestLocalScan_Idempotent(t *testing.T) {
	files := []File{
		mem("src/b.js", "var a = 1; console.error(a)"),
		mem("package.json", `{"dependencies": {"express": "4"}}`),
		&MemFile{RelPath: "big.bin", SizeOverride: 1 << 20},
	}

	first := scanLocal(t, Config{}, files...)
	second := scanLocal(t, Config{}, files...)

	assert.Equal(t, first, second)
}

func TestLocalScan_EmptyInput(t *testing.T) {
	sum := scanLocal(t, Config{})

	assert.NotNil(t, sum.Files)
	assert.NotNil(t, sum.Structure)
	assert.Equal(t, 0, sum.FileCount)
	assert.Equal(t, int64(0), sum.TotalSize)
}

func TestLocalScan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal(Config{}, []File{mem("a.js", "1")}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect(t *testing.T) {
	src := NewSliceSource(mem("a", "1"), mem("b", "2"))

	files, err := Collect(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = Collect(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, files)
}
