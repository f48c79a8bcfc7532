package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/scan"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func collectPaths(t *testing.T, root string, opts Options) []string {
	t.Helper()
	files, err := scan.Collect(context.Background(), NewDirSource(context.Background(), root, opts))
	require.NoError(t, err)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path())
	}
	sort.Strings(paths)
	return paths
}

func TestWalk_RelativeSlashPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "src/app/index.ts", "export {}")
	writeFile(t, root, "node_modules/react/index.js", "x")
	writeFile(t, root, ".git/HEAD", "ref")

	paths := collectPaths(t, root, Options{})

	assert.Equal(t, []string{"main.go", "src/app/index.ts"}, paths)
}

func TestWalk_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n*.log\n")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "debug.log", "noise")
	writeFile(t, root, "generated/types.ts", "export {}")

	assert.Equal(t, []string{".gitignore", "main.go"}, collectPaths(t, root, Options{RespectGitignore: true}))
	assert.Equal(t, []string{".gitignore", "debug.log", "generated/types.ts", "main.go"}, collectPaths(t, root, Options{}))
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "real.txt", "data")
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	assert.Equal(t, []string{"real.txt"}, collectPaths(t, root, Options{}))
}

func TestWalk_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")

	_, err := scan.Collect(context.Background(), NewDirSource(context.Background(), filepath.Join(root, "file.txt"), Options{}))
	assert.Error(t, err)
}

func TestDiskFile_ReadText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b.txt", "hello")

	files, err := scan.Collect(context.Background(), NewDirSource(context.Background(), root, Options{}))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "a/b.txt", f.Path())
	assert.Equal(t, "b.txt", f.Name())
	assert.Equal(t, int64(5), f.Size())

	text, err := f.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.ReadText(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalk_FeedsLocalScanner(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"dependencies": {"react": "18"}}`)
	writeFile(t, root, "src/a.ts", "let x: any = 1;")

	files, err := scan.Collect(context.Background(), NewDirSource(context.Background(), root, Options{}))
	require.NoError(t, err)

	sum, err := scan.NewLocal(scan.Config{}, files).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "src/a.ts"}, sum.Structure)
	assert.Equal(t, 2, sum.FileCount)
	assert.Len(t, sum.Frameworks, 1)
}
