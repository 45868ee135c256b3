package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAtomicWriteFile tests atomic file writing
// TestAtomicWriteFile 测试原子文件写入
func TestAtomicWriteFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, AtomicWriteFile(testFile, []byte("hello world"), 0644))
	content, err := os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))

	// Test overwrite
	// 测试覆盖写入
	require.NoError(t, AtomicWriteFile(testFile, []byte("new content"), 0644))
	content, err = os.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(content))

	// No temp files left behind
	// 不留下临时文件
	entries, err := os.ReadDir(filepath.Dir(testFile))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestListMatching tests substring filtering of directory entries
// TestListMatching 测试目录条目的子字符串过滤
func TestListMatching(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"output_log_01.txt", "output_log_02.txt", "player.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "output_log_dir"), 0755))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "output_log_01.txt"), old, old))

	files, err := ListMatching(dir, "output_log")
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := []string{filepath.Base(files[0].Path), filepath.Base(files[1].Path)}
	assert.ElementsMatch(t, []string{"output_log_01.txt", "output_log_02.txt"}, names)
	for _, f := range files {
		assert.Equal(t, int64(1), f.Size)
	}
}

// TestListMatching_MissingDir tests that a missing directory is an error
// TestListMatching_MissingDir 测试目录不存在时返回错误
func TestListMatching_MissingDir(t *testing.T) {
	_, err := ListMatching(filepath.Join(t.TempDir(), "nope"), "output_log")
	assert.Error(t, err)
}
