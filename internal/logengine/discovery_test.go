package logengine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

// TestDirLocator_Newest tests that the most recently modified match wins
// TestDirLocator_Newest 测试选择最近修改的匹配文件
func TestDirLocator_Newest(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "output_log_2024-01-01.txt", "", t0)
	newest := writeLog(t, dir, "output_log_2024-01-02.txt", "", t0.Add(time.Hour))
	writeLog(t, dir, "Player.log", "", t0.Add(2*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "output_log_dir"), 0755))

	path, err := DirLocator{Dir: dir, Pattern: "output_log"}.Locate()
	require.NoError(t, err)
	assert.Equal(t, newest, path)
}

// TestDirLocator_Tie tests that equal mtimes resolve to the greater path
// TestDirLocator_Tie 测试修改时间相同时选择路径较大者
func TestDirLocator_Tie(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "output_log_a.txt", "", t0)
	b := writeLog(t, dir, "output_log_b.txt", "", t0)

	for i := 0; i < 5; i++ {
		path, err := DirLocator{Dir: dir, Pattern: "output_log"}.Locate()
		require.NoError(t, err)
		assert.Equal(t, b, path)
	}
}

// TestDirLocator_None tests the missing log source error
// TestDirLocator_None 测试日志源缺失错误
func TestDirLocator_None(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "Player.log", "", t0)

	_, err := DirLocator{Dir: dir, Pattern: "output_log"}.Locate()
	assert.True(t, errors.Is(err, apperrors.ErrNoLogSource))

	_, err = DirLocator{Dir: filepath.Join(dir, "missing"), Pattern: "output_log"}.Locate()
	assert.True(t, errors.Is(err, apperrors.ErrNoLogSource))
}

// TestFileLocator tests explicit file selection
// TestFileLocator 测试显式指定文件
func TestFileLocator(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "custom.txt", "", t0)

	got, err := NewLocator(dir, path, "output_log").Locate()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = FileLocator(filepath.Join(dir, "nope.txt")).Locate()
	assert.True(t, errors.Is(err, apperrors.ErrNoLogSource))

	_, err = FileLocator(dir).Locate()
	assert.True(t, errors.Is(err, apperrors.ErrNoLogSource))

	_, ok := NewLocator(dir, "", "output_log").(DirLocator)
	assert.True(t, ok)
}
