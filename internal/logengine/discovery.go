package logengine

import (
	"fmt"
	"os"

	"github.com/livp123/vrcpresence/internal/utils/fileutil"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

// Locator resolves the one log file the engine reads.
// Locator 解析引擎读取的唯一日志文件。
type Locator interface {
	Locate() (string, error)
}

// DirLocator picks the most recently modified file in Dir whose name contains Pattern.
// DirLocator 在 Dir 中选择文件名包含 Pattern 且最近修改的文件。
type DirLocator struct {
	Dir     string
	Pattern string
}

// Locate implements Locator. Equal modification times fall back to the greater path.
func (l DirLocator) Locate() (string, error) {
	files, err := fileutil.ListMatching(l.Dir, l.Pattern)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrNoLogSource, l.Dir, err)
	}
	if len(files) == 0 {
		return "", apperrors.NewNoLogSourceError(l.Dir, l.Pattern)
	}

	newest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(newest.ModTime) || (f.ModTime.Equal(newest.ModTime) && f.Path > newest.Path) {
			newest = f
		}
	}
	return newest.Path, nil
}

// FileLocator always resolves to one explicit path, which must exist.
// FileLocator 总是解析为一个指定路径，该路径必须存在。
type FileLocator string

// Locate implements Locator.
func (l FileLocator) Locate() (string, error) {
	info, err := os.Stat(string(l))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrNoLogSource, string(l), err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", apperrors.ErrNoLogSource, string(l))
	}
	return string(l), nil
}

// NewLocator returns a FileLocator when file is set, otherwise a DirLocator.
// NewLocator 在指定 file 时返回 FileLocator，否则返回 DirLocator。
func NewLocator(dir, file, pattern string) Locator {
	if file != "" {
		return FileLocator(file)
	}
	return DirLocator{Dir: dir, Pattern: pattern}
}
