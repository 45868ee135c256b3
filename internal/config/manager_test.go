package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManager_Reload tests that a valid file replaces the active config
// TestManager_Reload 测试有效文件会替换当前配置
func TestManager_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrcpresence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watcher:\n  log_dir: /logs\n"), 0600))

	initial, err := Load(path)
	require.NoError(t, err)
	m := NewManager(path, initial)
	assert.Equal(t, path, m.Path())
	assert.Equal(t, "", m.Get().Watcher.Filter)

	require.NoError(t, os.WriteFile(path, []byte("watcher:\n  log_dir: /logs\n  filter: 'kind == \"connect\"'\n"), 0600))
	cfg, err := m.Reload()
	require.NoError(t, err)
	assert.Equal(t, `kind == "connect"`, cfg.Watcher.Filter)
	assert.Equal(t, `kind == "connect"`, m.Get().Watcher.Filter)
}

// TestManager_ReloadInvalid tests that a broken file keeps the previous config
// TestManager_ReloadInvalid 测试损坏的文件会保留之前的配置
func TestManager_ReloadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrcpresence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watcher:\n  log_dir: /logs\n"), 0600))
	initial, err := Load(path)
	require.NoError(t, err)
	m := NewManager(path, initial)

	require.NoError(t, os.WriteFile(path, []byte("watcher:\n  log_dir: /other\nweb:\n  enabled: true\n  port: 0\n"), 0600))
	_, err = m.Reload()
	assert.True(t, errors.Is(err, apperrors.ErrConfigInvalid))
	assert.Equal(t, "/logs", m.Get().Watcher.LogDir)
}

// TestManager_NoFile tests a manager built from defaults
// TestManager_NoFile 测试基于默认值构建的管理器
func TestManager_NoFile(t *testing.T) {
	m := NewManager("", Default())
	_, err := m.Reload()
	assert.True(t, errors.Is(err, apperrors.ErrConfigNotFound))

	cfg := m.Get()
	cfg.Web.Port = 1
	assert.Equal(t, DefaultWebPort, m.Get().Web.Port)

	assert.Nil(t, NewManager("", nil).Get())
}
