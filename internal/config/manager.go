package config

import (
	"fmt"
	"sync"

	apperrors "github.com/livp123/vrcpresence/pkg/errors"
)

// Manager holds the active configuration and reloads it from disk on request.
// Manager 持有当前配置，并在需要时从磁盘重新加载。
type Manager struct {
	configPath string
	mutex      sync.RWMutex
	config     *Config
}

// NewManager creates a manager around an already loaded configuration.
// An empty path means the configuration did not come from a file and cannot be reloaded.
// NewManager 基于已加载的配置创建管理器。路径为空表示配置并非来自文件，无法重新加载。
func NewManager(configPath string, initial *Config) *Manager {
	return &Manager{
		configPath: configPath,
		config:     initial,
	}
}

// Reload reads the file again. The active configuration is replaced only
// when the new one loads and validates.
// Reload 重新读取文件。只有新配置加载并验证通过后才会替换当前配置。
func (m *Manager) Reload() (*Config, error) {
	if m.configPath == "" {
		return nil, fmt.Errorf("%w: no config file to reload", apperrors.ErrConfigNotFound)
	}
	cfg, err := Load(m.configPath)
	if err != nil {
		return nil, err
	}

	m.mutex.Lock()
	m.config = cfg
	m.mutex.Unlock()
	return m.Get(), nil
}

// Get returns a copy of the current configuration
// Get 返回当前配置的副本
func (m *Manager) Get() *Config {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return nil
	}

	// Return a copy to prevent external modifications
	cfgCopy := *m.config
	return &cfgCopy
}

// Path returns the file the configuration was loaded from.
func (m *Manager) Path() string {
	return m.configPath
}
