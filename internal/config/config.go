package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/livp123/vrcpresence/internal/utils/fileutil"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigTemplate is written by `vrcpresence init`.
// DefaultConfigTemplate 由 `vrcpresence init` 写入。
const DefaultConfigTemplate = `# vrcpresence Configuration File / vrcpresence 配置文件

# Log Watcher / 日志监视器
watcher:
  # Directory holding the VRChat client logs. Empty means the default
  # %USERPROFILE%\AppData\LocalLow\VRChat\VRChat location.
  # VRChat 客户端日志目录。为空时使用默认位置。
  log_dir: ""

  # Explicit log file. Overrides discovery when set.
  # 指定日志文件。设置后不再自动选择。
  log_file: ""

  # Only files whose name contains this substring are candidates; newest wins.
  # 仅文件名包含该子字符串的文件为候选，选择最新修改的文件。
  pattern: "output_log"

  # IANA time zone of the log timestamps. Empty means the local zone.
  # 日志时间戳的时区。为空表示本地时区。
  timezone: ""

  # How long to wait for a connected subscriber before tailing. "0" waits forever.
  # 开始实时跟踪前等待订阅者连接的时间。"0" 表示一直等待。
  ready_timeout: "0"

  # Resend the snapshot on every reconnect even when nobody is present.
  # 即使没有玩家在线，每次重连时也重新发送快照。
  always_resync: false

  # Poll the file instead of using filesystem notifications.
  # 使用轮询代替文件系统通知。
  poll: false

  # Optional filter expression over kind, identifier and timestamp.
  # 可选的事件过滤表达式（kind, identifier, timestamp）。
  # Example / 示例: 'not (identifier startsWith "bot_")'
  filter: ""

# WebSocket Subscriber / WebSocket 订阅者
websocket:
  enabled: true
  url: "wss://bot.fpdr.space/ws"
  min_backoff: "1s"
  max_backoff: "30s"
  queue_size: 256
  write_timeout: "10s"

# NATS Subscriber / NATS 订阅者
nats:
  enabled: false
  url: "nats://127.0.0.1:4222"
  subject_prefix: "vrc"
  name: "vrcpresence"

# Status API and Prometheus metrics / 状态 API 与 Prometheus 指标
web:
  enabled: false
  port: 11911

# Logging / 日志
logging:
  enabled: false
  level: "info"
  path: "logs/vrcpresence.log"
  max_size: 10
  max_backups: 3
  max_age: 30
  compress: true
`

// Config is the root configuration.
// Config 是根配置。
type Config struct {
	Watcher   WatcherConfig        `yaml:"watcher"`
	WebSocket WebSocketConfig      `yaml:"websocket"`
	NATS      NATSConfig           `yaml:"nats"`
	Web       WebConfig            `yaml:"web"`
	Logging   logger.LoggingConfig `yaml:"logging"`
}

// WatcherConfig defines where the log lives and how it is read.
// WatcherConfig 定义日志位置以及读取方式。
type WatcherConfig struct {
	LogDir  string `yaml:"log_dir"`
	LogFile string `yaml:"log_file"`
	Pattern string `yaml:"pattern"`
	// Timezone: 日志时间戳时区（IANA 名称）
	Timezone string `yaml:"timezone"`
	// ReadyTimeout: 等待订阅者就绪的时间（"0" 表示一直等待）
	ReadyTimeout string `yaml:"ready_timeout"`
	AlwaysResync bool   `yaml:"always_resync"`
	Poll         bool   `yaml:"poll"`
	Filter       string `yaml:"filter"`
}

// WebSocketConfig defines the websocket subscriber connection.
// WebSocketConfig 定义 WebSocket 订阅者连接。
type WebSocketConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	MinBackoff   string `yaml:"min_backoff"`
	MaxBackoff   string `yaml:"max_backoff"`
	QueueSize    int    `yaml:"queue_size"`
	WriteTimeout string `yaml:"write_timeout"`
}

// NATSConfig defines the NATS subscriber connection.
// NATSConfig 定义 NATS 订阅者连接。
type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
	Name          string `yaml:"name"`
}

// WebConfig defines the local status API.
// WebConfig 定义本地状态 API。
type WebConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Default returns the configuration used when no file is present.
// Default 返回没有配置文件时使用的配置。
func Default() *Config {
	return &Config{
		Watcher: WatcherConfig{
			LogDir:       DefaultLogDir(),
			Pattern:      DefaultLogPattern,
			ReadyTimeout: "0",
		},
		WebSocket: WebSocketConfig{
			Enabled:      true,
			URL:          DefaultWebSocketURL,
			MinBackoff:   "1s",
			MaxBackoff:   "30s",
			QueueSize:    DefaultQueueSize,
			WriteTimeout: "10s",
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: DefaultSubjectPrefix,
			Name:          "vrcpresence",
		},
		Web: WebConfig{
			Port: DefaultWebPort,
		},
		Logging: logger.LoggingConfig{
			Level:      "info",
			Path:       "logs/vrcpresence.log",
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			MaxAge:     30, // 30 days
			Compress:   true,
		},
	}
}

// DefaultLogDir returns the VRChat client log directory of the current user.
// DefaultLogDir 返回当前用户的 VRChat 客户端日志目录。
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "AppData", "LocalLow", "VRChat", "VRChat")
}

// Load loads the configuration from a YAML file.
// Load 从 YAML 文件加载配置。
func Load(path string) (*Config, error) {
	safePath := filepath.Clean(path)
	data, err := os.ReadFile(safePath) // #nosec G304 // path is sanitized with filepath.Clean
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, safePath)
		}
		return nil, err
	}

	// Initialize with defaults / 使用默认值初始化
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", safePath, err)
	}
	if cfg.Watcher.LogDir == "" {
		cfg.Watcher.LogDir = DefaultLogDir()
	}
	if cfg.Watcher.Pattern == "" {
		cfg.Watcher.Pattern = DefaultLogPattern
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration atomically.
// Save 以原子方式写入配置。
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, 0600)
}

// WriteDefault writes DefaultConfigTemplate to path unless a file already exists.
// WriteDefault 将默认模板写入 path，已存在时不覆盖。
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return fileutil.AtomicWriteFile(path, []byte(DefaultConfigTemplate), 0600)
}

// ReadyTimeoutDuration returns the parsed ready timeout; zero means wait forever.
func (w WatcherConfig) ReadyTimeoutDuration() time.Duration {
	return parseDuration(w.ReadyTimeout, 0)
}

// Location returns the time zone used for log timestamps.
func (w WatcherConfig) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(w.Timezone)
}

func (w WebSocketConfig) MinBackoffDuration() time.Duration {
	return parseDuration(w.MinBackoff, time.Second)
}

func (w WebSocketConfig) MaxBackoffDuration() time.Duration {
	return parseDuration(w.MaxBackoff, 30*time.Second)
}

func (w WebSocketConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(w.WriteTimeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
