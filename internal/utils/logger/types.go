package logger

// LoggingConfig defines the configuration for logging.
// LoggingConfig 定义日志配置。
type LoggingConfig struct {
	// Enabled: 是否写入日志文件（stdout 始终输出）
	Enabled bool `yaml:"enabled"`
	// Level: 日志级别（debug, info, warn, error）
	Level string `yaml:"level"`
	// Path: 日志文件路径
	Path string `yaml:"path"`
	// MaxSize: 轮转前的最大大小（MB）
	MaxSize int `yaml:"max_size"`
	// MaxBackups: 保留的旧文件最大数量
	MaxBackups int `yaml:"max_backups"`
	// MaxAge: 保留旧文件的最大天数
	MaxAge int `yaml:"max_age"`
	// Compress: 是否压缩旧文件
	Compress bool `yaml:"compress"`
}
