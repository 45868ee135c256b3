package runtime

// ConfigPath stores the path to the configuration file provided via CLI flags.
// ConfigPath 存储通过 CLI 标志提供的配置文件路径。
var ConfigPath string

// LogFile overrides watcher.log_file when set via CLI flags.
// LogFile 通过 CLI 标志设置时覆盖 watcher.log_file。
var LogFile string
