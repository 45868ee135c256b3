package config

const (
	// DefaultConfigPath is the config file read when --config is not given.
	// DefaultConfigPath 是未指定 --config 时读取的配置文件。
	DefaultConfigPath = "vrcpresence.yaml"

	// DefaultLogPattern is the substring every VRChat client log file name contains.
	// DefaultLogPattern 是 VRChat 客户端日志文件名中包含的子字符串。
	DefaultLogPattern = "output_log"

	// DefaultWebSocketURL is the remote subscriber endpoint.
	// DefaultWebSocketURL 是远程订阅者的端点。
	DefaultWebSocketURL = "wss://bot.fpdr.space/ws"

	DefaultSubjectPrefix = "vrc"
	DefaultWebPort       = 11911
	DefaultQueueSize     = 256
)
