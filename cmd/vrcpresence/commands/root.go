package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/livp123/vrcpresence/internal/config"
	"github.com/livp123/vrcpresence/internal/runtime"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	apperrors "github.com/livp123/vrcpresence/pkg/errors"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "vrcpresence",
	Short: "Report who is in your VRChat instance",
	// Short: 报告当前 VRChat 实例中的玩家
	Long: `vrcpresence reads the newest VRChat client log, keeps track of the players
present in the current instance and forwards joins, leaves and full snapshots
to a remote subscriber over websocket or NATS.
vrcpresence 读取最新的 VRChat 客户端日志，跟踪当前实例中的玩家，
并通过 websocket 或 NATS 将加入、离开事件和完整快照转发给远程订阅者。`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration to get logging settings
		// 加载配置以获取日志设置
		cfg, _, err := loadConfig()
		if err != nil {
			// If config fails to load, use default logging config (console only)
			// 如果加载配置失败，使用默认日志配置（仅控制台）
			logger.Init(logger.LoggingConfig{
				Enabled: true,
				Level:   "info",
			})
		} else {
			logger.Init(cfg.Logging)
		}

		// Inject logger into context
		// 将 Logger 注入 Context
		ctx := logger.WithContext(cmd.Context(), logger.Get(nil))
		cmd.SetContext(ctx)
	},
}

func init() {
	// Config file path
	// 配置文件路径
	RootCmd.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))

	// Explicit log file, skipping discovery
	// 显式指定日志文件，跳过自动发现
	RootCmd.PersistentFlags().StringVarP(&runtime.LogFile, "log-file", "f", "", "Read this log file instead of the newest one in watcher.log_dir")

	RootCmd.AddCommand(RunCmd)
	RootCmd.AddCommand(ReplayCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(VersionCmd)

	RootCmd.CompletionOptions.DisableDescriptions = true
}

// loadConfig loads the configured file and returns the path it came from.
// A missing default file yields the built-in defaults and an empty path; a
// missing explicit file is an error.
// loadConfig 加载配置文件并返回其路径。默认文件不存在时使用内置默认值且路径为空；
// 显式指定的文件不存在则报错。
func loadConfig() (*config.Config, string, error) {
	path := runtime.ConfigPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, apperrors.ErrConfigNotFound) {
			return nil, "", err
		}
		cfg = config.Default()
		path = ""
	}

	if runtime.LogFile != "" {
		cfg.Watcher.LogFile = runtime.LogFile
	}
	return cfg, path, nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
