package commands

import (
	"github.com/livp123/vrcpresence/internal/config"
	"github.com/livp123/vrcpresence/internal/daemon"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	"github.com/livp123/vrcpresence/internal/version"
	"github.com/spf13/cobra"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay the newest log, then tail it and forward presence",
	// Short: 回放最新日志，然后实时跟踪并转发在线状态
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		logger.Get(cmd.Context()).Infof("Starting vrcpresence %s", version.Version)
		return daemon.Run(cmd.Context(), config.NewManager(path, cfg))
	},
}
