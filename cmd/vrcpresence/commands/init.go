package commands

import (
	"fmt"

	"github.com/livp123/vrcpresence/internal/config"
	"github.com/livp123/vrcpresence/internal/runtime"
	"github.com/spf13/cobra"
)

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	// Short: 写入默认配置文件
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := runtime.ConfigPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		force, _ := cmd.Flags().GetBool("force")
		if err := config.WriteDefault(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
