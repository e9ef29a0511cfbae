// Package commands 实现 lightaichat 的 cobra 子命令。
package commands

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCommand 构建根命令及全部子命令
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lightaichat",
		Short: "Chat with OpenAI, DeepSeek, Wenxin, Spark, DashScope, SiliconFlow and Volcano Ark models",
		Long: `lightaichat sends a conversation to the configured model provider and prints the reply.

Settings come from a YAML/JSON/TOML file (--config) and LIGHTAICHAT_* environment
variables, e.g. LIGHTAICHAT_MODEL_PROVIDER=deepseek LIGHTAICHAT_MODEL_APIKEY=sk-...
A .env file in the working directory is loaded first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env 不存在时忽略
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./lightaichat.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error), overrides log.level")

	root.AddCommand(
		newChatCommand(a),
		newProbeCommand(a),
		newProvidersCommand(a),
		newVersionCommand(),
	)
	return root
}
