package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logwhisper/internal/config"
)

var (
	confBaseURL        string
	confAPIKeyEnv      string
	confChatModel      string
	confEmbeddingModel string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write provider settings to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if confBaseURL != "" {
			cfg.Provider.BaseURL = confBaseURL
		}
		if confAPIKeyEnv != "" {
			cfg.Provider.APIKeyEnv = confAPIKeyEnv
		}
		if confChatModel != "" {
			cfg.Provider.ChatModel = confChatModel
		}
		if confEmbeddingModel != "" {
			cfg.Provider.EmbeddingModel = confEmbeddingModel
		}
		if path == "" {
			path, err = config.DefaultUserConfigPath()
			if err != nil {
				return err
			}
		}
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&confBaseURL, "base-url", "", "OpenAI-compatible API base URL")
	configureCmd.Flags().StringVar(&confAPIKeyEnv, "api-key-env", "", "environment variable holding the API key")
	configureCmd.Flags().StringVar(&confChatModel, "chat-model", "", "chat model name")
	configureCmd.Flags().StringVar(&confEmbeddingModel, "embedding-model", "", "embedding model name")
}
