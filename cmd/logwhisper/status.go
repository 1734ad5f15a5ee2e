package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"logwhisper/internal/chunker"
	"logwhisper/internal/index"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current configuration and index cache state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Printf("Config file:      %s\n", path)
		fmt.Printf("Base URL:         %s\n", cfg.Provider.BaseURL)
		fmt.Printf("Chat model:       %s\n", cfg.Provider.ChatModel)
		fmt.Printf("Embedding model:  %s\n", cfg.Provider.EmbeddingModel)
		if os.Getenv(cfg.Provider.APIKeyEnv) == "" {
			fmt.Printf("API key:          not set (%s)\n", cfg.Provider.APIKeyEnv)
		} else {
			fmt.Printf("API key:          set (%s)\n", cfg.Provider.APIKeyEnv)
		}
		fmt.Printf("Chunking:         size %d, overlap %d\n", cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		fmt.Printf("Retrieval:        top-k %d, history window %d\n", cfg.Retrieval.TopK, cfg.Retrieval.HistoryWindow)

		dir, err := cacheDir(cfg)
		if err != nil {
			return err
		}
		ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		if err != nil {
			return fmt.Errorf("chunker config: %w", err)
		}
		manager := index.NewManager(dir, ch, nil, cfg.Provider.BatchSize)
		count, bytes, err := manager.Stats()
		if err != nil {
			return fmt.Errorf("inspect cache: %w", err)
		}
		fmt.Printf("Index cache:      %s (%d artifacts, %d bytes)\n", dir, count, bytes)
		return nil
	},
}
