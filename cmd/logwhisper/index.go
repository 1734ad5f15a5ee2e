package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"logwhisper/internal/chunker"
	"logwhisper/internal/index"
	"logwhisper/internal/llm"
	"logwhisper/internal/logfile"
)

var (
	indexLogFile string
	indexForce   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build (or rebuild) the retrieval index for a log file",
	Long: `Builds the retrieval index up front so the first chat question does not
pay the embedding cost. With --force the cached artifact is rebuilt and
overwritten even when it is up to date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		client, err := llm.New(llm.Config{
			BaseURL:        cfg.Provider.BaseURL,
			APIKeyEnv:      cfg.Provider.APIKeyEnv,
			ChatModel:      cfg.Provider.ChatModel,
			EmbeddingModel: cfg.Provider.EmbeddingModel,
			Timeout:        time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return err
		}
		doc, err := logfile.Load(indexLogFile)
		if err != nil {
			return err
		}
		ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		if err != nil {
			return fmt.Errorf("chunker config: %w", err)
		}
		dir, err := cacheDir(cfg)
		if err != nil {
			return err
		}
		manager := index.NewManager(dir, ch, client, cfg.Provider.BatchSize)

		res, err := manager.LoadOrBuild(cmd.Context(), doc, indexForce)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		for _, w := range res.Warnings {
			slog.Warn(w)
		}
		if res.FromCache {
			fmt.Printf("Index up to date: %d chunks (fingerprint %.12s)\n",
				len(res.Artifact.Chunks), res.Artifact.Fingerprint)
			return nil
		}
		fmt.Printf("Indexed %s: %d chunks, dimension %d (fingerprint %.12s)\n",
			doc.Path, len(res.Artifact.Chunks), res.Artifact.Dimension, res.Artifact.Fingerprint)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexLogFile, "log-file", "", "path to the log file to index")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even if a cached artifact exists")
	_ = indexCmd.MarkFlagRequired("log-file")
}
