package main

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"logwhisper/internal/chunker"
	"logwhisper/internal/conversation"
	"logwhisper/internal/index"
	"logwhisper/internal/llm"
	"logwhisper/internal/logfile"
	"logwhisper/internal/pipeline"
	"logwhisper/internal/session"
	"logwhisper/internal/summarizer"
	"logwhisper/internal/tui"
)

var (
	chatLogFile  string
	chatSavePath string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session over a log file",
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

		doc, err := logfile.Load(chatLogFile)
		if err != nil {
			return err
		}
		slog.Debug("loaded log file", "path", doc.Path, "bytes", doc.Size)

		ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		if err != nil {
			return fmt.Errorf("chunker config: %w", err)
		}
		dir, err := cacheDir(cfg)
		if err != nil {
			return err
		}
		manager := index.NewManager(dir, ch, client, cfg.Provider.BatchSize)
		answerer := pipeline.New(client, client, manager, doc, cfg.Retrieval.TopK, cfg.Retrieval.HistoryWindow)

		store, warnings := conversation.Open(chatSavePath, doc.Path)
		for _, w := range warnings {
			slog.Warn(w)
		}
		if store.Len() > 0 {
			slog.Debug("restored previous conversation", "entries", store.Len())
		}

		loop := session.New(doc, answerer, store, slog.Default())
		summary := summarizer.NewFrequencySummarizer().Summarize(doc.Content, cfg.Summary.MaxSentences)

		if _, err := tea.NewProgram(tui.New(loop, summary)).Run(); err != nil {
			loop.Close()
			return err
		}
		// The TUI closes the loop on every exit path; this is a backstop
		// for exits it did not see.
		loop.Close()
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "path to the log file to analyze")
	chatCmd.Flags().StringVar(&chatSavePath, "save", "", "path to save the conversation (optional)")
	_ = chatCmd.MarkFlagRequired("log-file")
}
