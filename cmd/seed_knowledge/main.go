package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"diacare-bot/internal/config"
	"diacare-bot/internal/repository/memory"
	"diacare-bot/pkg/filesearch"
	"diacare-bot/pkg/genai"
)

// Seeds the shared knowledge base store from a local documents directory.
// Files already present (matched by display name) are skipped, so the
// command is safe to re-run.
func main() {
	dir := flag.String("dir", "documents", "directory of markdown documents to upload")
	flag.Parse()

	cfg := config.Load()
	if cfg.Keys.GoogleGemini == "" {
		color.Red("GOOGLE_API_KEY is not set")
		os.Exit(1)
	}

	ctx := context.Background()

	client := genai.NewClient(cfg.Keys.GoogleGemini, cfg.Ai.Model, cfg.Ai.GenerateTimeout)
	resolver := filesearch.NewResolver(client, memory.NewStoreCache())
	manager := filesearch.NewManager(client, resolver, filesearch.PollPolicy{
		Interval: cfg.Upload.PollInterval,
		MaxWait:  cfg.Upload.MaxWait,
	})

	color.Cyan("🚀 Seeding knowledge base %q from %s\n", cfg.Ai.KnowledgeBaseName, *dir)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		color.Red("Failed to read %s: %v", *dir, err)
		os.Exit(1)
	}

	existing, err := manager.List(ctx, cfg.Ai.KnowledgeBaseName)
	if err != nil {
		color.Red("Failed to list existing documents: %v", err)
		os.Exit(1)
	}
	present := make(map[string]bool, len(existing))
	for _, doc := range existing {
		present[doc.DisplayName] = true
	}

	var uploaded, skipped, failed int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}

		if present[name] {
			color.Yellow("⏭  %s (already uploaded)", name)
			skipped++
			continue
		}

		data, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			color.Red("✗ %s: %v", name, err)
			failed++
			continue
		}

		fmt.Printf("Uploading %s (%d bytes)...\n", name, len(data))
		if err := manager.Upload(ctx, cfg.Ai.KnowledgeBaseName, name, data); err != nil {
			color.Red("✗ %s: %v", name, err)
			failed++
			continue
		}
		color.Green("✓ %s", name)
		uploaded++
	}

	color.Cyan("\nDone: %d uploaded, %d skipped, %d failed", uploaded, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
