package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"animediary/database"
	"animediary/internal/api/repository"
	"animediary/internal/api/service"
	"animediary/internal/config"
	"animediary/internal/ingestion/jikan"
)

// catalog-sync seeds or refreshes the local anime table from the Jikan
// catalog. Each query runs through the same search-upsert path the API
// uses, so repeated runs refresh score/episodes/status without clobbering
// titles or synopses.
func main() {
	limit := flag.Int("limit", 12, "max results per query")
	flag.Parse()

	queries := flag.Args()
	if len(queries) == 0 {
		slog.Error("usage: catalog-sync [-limit n] <query> [query...]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	gdb, err := database.OpenGorm(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(gdb, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	client := jikan.NewClient(cfg.JikanAPIURL, cfg.JikanAPITimeout)
	animeSvc := service.NewAnimeService(repository.NewAnimeRepo(gdb), client)

	total := 0
	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}
		saved, err := animeSvc.Search(ctx, query, *limit)
		if err != nil {
			logger.Error("sync query failed", "query", query, "error", err)
			os.Exit(1)
		}
		titles := make([]string, 0, len(saved))
		for _, a := range saved {
			titles = append(titles, a.Title)
		}
		logger.Info("query synced", "query", query, "count", len(saved), "titles", strings.Join(titles, ", "))
		total += len(saved)
	}

	logger.Info("catalog sync finished", "animes", total)
}
