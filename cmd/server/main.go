package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vanshika218/customer-support-bot/internal/api"
	"github.com/Vanshika218/customer-support-bot/internal/config"
	"github.com/Vanshika218/customer-support-bot/internal/core"
	"github.com/Vanshika218/customer-support-bot/internal/index"
	"github.com/Vanshika218/customer-support-bot/internal/ingest"
	"github.com/Vanshika218/customer-support-bot/internal/llm"
	"github.com/Vanshika218/customer-support-bot/internal/store"
)

func main() {
	config.LoadConfig()
	setupLogging()

	buildIndexFlag := flag.Bool("build-index", false, "Build the vector index from the corpus directory and exit")
	flag.Parse()

	ctx := context.Background()

	provider, err := llm.NewProvider(ctx, &config.AppConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM provider")
	}
	defer provider.Close()

	if *buildIndexFlag {
		runIndexBuild(ctx, provider)
		return
	}

	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer dbStore.Close()

	responder, err := buildResponder(ctx, provider, dbStore)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build query pipeline")
	}

	apiHandler := api.NewAPIHandler(responder, dbStore)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Starting server. Press Ctrl+C to quit.")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("addr", serverAddr).Msg("Could not listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting gracefully")
}

func setupLogging() {
	level, err := zerolog.ParseLevel(config.AppConfig.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.AppConfig.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func runIndexBuild(ctx context.Context, provider llm.Provider) {
	splitter, err := ingest.NewSplitter(config.AppConfig.Pipeline.Splitter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build splitter")
	}
	builder := ingest.NewBuilder(provider, splitter)
	if err := builder.BuildAndSave(ctx, config.AppConfig.CorpusDir, config.AppConfig.IndexPath); err != nil {
		log.Fatal().Err(err).Msg("Index build failed")
	}
	log.Info().Msg("Index build complete. Exiting.")
}

// buildResponder wires the query pipeline: normalizer, FAQ matcher, vector
// retriever, synthesizer and the history recorder.
func buildResponder(ctx context.Context, provider llm.Provider, dbStore *store.SQLiteStore) (*core.Responder, error) {
	pipeline := config.AppConfig.Pipeline

	idx, err := index.Load(config.AppConfig.IndexPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load index artifact: %w", err)
		}
		log.Warn().Str("path", config.AppConfig.IndexPath).
			Msg("No index artifact found, retrieval will be empty. Run with -build-index to create one.")
		idx = index.Empty()
	}

	faqSet, err := core.LoadFAQFiles(config.AppConfig.FAQFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to load FAQ files: %w", err)
	}
	log.Info().Int("entries", faqSet.Len()).Int("vectors", idx.Len()).Msg("Knowledge sources loaded")

	faqMatcher, err := core.NewFAQMatcher(ctx, faqSet, provider, pipeline.FAQThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to embed FAQ questions: %w", err)
	}

	normalizer := core.NewNormalizer(provider, core.LanguageTag(pipeline.CanonicalLanguage))
	retriever := core.NewRetriever(provider, idx, pipeline.TopK, pipeline.ContextChunks)
	synthesizer := core.NewSynthesizer(provider, pipeline.MaxAnswerTokens)

	return core.NewResponder(normalizer, faqMatcher, retriever, synthesizer, dbStore), nil
}
