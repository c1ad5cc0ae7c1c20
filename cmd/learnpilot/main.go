package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"learnpilot/internal/api"
	"learnpilot/internal/cfg"
	"learnpilot/internal/chatbot"
	"learnpilot/internal/metrics"
	"learnpilot/internal/modelstore"
	"learnpilot/internal/recommend"
)

func main() {
	// .env is optional; real environments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	configureLogging(c.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	store := initializeStore(c)
	if store != nil {
		defer store.Close()
	}

	bot := chatbot.New(time.Now().UnixNano(), buildLLMClient(c))
	engine := recommend.New(time.Now().UnixNano())

	server := api.New(c, store, bot, engine, m)

	prepareModel(server)
	startMetricsServer(ctx, c.MetricsPort)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server failed")
			cancel()
		}
	}()

	waitForShutdown(ctx, cancel, server)
}

func configureLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// initializeStore opens model persistence under the data path. The
// service still works without it: models are retrained on demand.
func initializeStore(c cfg.Settings) *modelstore.Store {
	if err := os.MkdirAll(c.DataPath, 0o750); err != nil {
		log.Warn().Err(err).Str("path", c.DataPath).Msg("data path unavailable, continuing without persistence")
		return nil
	}
	store, err := modelstore.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("model store initialization failed, continuing without persistence")
		return nil
	}
	return store
}

func buildLLMClient(c cfg.Settings) *chatbot.LLMClient {
	if c.ChatbotLLMURL == "" {
		return nil
	}
	log.Info().Str("url", c.ChatbotLLMURL).Msg("chatbot LLM relay enabled")
	return chatbot.NewLLMClient(c.ChatbotLLMURL, c.ChatbotTimeout)
}

// prepareModel restores a saved model when one exists, otherwise
// trains from the dataset. Failure is not fatal: the first analyze
// request retries training.
func prepareModel(server *api.Server) {
	if err := server.LoadSavedModel(); err == nil {
		return
	}
	if _, err := server.TrainFromDataset(); err != nil {
		log.Warn().Err(err).Msg("startup training failed, model will be trained on first request")
	}
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, port int) {
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown blocks until a signal arrives, then drains the API
// server with a timeout.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
	} else {
		log.Info().Msg("server stopped")
	}
}
