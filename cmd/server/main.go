// Command server starts the job finder HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/amithrb/jobfinder/internal/adapter/ai/openai"
	httpserver "github.com/amithrb/jobfinder/internal/adapter/httpserver"
	"github.com/amithrb/jobfinder/internal/adapter/observability"
	"github.com/amithrb/jobfinder/internal/adapter/search/tavily"
	tikaext "github.com/amithrb/jobfinder/internal/adapter/textextractor/tika"
	"github.com/amithrb/jobfinder/internal/adapter/vector/memory"
	qdrantcli "github.com/amithrb/jobfinder/internal/adapter/vector/qdrant"
	"github.com/amithrb/jobfinder/internal/app"
	"github.com/amithrb/jobfinder/internal/config"
	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/profile"
	"github.com/amithrb/jobfinder/internal/rag"
	"github.com/amithrb/jobfinder/internal/taxonomy"
	"github.com/amithrb/jobfinder/internal/usecase"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	aicl := openai.New(cfg)

	var index domain.VectorIndex
	if cfg.UseQdrant() {
		qcli := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)
		app.EnsureVectorCollection(ctx, qcli, aicl)
		index = qcli
		slog.Info("vector backend: qdrant", slog.String("collection", cfg.QdrantCollection))
	} else {
		index = memory.New()
		slog.Info("vector backend: memory")
	}

	engine := rag.NewEngine(aicl, index, cfg.ChunkSize, cfg.ChunkOverlap,
		rag.WithBatchSize(cfg.EmbedBatchSize), rag.WithTopK(cfg.RetrieveTopK))

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		tax, err = taxonomy.LoadFile(cfg.TaxonomyPath)
		if err != nil {
			slog.Error("taxonomy load failed", slog.String("path", cfg.TaxonomyPath), slog.Any("error", err))
			os.Exit(1)
		}
	}

	session := usecase.NewSession(engine, tax, profile.Parse)

	var source domain.PostingSource
	if cfg.TavilyAPIKey != "" {
		source = tavily.New(cfg.TavilyBaseURL, cfg.TavilyAPIKey)
	} else {
		slog.Warn("TAVILY_API_KEY not set; live posting search disabled")
	}

	ext := tikaext.New(cfg.TikaURL)

	srv := httpserver.NewServer(cfg, session, ext, source)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
