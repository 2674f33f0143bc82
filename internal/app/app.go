// Package app wires the dataroom services from configuration. Both the API
// server and the CLI build on it.
package app

import (
	"context"
	"errors"

	"github.com/MilanLasica/DrugsDataroom/internal/assistant"
	"github.com/MilanLasica/DrugsDataroom/internal/cache"
	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/embedding"
	"github.com/MilanLasica/DrugsDataroom/internal/ingest"
	"github.com/MilanLasica/DrugsDataroom/internal/llm"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
	"github.com/MilanLasica/DrugsDataroom/internal/perspective"
	"github.com/MilanLasica/DrugsDataroom/internal/vectorstore"
)

// App holds the wired services.
type App struct {
	Config    *config.Config
	Logger    *observability.Logger
	Gateway   *vectorstore.Gateway
	Pipeline  *ingest.Pipeline
	Extractor *perspective.Extractor
	Assistant *assistant.Assistant
	Generator llm.Generator

	cache cache.Client
}

// New builds the application. An unreachable vector store or cache does not
// fail startup: the gateway runs degraded and the cache falls back to memory.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	logger = observability.OrNop(logger)

	extractor, err := ingest.NewTextExtractor(cfg.Ingestion.PDFBackend)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Cache.Driver).Msg("Cache unavailable, using in-memory cache")
		c = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	embedder := embedding.NewCachedEmbedder(embedding.New(embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	}), c, cfg.Cache.TTL, logger)

	backend, err := vectorstore.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Store.Driver).Msg("Vector store unavailable, running in demo mode")
	}

	gateway := vectorstore.NewGateway(backend, embedder, vectorstore.Options{
		UploadDir:   cfg.Ingestion.UploadDir,
		FetchLimit:  cfg.Store.FetchLimit,
		HybridAlpha: cfg.Store.HybridAlpha,
	}, logger)

	generator := llm.New(cfg.LLM)

	logger.Info().
		Bool("vector_store", backend != nil).
		Str("embedding_model", embedder.Model()).
		Bool("llm", generator.Available()).
		Msg("Services initialised")

	pipeline := ingest.NewPipeline(logger, ingest.PipelineConfig{
		UploadDir:    cfg.Ingestion.UploadDir,
		ChunkSize:    cfg.Ingestion.ChunkSize,
		ChunkOverlap: cfg.Ingestion.ChunkOverlap,
	}, extractor, gateway)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Gateway:   gateway,
		Pipeline:  pipeline,
		Extractor: perspective.NewExtractor(generator, logger),
		Assistant: assistant.New(gateway, generator, logger),
		Generator: generator,
		cache:     c,
	}, nil
}

// Analyze resolves a document and runs the perspective extraction on it.
// Unknown documents yield domain.ErrNotFound.
func (a *App) Analyze(ctx context.Context, documentID string) (*domain.Analysis, error) {
	doc, err := a.Gateway.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	analysis, err := a.Extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	analysis.DocumentID = documentID
	return analysis, nil
}

// Services reports the availability of each component.
func (a *App) Services(ctx context.Context) map[string]bool {
	return map[string]bool{
		"vector_store":       a.Gateway.IsConnected(ctx),
		"document_processor": true,
		"extraction":         true,
		"chat":               true,
		"llm":                a.Generator.Available(),
	}
}

// Close releases the store and cache.
func (a *App) Close() error {
	return errors.Join(a.Gateway.Close(), a.cache.Close())
}
