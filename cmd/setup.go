package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"docrag/src/core/rag"
	"docrag/src/corpus"
	"docrag/src/fsutil"
	ollamaClient "docrag/src/infrastructure/integrations/ollama"
	"docrag/src/storage/weaviate"
)

// ragConfig assembles the core configuration object from viper.
func ragConfig() rag.Config {
	return rag.Config{
		LLMModel:        viper.GetString("models.llm"),
		EmbeddingModel:  viper.GetString("models.embedding"),
		ChunkSize:       viper.GetInt("chunk.size"),
		ChunkOverlap:    viper.GetInt("chunk.overlap"),
		ChunkStrategy:   viper.GetString("chunk.strategy"),
		TopK:            viper.GetInt("search.k"),
		DocsDir:         viper.GetString("rag.docs_dir"),
		CacheDir:        viper.GetString("rag.cache_dir"),
		ModelTimeout:    viper.GetDuration("ollama.timeout"),
		MaxAnswerLength: viper.GetInt("rag.max_answer_length"),
		IncludeSources:  viper.GetBool("rag.include_sources"),
		BootstrapSample: viper.GetBool("rag.bootstrap_sample"),
	}
}

func newOllamaClient() *ollamaClient.Client {
	return ollamaClient.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: viper.GetDuration("ollama.timeout"),
	})
}

// newOrchestrator wires the pipeline from the configured corpus source and
// index backend.
func newOrchestrator(ctx context.Context, storeOpts ...rag.FileIndexStoreOption) (*rag.Orchestrator, error) {
	cfg := ragConfig()
	fs := fsutil.NewLocalFileStore()
	oc := newOllamaClient()
	embedder := rag.NewOllamaEmbedder(oc, cfg.EmbeddingModel, cfg.ModelTimeout)

	var source corpus.Source
	switch viper.GetString("corpus.source") {
	case "minio":
		minioSource, err := corpus.NewMinioSource(
			ctx,
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetString("minio.bucket"),
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio corpus source: %w", err)
		}
		source = minioSource
	case "local", "":
		localSource, err := corpus.NewLocalSource(cfg.DocsDir, fs)
		if err != nil {
			return nil, fmt.Errorf("failed to create local corpus source: %w", err)
		}
		source = localSource
	default:
		return nil, fmt.Errorf("unknown corpus source %q", viper.GetString("corpus.source"))
	}

	var store rag.IndexStore
	switch viper.GetString("rag.backend") {
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.host"),
			Scheme: viper.GetString("weaviate.scheme"),
		})
		store = rag.NewWeaviateIndexStore(weaviate.NewSDK(wc), embedder)
	case "file", "":
		fileStore, err := rag.NewFileIndexStore(embedder, cfg.CacheDir, fs, storeOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create index store: %w", err)
		}
		store = fileStore
	default:
		return nil, fmt.Errorf("unknown index backend %q", viper.GetString("rag.backend"))
	}

	return rag.NewOrchestrator(cfg, source, embedder, store, oc)
}
