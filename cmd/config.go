package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for Ollama
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.timeout", "OLLAMA_TIMEOUT")
	viper.BindEnv("models.llm", "DOCRAG_LLM_MODEL")
	viper.BindEnv("models.embedding", "DOCRAG_EMBEDDING_MODEL")

	// Map environment variables to Viper keys for the RAG pipeline
	viper.BindEnv("rag.docs_dir", "DOCRAG_DOCS_DIR")
	viper.BindEnv("rag.cache_dir", "DOCRAG_CACHE_DIR")
	viper.BindEnv("rag.backend", "DOCRAG_BACKEND")
	viper.BindEnv("corpus.source", "DOCRAG_CORPUS_SOURCE")

	// Map environment variables to Viper keys for MinIO and Server
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for Weaviate
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")

	// Set default values for Ollama models
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.timeout", "120s")
	viper.SetDefault("models.llm", "phi3:mini")
	viper.SetDefault("models.embedding", "nomic-embed-text")

	// Set default values for the RAG pipeline
	viper.SetDefault("chunk.size", 500)
	viper.SetDefault("chunk.overlap", 100)
	viper.SetDefault("chunk.strategy", "fixed")
	viper.SetDefault("search.k", 3)
	viper.SetDefault("rag.docs_dir", "documents")
	viper.SetDefault("rag.cache_dir", "cache")
	viper.SetDefault("rag.max_answer_length", 700)
	viper.SetDefault("rag.include_sources", true)
	viper.SetDefault("rag.bootstrap_sample", true)
	viper.SetDefault("rag.backend", "file")
	viper.SetDefault("corpus.source", "local")

	// Set default values for MinIO
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.bucket", "documents")
	viper.SetDefault("minio.use_ssl", false)

	// Set default values for Weaviate
	viper.SetDefault("weaviate.host", "localhost:8081")
	viper.SetDefault("weaviate.scheme", "http")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")
}
