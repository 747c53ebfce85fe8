package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docrag/src/corpus"
	"docrag/src/infrastructure/log"
)

// State is the lifecycle state of the orchestrator.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateIndexing      State = "indexing"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Status reports the orchestrator state for callers.
type Status struct {
	State     State  `json:"state"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	CacheKey  string `json:"cache_key,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

const sampleDocumentName = "sample.txt"

const sampleDocument = `Sample Document - About Artificial Intelligence

Artificial Intelligence (AI) is the simulation of human intelligence processes
by machines, especially computer systems. These processes include learning,
reasoning, problem-solving and language processing.

Machine Learning is a subset of AI that enables systems to learn and improve
from experience. Deep Learning uses artificial neural networks with multiple
layers. AI is transforming industries with both opportunities and challenges.
`

// Orchestrator coordinates ingestion and query handling over a single
// document corpus. Construct one per process, call Initialize once at
// startup and Answer per request.
type Orchestrator struct {
	cfg       Config
	source    corpus.Source
	chunker   *Chunker
	embedder  Embedder
	store     IndexStore
	retriever *Retriever
	generator *Generator

	// ingestMu serializes rebuilds, mu guards the published state. A
	// rebuild prepares a fresh index and swaps it in only after success,
	// so in-flight queries keep reading the previous one.
	ingestMu  sync.Mutex
	mu        sync.RWMutex
	state     State
	index     Index
	documents int
	lastErr   error
}

// NewOrchestrator wires the pipeline from injected collaborators. The
// configuration is validated here; bad chunk, overlap or k values are fatal.
func NewOrchestrator(cfg Config, source corpus.Source, embedder Embedder, store IndexStore, llm LLMProvider) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("corpus source is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("index store is required")
	}
	if llm == nil {
		return nil, fmt.Errorf("llm provider is required")
	}

	chunker, err := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap, cfg.ChunkStrategy)
	if err != nil {
		return nil, err
	}

	retriever, err := NewRetriever(embedder, cfg.TopK)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:       cfg,
		source:    source,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		retriever: retriever,
		generator: NewGenerator(llm, cfg.LLMModel, cfg.ModelTimeout, cfg.MaxAnswerLength),
		state:     StateUninitialized,
	}, nil
}

// Initialize loads the corpus, chunks it and loads the cached index for the
// current corpus fingerprint, building and persisting a fresh one on a cache
// miss. On failure the orchestrator stays failed until a manual retry.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	return o.ingest(ctx, false)
}

// Rebuild discards the cache and re-ingests the whole corpus.
func (o *Orchestrator) Rebuild(ctx context.Context) error {
	return o.ingest(ctx, true)
}

func (o *Orchestrator) ingest(ctx context.Context, force bool) error {
	o.ingestMu.Lock()
	defer o.ingestMu.Unlock()

	o.setState(StateIndexing)

	docs, err := o.source.List(ctx)
	if err != nil {
		return o.fail(fmt.Errorf("failed to load corpus: %w", err))
	}

	if len(docs) == 0 && o.cfg.BootstrapSample {
		log.Info("corpus is empty, writing sample document", "name", sampleDocumentName)
		if err := o.source.Put(ctx, sampleDocumentName, []byte(sampleDocument)); err != nil {
			return o.fail(fmt.Errorf("failed to write sample document: %w", err))
		}
		if docs, err = o.source.List(ctx); err != nil {
			return o.fail(fmt.Errorf("failed to load corpus: %w", err))
		}
	}

	var chunks []Chunk
	for _, doc := range docs {
		docChunks, err := o.chunker.Chunk(doc.Name, doc.Text)
		if err != nil {
			return o.fail(fmt.Errorf("failed to chunk document %s: %w", doc.Name, err))
		}
		chunks = append(chunks, docChunks...)
	}

	key := CacheKey{
		CorpusFingerprint: corpus.Fingerprint(docs),
		EmbeddingModel:    o.embedder.Model(),
	}

	var index Index
	if !force {
		index, err = o.store.Load(ctx, key)
		switch {
		case err == nil:
			log.Info("loaded index from cache", "chunks", index.Size(), "documents", len(docs))
		case errors.Is(err, ErrIndexNotFound):
			log.Info("index cache miss", "documents", len(docs))
			index = nil
		default:
			return o.fail(fmt.Errorf("failed to load index: %w", err))
		}
	}

	if index == nil {
		log.Info("building index", "chunks", len(chunks), "documents", len(docs), "model", o.embedder.Model())
		index, err = o.store.Build(ctx, chunks, key)
		if err != nil {
			return o.fail(fmt.Errorf("failed to build index: %w", err))
		}
		if err := o.store.Save(ctx, index); err != nil {
			// The index is usable, only the cache write failed
			log.Error(err, "failed to persist index, next start will re-embed")
		}
	}

	o.mu.Lock()
	o.index = index
	o.documents = len(docs)
	o.state = StateReady
	o.lastErr = nil
	o.mu.Unlock()

	return nil
}

// Answer handles one query end-to-end: retrieve context, then generate.
// Valid only in the ready state. Model failures are scoped to this request
// and leave the orchestrator state untouched.
func (o *Orchestrator) Answer(ctx context.Context, query string, k int) (Answer, error) {
	if strings.TrimSpace(query) == "" {
		return Answer{}, fmt.Errorf("query is required")
	}

	o.mu.RLock()
	state, index := o.state, o.index
	o.mu.RUnlock()

	if state != StateReady {
		return Answer{}, fmt.Errorf("%w: state is %s", ErrNotReady, state)
	}

	chunks, err := o.retriever.Retrieve(ctx, index, query, k)
	if err != nil {
		return Answer{}, err
	}

	text, err := o.generator.Generate(ctx, query, chunks)
	if err != nil {
		return Answer{}, err
	}

	answer := Answer{Text: text}
	if o.cfg.IncludeSources {
		answer.Sources = chunks
	}

	return answer, nil
}

// AddDocument stores a new document in the corpus and rebuilds the index.
// The changed corpus fingerprint invalidates the cache, so the rebuild
// covers the whole corpus; incremental updates are out of scope. An empty
// name gets a generated one. Returns the name the document was stored under.
func (o *Orchestrator) AddDocument(ctx context.Context, name, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("document content is required")
	}
	if name == "" {
		name = fmt.Sprintf("document_%s.txt", uuid.New().String())
	}

	if err := o.source.Put(ctx, name, []byte(content)); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}

	if err := o.ingest(ctx, false); err != nil {
		return "", err
	}

	return name, nil
}

// Status reports the current state without blocking queries.
func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := Status{
		State:     o.state,
		Documents: o.documents,
	}
	if o.index != nil {
		status.Chunks = o.index.Size()
		status.CacheKey = o.index.Key().Filename()
	}
	if o.lastErr != nil {
		status.LastError = o.lastErr.Error()
	}

	return status
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) fail(err error) error {
	log.Error(err, "ingestion failed")
	o.mu.Lock()
	o.state = StateFailed
	o.lastErr = err
	o.mu.Unlock()
	return err
}
