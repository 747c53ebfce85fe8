package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docrag/src/core/rag"
)

// Orchestrator is the caller-facing surface of the RAG core consumed by the
// web layer.
type Orchestrator interface {
	Answer(ctx context.Context, query string, k int) (rag.Answer, error)
	AddDocument(ctx context.Context, name, content string) (string, error)
	Rebuild(ctx context.Context) error
	Status() rag.Status
}

// RAGHandler exposes the orchestrator over HTTP.
type RAGHandler struct {
	orchestrator Orchestrator
}

func NewRAGHandler(orchestrator Orchestrator) *RAGHandler {
	return &RAGHandler{
		orchestrator: orchestrator,
	}
}

// RegisterRoutes registers all API routes
func (h *RAGHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/query", h.Query)
	api.POST("/documents", h.AddDocument)
	api.POST("/rebuild", h.Rebuild)
	api.GET("/status", h.Status)

	r.GET("/health", h.Health)
}

// Common error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendError(c *gin.Context, err error) {
	var code string
	var status int
	switch {
	case errors.Is(err, rag.ErrNotReady):
		code = "NOT_READY"
		status = http.StatusServiceUnavailable
	case errors.Is(err, rag.ErrInvalidConfiguration):
		code = "INVALID_CONFIGURATION"
		status = http.StatusBadRequest
	case rag.Retryable(err):
		code = "MODEL_UNAVAILABLE"
		status = http.StatusServiceUnavailable
	default:
		code = "INTERNAL_ERROR"
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

type queryResponse struct {
	Response string      `json:"response"`
	Sources  []rag.Chunk `json:"sources,omitempty"`
}

// Query answers a question from the document collection
func (h *RAGHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: err.Error()})
		return
	}
	if req.K < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "k must not be negative"})
		return
	}

	answer, err := h.orchestrator.Answer(c.Request.Context(), req.Query, req.K)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, queryResponse{
		Response: answer.Text,
		Sources:  answer.Sources,
	})
}

type addDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content" binding:"required"`
}

type addDocumentResponse struct {
	Name string `json:"name"`
}

// AddDocument stores a new document and rebuilds the index
func (h *RAGHandler) AddDocument(c *gin.Context) {
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: err.Error()})
		return
	}

	name, err := h.orchestrator.AddDocument(c.Request.Context(), req.Name, req.Content)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addDocumentResponse{Name: name})
}

// Rebuild discards the cache and re-ingests the corpus
func (h *RAGHandler) Rebuild(c *gin.Context) {
	if err := h.orchestrator.Rebuild(c.Request.Context()); err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.orchestrator.Status())
}

// Status reports the orchestrator state
func (h *RAGHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Status())
}

// Health reports process liveness and readiness to answer queries
func (h *RAGHandler) Health(c *gin.Context) {
	status := h.orchestrator.Status()

	httpStatus := http.StatusOK
	if status.State != rag.StateReady {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status": status.State,
	})
}
