package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docrag/src/infrastructure/log"
)

const generatorSystemPrompt = "You are an assistant answering questions about a document collection. " +
	"Answer using only the provided context. " +
	"If the context does not contain the answer, say so instead of guessing."

const emptyContextNotice = "No relevant context was found in the document collection for this question."

// Generator assembles retrieved chunks and the user question into a prompt
// and requests a completion from the language model.
type Generator struct {
	llm             LLMProvider
	model           string
	timeout         time.Duration
	maxAnswerLength int
}

func NewGenerator(llm LLMProvider, model string, timeout time.Duration, maxAnswerLength int) *Generator {
	return &Generator{
		llm:             llm,
		model:           model,
		timeout:         timeout,
		maxAnswerLength: maxAnswerLength,
	}
}

// Generate produces an answer grounded in the given context chunks. With no
// chunks the prompt explicitly states that nothing relevant was found, so
// the model declines instead of fabricating a document-grounded claim.
func (g *Generator) Generate(ctx context.Context, query string, contextChunks []Chunk) (string, error) {
	prompt := buildPrompt(query, contextChunks)

	answer, err := g.complete(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	if g.maxAnswerLength > 0 && len([]rune(answer)) > g.maxAnswerLength {
		answer = g.summarize(ctx, answer)
	}

	return answer, nil
}

func (g *Generator) complete(ctx context.Context, system, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	answer, err := g.llm.Generate(ctx, g.model, system, prompt, map[string]interface{}{
		"temperature": 0.3,
	})
	if err != nil {
		return "", generationError(err)
	}

	return strings.TrimSpace(answer), nil
}

// summarize shortens an over-long answer with a second model call, falling
// back to a hard truncation when that call fails.
func (g *Generator) summarize(ctx context.Context, answer string) string {
	prompt := fmt.Sprintf(
		"Summarize the following answer to at most %d characters. Keep key facts and be concise.\n\nAnswer:\n%s\n\nSummary:",
		g.maxAnswerLength, answer)

	summary, err := g.complete(ctx, "", prompt)
	if err != nil {
		log.Error(err, "failed to summarize answer, truncating")
		return truncate(answer, g.maxAnswerLength)
	}
	if len([]rune(summary)) > g.maxAnswerLength {
		return truncate(summary, g.maxAnswerLength)
	}

	return summary
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimRight(string(runes[:limit]), " \t\n") + "..."
}

// buildPrompt concatenates the context chunks, each delimited and attributed
// to its source document, followed by the question.
func buildPrompt(query string, contextChunks []Chunk) string {
	var b strings.Builder

	if len(contextChunks) == 0 {
		b.WriteString(emptyContextNotice)
		b.WriteString("\nTell the user that the documents do not cover this question.\n")
	} else {
		b.WriteString("Context:\n")
		for _, chunk := range contextChunks {
			fmt.Fprintf(&b, "\n[source: %s, chunk %d]\n%s\n", chunk.Document, chunk.Seq, chunk.Text)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer concisely:", query)
	return b.String()
}

func generationError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
}
