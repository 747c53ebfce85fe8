package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// Chunker splits document text into overlapping segments. Splitting is a
// pure function of the input text and the configured sizes.
type Chunker struct {
	size     int
	overlap  int
	strategy string
}

// NewChunker validates the chunk sizes and returns a chunker.
func NewChunker(size, overlap int, strategy string) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfiguration, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfiguration, overlap, size)
	}
	if strategy == "" {
		strategy = StrategyFixed
	}
	if strategy != StrategyFixed && strategy != StrategyRecursive {
		return nil, fmt.Errorf("%w: unknown chunk strategy %q", ErrInvalidConfiguration, strategy)
	}

	return &Chunker{
		size:     size,
		overlap:  overlap,
		strategy: strategy,
	}, nil
}

// Chunk splits one document into ordered chunks. Offsets are rune positions
// in the source text. Trailing partial content is kept, so the final chunk
// may be shorter than the configured size.
func (c *Chunker) Chunk(document, text string) ([]Chunk, error) {
	if c.strategy == StrategyRecursive {
		return c.chunkRecursive(document, text)
	}
	return c.chunkFixed(document, text), nil
}

func (c *Chunker) chunkFixed(document, text string) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []Chunk
	for start, seq := 0, 0; start < n; start, seq = start+step, seq+1 {
		end := start + c.size
		if end > n {
			end = n
		}

		chunks = append(chunks, Chunk{
			Document: document,
			Seq:      seq,
			Text:     string(runes[start:end]),
			Start:    start,
			End:      end,
		})

		if end == n {
			break
		}
	}

	return chunks
}

// chunkRecursive splits on paragraph and sentence boundaries where possible,
// keeping each piece within the configured size. Offsets are recovered by
// locating each piece in the source text.
func (c *Chunker) chunkRecursive(document, text string) ([]Chunk, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.size),
		textsplitter.WithChunkOverlap(c.overlap),
	)

	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	var chunks []Chunk
	cursor := 0 // byte offset to search from; pieces arrive in document order
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		seq := len(chunks)

		start := strings.Index(text[cursor:], piece)
		if start >= 0 {
			start += cursor
		} else {
			// The splitter trims whitespace, fall back to a full scan
			start = strings.Index(text, piece)
		}

		chunk := Chunk{
			Document: document,
			Seq:      seq,
			Text:     piece,
		}
		if start >= 0 {
			chunk.Start = utf8.RuneCountInString(text[:start])
			chunk.End = chunk.Start + utf8.RuneCountInString(piece)
			// Allow the next overlapping piece to begin before this one ends
			cursor = start + 1
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
