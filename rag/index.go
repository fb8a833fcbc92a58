// Package rag is the retrieval collaborator: a lexical index over the
// document folder that returns ranked passages for free-text queries.
// Scoring is deterministic keyword overlap — good enough to ground the
// Q&A responder, with no relevance guarantees beyond that.
package rag

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotBuilt is returned by Retrieve before an index has been built.
var ErrNotBuilt = errors.New("rag index not built, call BuildFromFolder first")

const (
	chunkSize    = 500
	chunkOverlap = 80
)

// DocChunk is one indexed passage with its retrieval score.
type DocChunk struct {
	DocID   string
	ChunkID string
	Text    string
	Score   float64
}

// Index holds chunked documents and their token statistics.
type Index struct {
	chunks []DocChunk
	// tokens[i] is the term-frequency map of chunks[i]
	tokens []map[string]int
	// docFreq counts how many chunks contain each term
	docFreq map[string]int
	built   bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{docFreq: make(map[string]int)}
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// chunkText splits text into overlapping windows so answers that straddle
// a boundary still land in some chunk.
func chunkText(text string) []string {
	var chunks []string
	runes := []rune(text)
	step := chunkSize - chunkOverlap
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[i:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// BuildFromFolder indexes every .txt/.md file in the folder. An empty
// corpus is a build-time error, not something queries discover later.
func (ix *Index) BuildFromFolder(docsPath string) error {
	entries, err := os.ReadDir(docsPath)
	if err != nil {
		return fmt.Errorf("failed to read docs folder %s: %w", docsPath, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(docsPath, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		for j, chunk := range chunkText(string(content)) {
			ix.chunks = append(ix.chunks, DocChunk{
				DocID:   name,
				ChunkID: fmt.Sprintf("%s_%d", stem, j),
				Text:    chunk,
			})
			tf := make(map[string]int)
			for _, tok := range tokenize(chunk) {
				tf[tok]++
			}
			ix.tokens = append(ix.tokens, tf)
			for tok := range tf {
				ix.docFreq[tok]++
			}
		}
	}

	if len(ix.chunks) == 0 {
		return fmt.Errorf("no .txt/.md documents found in %s", docsPath)
	}
	ix.built = true
	return nil
}

// ChunkCount returns how many passages are indexed.
func (ix *Index) ChunkCount() int {
	return len(ix.chunks)
}

// Retrieve returns the topK best-matching chunks, best first. Chunks that
// share rarer query terms score higher; ties break on index order so
// results stay deterministic.
func (ix *Index) Retrieve(query string, topK int) ([]DocChunk, error) {
	if !ix.built {
		return nil, ErrNotBuilt
	}
	if topK <= 0 {
		topK = 4
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var results []scored
	total := float64(len(ix.chunks))

	for i, tf := range ix.tokens {
		var score float64
		for _, tok := range queryTokens {
			count := tf[tok]
			if count == 0 {
				continue
			}
			idf := math.Log(1 + total/float64(ix.docFreq[tok]))
			score += (1 + math.Log(float64(count))) * idf
		}
		if score > 0 {
			results = append(results, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]DocChunk, 0, len(results))
	for _, r := range results {
		chunk := ix.chunks[r.idx]
		chunk.Score = r.score
		out = append(out, chunk)
	}
	return out, nil
}
