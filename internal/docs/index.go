// File path: internal/docs/index.go
package docs

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/report"
)

const indexChunkLen = 1200

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Snippet is one scored documentation excerpt returned by Search.
type Snippet struct {
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type indexedChunk struct {
	path    string
	title   string
	content string
	vector  map[string]float64
	norm    float64
}

// Index is an in-process TF-IDF keyword index over the site's markdown
// documentation, used to ground chat answers. It is immutable after
// construction.
type Index struct {
	chunks []indexedChunk
	df     map[string]int
}

// NewIndex walks dir for markdown files and indexes their chunks. A missing
// directory yields an empty index, logged but not fatal: the chat assistant
// simply answers without local grounding.
func NewIndex(dir string) (*Index, error) {
	logger := common.Logger()
	idx := &Index{df: make(map[string]int)}
	if strings.TrimSpace(dir) == "" {
		return idx, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Warn("docs: content directory missing, serving empty index", "dir", dir)
		return idx, nil
	}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		content := string(data)
		title := extractDocTitle(content, entry.Name())
		for _, chunk := range report.Chunk(content, indexChunkLen) {
			idx.chunks = append(idx.chunks, indexedChunk{path: path, title: title, content: chunk})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index docs: %w", err)
	}
	idx.buildVectors()
	logger.Info("docs: index built", "dir", dir, "chunks", len(idx.chunks))
	return idx, nil
}

func (i *Index) buildVectors() {
	for c := range i.chunks {
		seen := make(map[string]struct{})
		for _, term := range tokenize(i.chunks[c].content) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			i.df[term]++
		}
	}
	total := len(i.chunks)
	for c := range i.chunks {
		chunk := &i.chunks[c]
		tf := make(map[string]float64)
		for _, term := range tokenize(chunk.content) {
			tf[term]++
		}
		chunk.vector = make(map[string]float64, len(tf))
		var norm float64
		for term, count := range tf {
			weight := count * idf(i.df[term], total)
			chunk.vector[term] = weight
			norm += weight * weight
		}
		chunk.norm = math.Sqrt(norm)
	}
}

// Size reports the number of indexed chunks.
func (i *Index) Size() int {
	return len(i.chunks)
}

// Search returns up to limit snippets ranked by cosine similarity between
// the query terms and each indexed chunk.
func (i *Index) Search(query string, limit int) []Snippet {
	if limit <= 0 {
		limit = 3
	}
	terms := tokenize(query)
	if len(terms) == 0 || len(i.chunks) == 0 {
		return nil
	}
	queryTF := make(map[string]float64)
	for _, term := range terms {
		queryTF[term]++
	}
	queryVec := make(map[string]float64, len(queryTF))
	var queryNorm float64
	for term, count := range queryTF {
		weight := count * idf(i.df[term], len(i.chunks))
		queryVec[term] = weight
		queryNorm += weight * weight
	}
	queryNorm = math.Sqrt(queryNorm)
	if queryNorm == 0 {
		return nil
	}
	results := make([]Snippet, 0, len(i.chunks))
	for _, chunk := range i.chunks {
		if chunk.norm == 0 {
			continue
		}
		var dot float64
		for term, weight := range queryVec {
			dot += weight * chunk.vector[term]
		}
		if dot <= 0 {
			continue
		}
		results = append(results, Snippet{
			Path:    chunk.path,
			Title:   chunk.title,
			Content: chunk.content,
			Score:   dot / (queryNorm * chunk.norm),
		})
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func idf(df, total int) float64 {
	if df <= 0 || total <= 0 {
		return 0
	}
	return math.Log(1 + float64(total)/float64(df))
}

func extractDocTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
		if trimmed != "" {
			break
		}
	}
	return strings.TrimSuffix(fallback, filepath.Ext(fallback))
}
