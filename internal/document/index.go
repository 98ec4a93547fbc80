package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve"
)

// chunkIndex is a throwaway in-memory full-text index over one document. It
// lives for a single Prepare call: index the chunks, rank them against the
// user's question, pick the best ones in document order.
type chunkIndex struct {
	index  bleve.Index
	chunks map[string]chunk
}

type chunk struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

func newChunkIndex(text string, chunkChars int) (*chunkIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("bleve index: %w", err)
	}
	ci := &chunkIndex{index: index, chunks: make(map[string]chunk)}
	for i, part := range split(text, chunkChars) {
		c := chunk{Order: i, Text: part}
		id := fmt.Sprintf("chunk-%04d", i)
		if err := index.Index(id, c); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index chunk: %w", err)
		}
		ci.chunks[id] = c
	}
	return ci, nil
}

func (ci *chunkIndex) Close() {
	_ = ci.index.Close()
}

// Select returns the chunks most relevant to the query, restored to document
// order and concatenated within the character budget. Empty string when
// nothing matches.
func (ci *chunkIndex) Select(query string, budget int) (string, error) {
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, len(ci.chunks), 0, false)
	res, err := ci.index.Search(req)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}

	var picked []chunk
	used := 0
	for _, hit := range res.Hits {
		c, ok := ci.chunks[hit.ID]
		if !ok {
			continue
		}
		cost := len(c.Text) + 2
		if used+cost > budget {
			continue
		}
		picked = append(picked, c)
		used += cost
	}
	if len(picked) == 0 {
		return "", nil
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].Order < picked[j].Order })
	parts := make([]string, len(picked))
	for i, c := range picked {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n\n"), nil
}

// split cuts text into chunks of at most chunkChars, packing whole paragraphs
// together and hard-cutting only paragraphs that exceed the limit alone.
func split(text string, chunkChars int) []string {
	if chunkChars <= 0 {
		return []string{text}
	}
	var out []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > chunkChars {
			flush()
			cut := runeBoundary(para, chunkChars)
			if cut == 0 {
				cut = chunkChars
			}
			out = append(out, para[:cut])
			para = para[cut:]
		}
		if buf.Len() > 0 && buf.Len()+2+len(para) > chunkChars {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flush()
	return out
}
