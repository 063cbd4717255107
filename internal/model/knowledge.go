package model

const (
	SourceStatusPending = "pending"
	SourceStatusIndexed = "indexed"
	SourceStatusError   = "error"
)

type KnowledgeSource struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	Content    string `json:"content,omitempty"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// KnowledgeChunk is one window of a source's text plus its embedding.
// Embedding is nil when the embedding backend was unavailable at index
// time; such chunks stay reachable through the lexical fallback.
type KnowledgeChunk struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	TenantID    string    `json:"tenant_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Snippet     string    `json:"snippet"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Embedding   []float32 `json:"-"`
}

// Citation is a read-only projection of a chunk attached to a chat
// response. Never persisted on its own.
type Citation struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Snippet  string `json:"snippet"`
}

const citationSnippetMax = 200

// NewCitation caps the snippet so citations stay header-sized no matter
// how large the underlying chunk was.
func NewCitation(sourceID, title, url, snippet string) Citation {
	if len(snippet) > citationSnippetMax {
		snippet = snippet[:citationSnippetMax]
	}
	return Citation{
		SourceID: sourceID,
		Title:    title,
		URL:      url,
		Snippet:  snippet,
	}
}
