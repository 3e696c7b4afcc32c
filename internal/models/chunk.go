package models

// Chunk represents a bounded span of document text with provenance metadata
type Chunk struct {
	Content    string
	PageNumber int // 0 when the document has no page structure
	Source     string
	ChunkID    int
}

// PageRecord is one page of an ingested document, 1-based
type PageRecord struct {
	PageNumber int
	Text       string
	Source     string
}

// ScoredChunk pairs a retrieved chunk with its similarity to the query
type ScoredChunk struct {
	Chunk      Chunk
	Similarity float32
}
