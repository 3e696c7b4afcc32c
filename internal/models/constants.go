package models

const (
	DefaultChunkSize    = 2000 // characters
	DefaultChunkOverlap = 400  // characters
	DefaultTopK         = 10
	DefaultConcurrency  = 4

	ContextSeparator = "\n\n"
)

// SeparatorPriority is tried highest-priority first; "" falls back to
// character-level splitting.
var SeparatorPriority = []string{"\n\n\n", "\n\n", "\n", ". ", " ", ""}

var QAPromptTemplate = `You are a helpful assistant that answers questions based on the provided context from a document.

Use the following pieces of context to answer the question accurately and comprehensively.
- If the answer is not in the context, say "I don't know" based on the provided context.
- Do not make up information that is not in the context.
- Provide detailed and accurate answers based solely on the context provided.
- If multiple relevant pieces of context are provided, synthesize them into a comprehensive answer.

Context from document:
%s

Question: %s

Provide a clear, accurate answer based on the context above:`
