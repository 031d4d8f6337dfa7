package brainus

import "strings"

// DefaultStoreID is the knowledge store used when a query names none.
const DefaultStoreID = "default"

// MaxQueryLength is the longest query text the service accepts.
const MaxQueryLength = 5000

// Query is a natural-language question plus an optional target store.
type Query struct {
	Text    string
	StoreID string
}

// NewQuery builds a query against the default store.
func NewQuery(text string) Query {
	return Query{Text: text, StoreID: DefaultStoreID}
}

// Store returns the query's store ID, falling back to the default store.
func (q Query) Store() string {
	if q.StoreID == "" {
		return DefaultStoreID
	}
	return q.StoreID
}

// Validate rejects empty and oversized query text before any network call.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewError(ErrCodeValidation, "query cannot be empty")
	}
	if len(q.Text) > MaxQueryLength {
		return NewError(ErrCodeValidation, "query exceeds maximum length")
	}
	return nil
}

// Citation points at a source document backing part of an answer.
type Citation struct {
	Source  string  `json:"source"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// QueryResult is the answer returned by the BrainUs API.
type QueryResult struct {
	Answer       string     `json:"answer"`
	Citations    []Citation `json:"citations"`
	HasCitations bool       `json:"has_citations"`
}
