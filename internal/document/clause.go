package document

import "strings"

// FuzzyMaxEdits is the edit distance tolerated by every search clause.
const FuzzyMaxEdits = 2

// Clause matches a query string against one or more fields with fuzzy
// tolerance. Clauses are built per request and never persisted.
type Clause struct {
	Query    string   `json:"query"`
	Paths    []string `json:"paths"`
	MaxEdits int      `json:"maxEdits"`
}

// NewClause returns a fuzzy clause over the given fields.
func NewClause(query string, paths ...string) Clause {
	return Clause{Query: query, Paths: paths, MaxEdits: FuzzyMaxEdits}
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
