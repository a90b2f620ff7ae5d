package repository

import (
	"context"
	"errors"

	"github.com/docsearch/docsearch-api/internal/document"
)

var (
	ErrInvalidPartition = errors.New("invalid partition")
)

// Store runs federated searches over both document collections and looks
// documents up by id. Callers never see which collection a document lives in.
type Store interface {
	// Search runs the clauses as one OR query over both collections and
	// returns the union ordered by sortBy.
	Search(ctx context.Context, clauses []document.Clause, sortBy document.SortBy) ([]document.ScoredDocument, error)
	// GetByID returns (nil, nil) when the id is absent from both collections
	// or is not a valid store id.
	GetByID(ctx context.Context, id string) (*document.Document, error)
	Ping(ctx context.Context) error
}
