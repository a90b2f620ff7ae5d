package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/docsearch/docsearch-api/internal/document/repository"
	"github.com/docsearch/docsearch-api/pkg/metrics"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	opFields  = "fields"
	opKeyword = "keyword"
)

// FieldFilter holds the optional per-field filters of a filtered search.
type FieldFilter struct {
	FileName string
	Author   string
	Content  string
}

// IsEmpty reports whether every filter is blank.
func (f FieldFilter) IsEmpty() bool {
	return document.IsBlank(f.FileName) && document.IsBlank(f.Author) && document.IsBlank(f.Content)
}

// ValidateFieldFilter requires at least one non-blank filter.
func ValidateFieldFilter(f FieldFilter) error {
	if f.IsEmpty() {
		return fmt.Errorf("%w: at least one of filename, author or content is required", ErrInvalidInput)
	}
	return nil
}

// ValidateKeyword requires a non-blank keyword.
func ValidateKeyword(keyword string) error {
	if document.IsBlank(keyword) {
		return fmt.Errorf("%w: keyword is required", ErrInvalidInput)
	}
	return nil
}

// Service defines the search operations used by the handler layer.
type Service interface {
	SearchByFields(ctx context.Context, filter FieldFilter, sortBy document.SortBy) ([]document.Document, error)
	SearchAllFields(ctx context.Context, keyword string, sortBy document.SortBy) ([]document.Document, error)
	// GetByID returns ErrNotFound both for unknown and for malformed ids.
	GetByID(ctx context.Context, id string) (*document.Document, error)
	Ready(ctx context.Context) error
}

// New returns a Service over store. searchFields is the field list a global
// keyword search matches against.
func New(store repository.Store, searchFields []string) Service {
	fields := make([]string, len(searchFields))
	copy(fields, searchFields)
	return &searchService{store: store, searchFields: fields}
}

type searchService struct {
	store        repository.Store
	searchFields []string
}

// FieldClauses builds one clause per non-blank filter.
func FieldClauses(f FieldFilter) []document.Clause {
	var clauses []document.Clause
	if !document.IsBlank(f.FileName) {
		clauses = append(clauses, document.NewClause(f.FileName, document.FieldFileName))
	}
	if !document.IsBlank(f.Author) {
		clauses = append(clauses, document.NewClause(f.Author, document.FieldAuthor, document.FieldCreator))
	}
	if !document.IsBlank(f.Content) {
		clauses = append(clauses, document.NewClause(f.Content, document.FieldText, document.FieldTitle, document.FieldSubject))
	}
	return clauses
}

// KeywordClauses builds the single clause of a global search, or none for a
// blank keyword.
func KeywordClauses(keyword string, fields []string) []document.Clause {
	if document.IsBlank(keyword) || len(fields) == 0 {
		return nil
	}
	return []document.Clause{document.NewClause(keyword, fields...)}
}

func (s *searchService) SearchByFields(ctx context.Context, filter FieldFilter, sortBy document.SortBy) ([]document.Document, error) {
	return s.run(ctx, opFields, FieldClauses(filter), sortBy)
}

func (s *searchService) SearchAllFields(ctx context.Context, keyword string, sortBy document.SortBy) ([]document.Document, error) {
	return s.run(ctx, opKeyword, KeywordClauses(keyword, s.searchFields), sortBy)
}

func (s *searchService) run(ctx context.Context, op string, clauses []document.Clause, sortBy document.SortBy) ([]document.Document, error) {
	if len(clauses) == 0 {
		metrics.SearchRequests.WithLabelValues(op, "skipped").Inc()
		return []document.Document{}, nil
	}
	start := time.Now()
	hits, err := s.store.Search(ctx, clauses, sortBy)
	metrics.SearchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequests.WithLabelValues(op, "error").Inc()
		return nil, err
	}
	metrics.SearchRequests.WithLabelValues(op, "ok").Inc()
	metrics.SearchResults.WithLabelValues(op).Observe(float64(len(hits)))

	out := make([]document.Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Document)
	}
	return out, nil
}

func (s *searchService) GetByID(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *searchService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
