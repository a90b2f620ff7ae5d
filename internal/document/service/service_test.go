package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/docsearch/docsearch-api/internal/document/repository"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var defaultFields = []string{"FileName", "Text", "Author", "Creator", "Title", "Subject", "Producer"}

// recordingStore captures the clauses of every search.
type recordingStore struct {
	calls   atomic.Int32
	clauses [][]document.Clause
	err     error
}

func (s *recordingStore) Search(ctx context.Context, clauses []document.Clause, sortBy document.SortBy) ([]document.ScoredDocument, error) {
	s.calls.Add(1)
	s.clauses = append(s.clauses, clauses)
	if s.err != nil {
		return nil, s.err
	}
	return []document.ScoredDocument{{Document: document.Document{ID: "1", FileName: "a.pdf"}, Score: 1}}, nil
}

func (s *recordingStore) GetByID(ctx context.Context, id string) (*document.Document, error) {
	return nil, s.err
}

func (s *recordingStore) Ping(ctx context.Context) error { return s.err }

func TestFieldClauses_FileNameOnly(t *testing.T) {
	clauses := FieldClauses(FieldFilter{FileName: "tariff"})
	require.Len(t, clauses, 1)
	require.Equal(t, "tariff", clauses[0].Query)
	require.Equal(t, []string{document.FieldFileName}, clauses[0].Paths)
	require.Equal(t, 2, clauses[0].MaxEdits)
}

func TestFieldClauses_AuthorMatchesAuthorAndCreator(t *testing.T) {
	clauses := FieldClauses(FieldFilter{Author: "Smith"})
	require.Len(t, clauses, 1)
	require.Equal(t, []string{document.FieldAuthor, document.FieldCreator}, clauses[0].Paths)
	require.NotContains(t, clauses[0].Paths, document.FieldFileName)
}

func TestFieldClauses_AllFilters(t *testing.T) {
	clauses := FieldClauses(FieldFilter{FileName: "f", Author: "a", Content: "c"})
	require.Len(t, clauses, 3)
	require.Equal(t, []string{document.FieldText, document.FieldTitle, document.FieldSubject}, clauses[2].Paths)
}

func TestFieldClauses_BlankFiltersIgnored(t *testing.T) {
	require.Empty(t, FieldClauses(FieldFilter{FileName: "  ", Author: "\t", Content: ""}))
}

func TestKeywordClauses(t *testing.T) {
	clauses := KeywordClauses("budget", defaultFields)
	require.Len(t, clauses, 1)
	require.Equal(t, defaultFields, clauses[0].Paths)
	require.Equal(t, 2, clauses[0].MaxEdits)
	require.Empty(t, KeywordClauses("   ", defaultFields))
}

func TestSearchByFields_NoFiltersSkipsStore(t *testing.T) {
	store := &recordingStore{}
	svc := New(store, defaultFields)
	got, err := svc.SearchByFields(context.Background(), FieldFilter{}, document.SortRelevance)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Equal(t, int32(0), store.calls.Load())
}

func TestSearchAllFields_BlankKeywordSkipsStore(t *testing.T) {
	store := &recordingStore{}
	svc := New(store, defaultFields)
	got, err := svc.SearchAllFields(context.Background(), "  ", document.SortRelevance)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, int32(0), store.calls.Load())
}

func TestSearchAllFields_UsesConfiguredFields(t *testing.T) {
	store := &recordingStore{}
	svc := New(store, []string{"FileName", "Text"})
	got, err := svc.SearchAllFields(context.Background(), "budget", document.SortRelevance)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []string{"FileName", "Text"}, store.clauses[0][0].Paths)
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	store := &recordingStore{err: errors.New("connection refused")}
	svc := New(store, defaultFields)
	_, err := svc.SearchByFields(context.Background(), FieldFilter{Content: "x"}, document.SortRelevance)
	require.EqualError(t, err, "connection refused")
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, ValidateFieldFilter(FieldFilter{}), ErrInvalidInput)
	require.NoError(t, ValidateFieldFilter(FieldFilter{Author: "x"}))
	require.ErrorIs(t, ValidateKeyword(" "), ErrInvalidInput)
	require.NoError(t, ValidateKeyword("k"))
}

func memoryService(t *testing.T) (Service, string) {
	t.Helper()
	store := repository.NewMemoryStore()
	_, err := store.Insert(repository.PartitionPrimary, bson.M{"FileName": "b-tariff.pdf", "PageCount": 1, "Author": "Smith"})
	require.NoError(t, err)
	_, err = store.Insert(repository.PartitionPrimary, bson.M{"FileName": "a-tariff.pdf", "PageCount": 3})
	require.NoError(t, err)
	archived, err := store.Insert(repository.PartitionSecondary, bson.M{"FileName": "c-tariff.pdf", "PageCount": 2, "Text": "customs"})
	require.NoError(t, err)
	return New(store, defaultFields), archived
}

func TestSearchByFields_SortPolicies(t *testing.T) {
	svc, _ := memoryService(t)
	ctx := context.Background()

	byPages, err := svc.SearchByFields(ctx, FieldFilter{FileName: "tariff"}, document.SortPageCount)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2, 1}, []int{byPages[0].PageCount, byPages[1].PageCount, byPages[2].PageCount})

	byName, err := svc.SearchByFields(ctx, FieldFilter{FileName: "tariff"}, document.SortFileName)
	require.NoError(t, err)
	require.Equal(t, []string{"a-tariff.pdf", "b-tariff.pdf", "c-tariff.pdf"}, []string{byName[0].FileName, byName[1].FileName, byName[2].FileName})
}

func TestSearch_Idempotent(t *testing.T) {
	svc, _ := memoryService(t)
	ctx := context.Background()
	first, err := svc.SearchAllFields(ctx, "tariff", document.SortRelevance)
	require.NoError(t, err)
	second, err := svc.SearchAllFields(ctx, "tariff", document.SortRelevance)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetByID(t *testing.T) {
	svc, archived := memoryService(t)
	ctx := context.Background()

	d, err := svc.GetByID(ctx, archived)
	require.NoError(t, err)
	require.Equal(t, "c-tariff.pdf", d.FileName)

	_, err = svc.GetByID(ctx, "zzz")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByID(ctx, primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, ErrNotFound)
}
