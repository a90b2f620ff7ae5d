package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/docsearch/docsearch-api/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PartitionPrimary = iota
	PartitionSecondary
)

// MemoryStore keeps raw records for two partitions in process and answers
// the same queries as MongoStore with a simple token-level fuzzy match.
// It backs tests and the "memory" store backend.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions [2][]bson.M
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadMemoryStore reads a JSON seed file of the form
// {"primary": [...records], "secondary": [...records]}.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed struct {
		Primary   []map[string]interface{} `json:"primary"`
		Secondary []map[string]interface{} `json:"secondary"`
	}
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	m := NewMemoryStore()
	for _, raw := range seed.Primary {
		if _, err := m.Insert(PartitionPrimary, raw); err != nil {
			return nil, err
		}
	}
	for _, raw := range seed.Secondary {
		if _, err := m.Insert(PartitionSecondary, raw); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Insert stores a raw record in the given partition and returns its id.
// Records without an _id get a fresh ObjectID; hex string ids are parsed
// into ObjectIDs.
func (m *MemoryStore) Insert(partition int, raw map[string]interface{}) (string, error) {
	if partition != PartitionPrimary && partition != PartitionSecondary {
		return "", fmt.Errorf("%w: %d", ErrInvalidPartition, partition)
	}
	rec := bson.M{}
	for k, v := range raw {
		rec[k] = v
	}
	switch id := rec[document.FieldID].(type) {
	case nil:
		rec[document.FieldID] = primitive.NewObjectID()
	case string:
		// hex ids are stored as ObjectIDs so lookups match in any case
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			rec[document.FieldID] = oid
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partitions[partition] = append(m.partitions[partition], rec)
	return idString(rec[document.FieldID]), nil
}

func (m *MemoryStore) Search(ctx context.Context, clauses []document.Clause, sortBy document.SortBy) ([]document.ScoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []document.ScoredDocument{}
	if len(clauses) == 0 {
		return out, nil
	}
	m.mu.RLock()
	for _, part := range m.partitions {
		for _, raw := range part {
			score, ok := scoreRecord(raw, clauses)
			if !ok {
				continue
			}
			hit := Normalize(raw)
			hit.Score = score
			out = append(out, hit)
		}
	}
	m.mu.RUnlock()
	document.SortDocuments(out, sortBy)
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, part := range m.partitions {
		for _, raw := range part {
			if stored, ok := raw[document.FieldID].(primitive.ObjectID); ok && stored == oid {
				d := Normalize(raw).Document
				return &d, nil
			}
		}
	}
	return nil, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// scoreRecord sums clause scores; a record matches when any clause does.
func scoreRecord(raw bson.M, clauses []document.Clause) (float64, bool) {
	total := 0.0
	for _, c := range clauses {
		total += scoreClause(raw, c)
	}
	return total, total > 0
}

func scoreClause(raw bson.M, c document.Clause) float64 {
	terms := tokenize(c.Query)
	score := 0.0
	for _, path := range c.Paths {
		tokens := tokenize(stringField(raw, path))
		for _, term := range terms {
			if d, ok := closest(term, tokens, c.MaxEdits); ok {
				score += 1 / float64(1+d)
			}
		}
	}
	return score
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// closest returns the smallest edit distance between term and any token,
// if it is within maxEdits.
func closest(term string, tokens []string, maxEdits int) (int, bool) {
	best := -1
	for _, tok := range tokens {
		d := levenshtein(term, tok)
		if d <= maxEdits && (best < 0 || d < best) {
			best = d
			if d == 0 {
				break
			}
		}
	}
	return best, best >= 0
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
