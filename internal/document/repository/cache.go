package repository

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/docsearch/docsearch-api/pkg/logger"
	"github.com/docsearch/docsearch-api/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPrefix = "docsearch:search:"
	// sharedQueryTimeout bounds a coalesced store query, which no longer
	// follows any single caller's deadline.
	sharedQueryTimeout = 30 * time.Second
)

// CachedStore wraps a Store with a Redis cache of search results. Lookups
// by id go straight to the wrapped store. Redis failures are logged and the
// query falls through to the wrapped store. Concurrent misses on one key
// share a single store query; a caller that gives up stops waiting without
// failing the others.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewCachedStore(next Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl}
}

func (s *CachedStore) Search(ctx context.Context, clauses []document.Clause, sortBy document.SortBy) ([]document.ScoredDocument, error) {
	key, err := searchCacheKey(clauses, sortBy)
	if err != nil {
		logger.Warnf("search cache key: %v", err)
		return s.next.Search(ctx, clauses, sortBy)
	}
	if docs, ok := s.get(ctx, key); ok {
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return docs, nil
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	ch := s.group.DoChan(key, func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedQueryTimeout)
		defer cancel()
		docs, err := s.next.Search(qctx, clauses, sortBy)
		if err != nil {
			return nil, err
		}
		s.set(qctx, key, docs)
		return docs, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]document.ScoredDocument)
		out := make([]document.ScoredDocument, len(shared))
		copy(out, shared)
		return out, nil
	}
}

func (s *CachedStore) GetByID(ctx context.Context, id string) (*document.Document, error) {
	return s.next.GetByID(ctx, id)
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *CachedStore) get(ctx context.Context, key string) ([]document.ScoredDocument, bool) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("search cache get %s: %v", key, err)
		}
		return nil, false
	}
	var docs []document.ScoredDocument
	if err := json.Unmarshal(b, &docs); err != nil {
		logger.Warnf("search cache decode %s: %v", key, err)
		return nil, false
	}
	return docs, true
}

func (s *CachedStore) set(ctx context.Context, key string, docs []document.ScoredDocument) {
	b, err := json.Marshal(docs)
	if err != nil {
		logger.Warnf("search cache encode %s: %v", key, err)
		return
	}
	if err := s.client.Set(ctx, key, b, s.ttl).Err(); err != nil {
		logger.Warnf("search cache set %s: %v", key, err)
	}
}

func searchCacheKey(clauses []document.Clause, sortBy document.SortBy) (string, error) {
	b, err := json.Marshal(struct {
		Clauses []document.Clause `json:"clauses"`
		SortBy  document.SortBy   `json:"sortBy"`
	}{clauses, sortBy})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%s%x", cacheKeyPrefix, sum[:16]), nil
}
