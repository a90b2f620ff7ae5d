package storage

import (
	"context"
	"errors"

	"github.com/docsearch/docsearch-api/pkg/logger"
)

var ErrObjectNotFound = errors.New("object not found")

const (
	renderPrefix   = "renders/"
	pdfContentType = "application/pdf"
)

// ObjectStore is the subset of MinIOStorage the render cache needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// RenderCache keeps rendered PDFs keyed by document id. Documents never
// change, so entries never need invalidating.
type RenderCache struct {
	objects ObjectStore
}

func NewRenderCache(objects ObjectStore) *RenderCache {
	return &RenderCache{objects: objects}
}

// Get returns the cached PDF for id. Any storage failure is reported as a miss.
func (c *RenderCache) Get(ctx context.Context, id string) ([]byte, bool) {
	b, err := c.objects.Get(ctx, renderPrefix+id+".pdf")
	if err != nil {
		if !errors.Is(err, ErrObjectNotFound) {
			logger.Warnf("render cache get %s: %v", id, err)
		}
		return nil, false
	}
	return b, true
}

// Put stores a rendered PDF. Failures are logged and otherwise ignored.
func (c *RenderCache) Put(ctx context.Context, id string, pdf []byte) {
	if err := c.objects.Put(ctx, renderPrefix+id+".pdf", pdf, pdfContentType); err != nil {
		logger.Warnf("render cache put %s: %v", id, err)
	}
}
