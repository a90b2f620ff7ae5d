package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return b, nil
}

func TestRenderCache_PutThenGet(t *testing.T) {
	objs := newMemObjects()
	c := NewRenderCache(objs)
	ctx := context.Background()

	_, ok := c.Get(ctx, "abc")
	require.False(t, ok)

	c.Put(ctx, "abc", []byte("%PDF-1.3"))
	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, []byte("%PDF-1.3"), got)
	require.Equal(t, "application/pdf", objs.types["renders/abc.pdf"])
}

func TestRenderCache_BackendFailureIsMiss(t *testing.T) {
	objs := newMemObjects()
	objs.err = errors.New("minio unreachable")
	c := NewRenderCache(objs)

	c.Put(context.Background(), "abc", []byte("x"))
	_, ok := c.Get(context.Background(), "abc")
	require.False(t, ok)
}
