package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "docsearch_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("SEARCH_CACHE_TTL", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongo", cfg.Store.Backend)
	require.Equal(t, "docsearch_test", cfg.MongoDB.Database)
	require.Equal(t, "documents", cfg.MongoDB.Collection)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, uint64(100), cfg.MongoDB.MaxPoolSize)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	require.Equal(t, DefaultSearchFields, cfg.Search.Fields)
	require.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfig_SearchFields(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SEARCH_FIELDS", " FileName , Text,,Author ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"FileName", "Text", "Author"}, cfg.Search.Fields)
}

func TestLoadConfig_MongoRequiresURI(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "MONGODB_URI")
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "STORE_BACKEND")
}

func TestLoadConfig_BlankSearchFields(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SEARCH_FIELDS", " , ")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "SEARCH_FIELDS")
}
