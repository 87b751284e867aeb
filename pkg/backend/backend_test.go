package backend

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhere_backend/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{Documents: "memory", Files: "memory", Auth: "memory"},
		Storage: config.StorageConfig{Bucket: "test"},
	}
}

func TestOpenReturnsSameClient(t *testing.T) {
	t.Cleanup(func() { Close() })

	first, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	second, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotNil(t, first.Auth)
	assert.NotNil(t, first.Docs)
	assert.NotNil(t, first.Files)
}

func TestOpenConcurrent(t *testing.T) {
	t.Cleanup(func() { Close() })

	var wg sync.WaitGroup
	clients := make([]*Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := Open(context.Background(), memoryConfig())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
}

func TestCloseResetsClient(t *testing.T) {
	first, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	require.NoError(t, Close())

	second, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { Close() })

	assert.NotSame(t, first, second)
}

func TestNewIsNotShared(t *testing.T) {
	t.Cleanup(func() { Close() })

	shared, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	isolated, err := New(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer isolated.Close()

	assert.NotSame(t, shared, isolated)
}

func TestUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Backend.Files = "ftp"

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, `unknown file store "ftp"`)

	cfg = memoryConfig()
	cfg.Backend.Auth = "ldap"
	_, err = Open(context.Background(), cfg)
	assert.Error(t, err)

	// failure is not cached
	c, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.NotNil(t, c)
	Close()
}
