package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-lab/internal/config"
	"quote-lab/internal/domain"
	"quote-lab/internal/storage/memory"
)

func TestOpen_MemoryWithoutDSN(t *testing.T) {
	b, err := Open(context.Background(), config.Default().Storage, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, Memory, b.Name)
	assert.IsType(t, &memory.QuoteSampleStore{}, b.Store)

	require.NoError(t, b.Store.InsertBulk(context.Background(), []*domain.QuoteSample{{Symbol: "HLX", Timestamp: 1}}))
	symbols, err := b.Store.ListSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"HLX"}, symbols)
}

func TestOpen_BadPostgresDSN(t *testing.T) {
	cfg := config.Default().Storage
	cfg.PostgresDSN = "://not a dsn"

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpen_BadClickhouseDSN(t *testing.T) {
	cfg := config.Default().Storage
	cfg.ClickhouseDSN = "http://localhost:9000/db"

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}
