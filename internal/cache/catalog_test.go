package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescatefresco/rescate-fresco/internal/cache"
	"github.com/rescatefresco/rescate-fresco/internal/testutil"
)

func TestCatalogRoundTrip(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	catalog := cache.NewCatalog(client)
	ctx := context.Background()

	key := catalog.Key(ctx, cache.FilterKey("manzana", "frutas", ""))

	var miss []string
	assert.False(t, catalog.Get(ctx, key, &miss))

	catalog.Set(ctx, key, []string{"uno", "dos"})

	var hit []string
	require.True(t, catalog.Get(ctx, key, &hit))
	assert.Equal(t, []string{"uno", "dos"}, hit)
}

func TestCatalogInvalidateRotatesKeys(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	catalog := cache.NewCatalog(client)
	ctx := context.Background()

	key := catalog.Key(ctx, "todo")
	catalog.Set(ctx, key, []string{"viejo"})

	catalog.Invalidate(ctx)

	// La clave nueva incorpora la versión: la entrada anterior queda huérfana.
	rotated := catalog.Key(ctx, "todo")
	assert.NotEqual(t, key, rotated)

	var out []string
	assert.False(t, catalog.Get(ctx, rotated, &out))
}

func TestCatalogEntriesExpire(t *testing.T) {
	server, client := testutil.SetupTestRedis(t)
	catalog := cache.NewCatalog(client)
	ctx := context.Background()

	key := catalog.Key(ctx, "todo")
	catalog.Set(ctx, key, []string{"uno"})

	server.FastForward(31 * time.Second)

	var out []string
	assert.False(t, catalog.Get(ctx, key, &out))
}

func TestFilterKey(t *testing.T) {
	assert.Equal(t, "q=pan|c=panaderia|e=2026-05-02", cache.FilterKey("pan", "panaderia", "2026-05-02"))
	assert.Equal(t, "q=|c=|e=", cache.FilterKey("", "", ""))
}
