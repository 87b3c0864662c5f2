package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rescatefresco/rescate-fresco/internal/config"
)

// ======================================================
// CATALOG CACHE
// ======================================================

// Cache del listado público de lotes. La invalidación es por versión: cada
// escritura sobre lotes incrementa un contador que forma parte de la clave,
// así no hace falta barrer claves viejas (expiran solas por TTL).

const (
	versionKey = "catalog:ver"
	entryTTL   = 30 * time.Second
)

type Catalog struct {
	rdb *redis.Client
}

func NewRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
}

func NewCatalog(rdb *redis.Client) *Catalog {
	return &Catalog{rdb: rdb}
}

// Key arma la clave de una consulta incluyendo la versión vigente.
func (c *Catalog) Key(ctx context.Context, parts ...string) string {
	ver, err := c.rdb.Get(ctx, versionKey).Result()
	if err != nil {
		ver = "0"
	}

	key := "catalog:" + ver
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Get devuelve true si hubo hit. Los errores de Redis se tratan como miss:
// el catálogo siempre puede responder desde la base.
func (c *Catalog) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, dest) == nil
}

func (c *Catalog) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	c.rdb.Set(ctx, key, raw, entryTTL)
}

// Invalidate sube la versión; las entradas previas quedan huérfanas.
func (c *Catalog) Invalidate(ctx context.Context) {
	c.rdb.Incr(ctx, versionKey)
}

// FilterKey normaliza los filtros del listado en un fragmento de clave.
func FilterKey(query, category, expiresAfter string) string {
	return fmt.Sprintf("q=%s|c=%s|e=%s", query, category, expiresAfter)
}
