package provider

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fvelazquezb100/league-bets-settlement/internal/settlement/result"
)

// ResultCache guarda MatchResults normalizados no Redis.
// Resultados são imutáveis; o TTL só limita o crescimento do cache
type ResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewResultCache(c *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{Client: c, TTL: ttl}
}

func key(fixtureID int64) string {
	return "result:fixture:" + strconv.FormatInt(fixtureID, 10)
}

// Get retorna o resultado cacheado de uma fixture, se houver
func (c *ResultCache) Get(ctx context.Context, fixtureID int64) (*result.MatchResult, bool, error) {
	b, err := c.Client.Get(ctx, key(fixtureID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var r result.MatchResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

// Set grava o resultado normalizado com o TTL configurado
func (c *ResultCache) Set(ctx context.Context, r *result.MatchResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(r.FixtureID), b, c.TTL).Err()
}
