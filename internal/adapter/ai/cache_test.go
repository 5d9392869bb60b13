package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

type countingGen struct {
	calls int
	out   string
	err   error
}

func (g *countingGen) Generate(_ domain.Context, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestGenerationCache_HitSkipsBase(t *testing.T) {
	t.Parallel()
	rdb := newTestRedis(t)
	base := &countingGen{out: "generated text"}
	gen := ai.NewGenerationCache(base, rdb, time.Minute)

	got, err := gen.Generate(context.Background(), "prompt one")
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)

	got, err = gen.Generate(context.Background(), "prompt one")
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)
	assert.Equal(t, 1, base.calls)
}

func TestGenerationCache_ErrorNotCached(t *testing.T) {
	t.Parallel()
	rdb := newTestRedis(t)
	base := &countingGen{err: errors.New("boom")}
	gen := ai.NewGenerationCache(base, rdb, time.Minute)

	_, err := gen.Generate(context.Background(), "p")
	require.Error(t, err)
	base.err = nil
	base.out = "recovered"
	got, err := gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, base.calls)
}

func TestGenerationCache_NilRedisPassthrough(t *testing.T) {
	t.Parallel()
	base := &countingGen{out: "x"}
	gen := ai.NewGenerationCache(base, nil, time.Minute)
	got, err := gen.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
