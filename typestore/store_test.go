package typestore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidroman0O/typemap"
)

type Config struct {
	Host string
	Port int
}

type AppConfig struct {
	Debug bool
}

func TestServiceRegistryLifecycle(t *testing.T) {
	s := New()

	// The type is the key: no strings involved.
	Set(s, Config{Host: "localhost", Port: 5432})

	cfg, err := Get[Config](s)
	require.NoError(t, err)
	assert.Equal(t, Config{Host: "localhost", Port: 5432}, cfg)

	Set(s, AppConfig{Debug: true})
	assert.Equal(t, 2, s.Len())

	assert.True(t, Remove[AppConfig](s))
	assert.Equal(t, 1, s.Len())
	assert.False(t, Contains[AppConfig](s))
	assert.True(t, Contains[Config](s))
}

func TestOneValuePerType(t *testing.T) {
	s := New()

	// A second Set of the same type silently overwrites the first.
	Set(s, Config{Host: "a", Port: 1})
	Set(s, Config{Host: "b", Port: 2})

	assert.Equal(t, 1, s.Len())
	cfg, err := Get[Config](s)
	require.NoError(t, err)
	assert.Equal(t, "b", cfg.Host)
}

func TestAbsenceIsUniform(t *testing.T) {
	s := New()

	// Never set and removed look identical: ErrKeyNotFound naming the type.
	_, err := Get[Config](s)
	assert.ErrorIs(t, err, typemap.ErrKeyNotFound)
	assert.ErrorContains(t, err, "typestore.Config")

	Set(s, Config{Host: "x"})
	Remove[Config](s)

	_, err = Get[Config](s)
	assert.ErrorIs(t, err, typemap.ErrKeyNotFound)

	// Removing an absent type is a no-op that reports false.
	assert.False(t, Remove[Config](s))
}

func TestSetWithAndGetOrDefault(t *testing.T) {
	s := New()

	built := 0
	SetWith(s, func() Config {
		built++
		return Config{Host: "lazy", Port: 1}
	})
	assert.Equal(t, 1, built)

	cfg, err := Get[Config](s)
	require.NoError(t, err)
	assert.Equal(t, "lazy", cfg.Host)

	assert.Equal(t, AppConfig{Debug: true}, GetOrDefault(s, AppConfig{Debug: true}))
	assert.Equal(t, "lazy", GetOrDefault(s, Config{Host: "other"}).Host)
}

func TestScopedMutation(t *testing.T) {
	s := New()
	Set(s, Config{Host: "localhost", Port: 5432})

	port, err := With(s, func(c Config) int { return c.Port })
	require.NoError(t, err)
	assert.Equal(t, 5432, port)

	_, err = WithMut(s, func(c *Config) struct{} {
		c.Port = 6543
		return struct{}{}
	})
	require.NoError(t, err)

	cfg, err := Get[Config](s)
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)

	_, err = With(s, func(a AppConfig) bool { return a.Debug })
	assert.ErrorIs(t, err, typemap.ErrKeyNotFound)
}

func TestTypesAndClear(t *testing.T) {
	s := New()
	Set(s, Config{})
	Set(s, AppConfig{})

	assert.ElementsMatch(t, []string{"typestore.Config", "typestore.AppConfig"}, s.Types())

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Types())
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	Set(s, Config{Host: "localhost", Port: 0})

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := WithMut(s, func(c *Config) int {
				c.Port++
				return c.Port
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cfg, err := Get[Config](s)
	require.NoError(t, err)
	assert.Equal(t, n, cfg.Port)
}
