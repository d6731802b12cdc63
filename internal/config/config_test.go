package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSportIDsCoverTheRegistry(t *testing.T) {
	ids := SportIDs()
	assert.Len(t, ids, len(SportRegistry))
	for _, id := range ids {
		sc, ok := SportRegistry[id]
		require.True(t, ok, "sport %s missing from registry", id)
		assert.Equal(t, id, sc.ID)
		assert.NotZero(t, sc.CurrentSeason)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NEON_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scoracle")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30, cfg.APISportsCallsPerMin)
	assert.True(t, cfg.CacheEnabled)
	assert.False(t, cfg.SweepEnabled)
	assert.Empty(t, cfg.APISportsKey)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "hello")
	t.Setenv("X_INT", "42")
	t.Setenv("X_INT_BAD", "not-a-number")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_LIST", "a, b ,,c")

	assert.Equal(t, "hello", envOr("X_STR", "fallback"))
	assert.Equal(t, "fallback", envOr("X_MISSING", "fallback"))
	assert.Equal(t, 42, envInt("X_INT", 1))
	assert.Equal(t, 1, envInt("X_INT_BAD", 1))
	assert.True(t, envBool("X_BOOL", false))
	assert.Equal(t, []string{"a", "b", "c"}, envList("X_LIST", nil))
}
