package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/learnrec/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, s.Recommend.DefaultLimit)
	assert.Equal(t, 24*time.Hour, s.Recommend.ExclusionWindow)
	assert.Equal(t, 0.2, s.Recommend.DifficultyBand)
	assert.Equal(t, 0.1, s.Recommend.DifficultyStretch)
	assert.Equal(t, 70.0, s.Recommend.WeakThreshold)
	assert.Equal(t, 3, s.Recommend.WeakTopN)
	assert.Equal(t, "cosine", s.Recommend.Strategy)
	assert.Equal(t, 365*24*time.Hour, s.Repetition.MaxInterval)
	assert.Equal(t, store.BackendMemory, s.Store.Backend)
	assert.Equal(t, "learnrec", s.Store.KeyPrefix)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeFile(t, "learnrec.yaml", `
recommend:
  default_limit: 8
  exclusion_window: 12h
  difficulty_band: 0.25
  strategy: heuristic
  candidate_rule: 'item.engagement_cost <= 30.0'
repetition:
  ease_factor: 2.0
store:
  backend: badger
  badger_in_memory: true
log:
  level: debug
  format: json
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, s.Recommend.DefaultLimit)
	assert.Equal(t, 12*time.Hour, s.Recommend.ExclusionWindow)
	assert.Equal(t, 0.25, s.Recommend.DifficultyBand)
	assert.Equal(t, "heuristic", s.Recommend.Strategy)
	assert.Equal(t, "item.engagement_cost <= 30.0", s.Recommend.CandidateRule)
	assert.Equal(t, 2.0, s.Repetition.EaseFactor)
	assert.Equal(t, store.BackendBadger, s.Store.Backend)
	assert.True(t, s.Store.BadgerInMemory)
	// 未覆盖的字段保持默认值
	assert.Equal(t, 70.0, s.Recommend.WeakThreshold)
	assert.Equal(t, 24*time.Hour, s.Repetition.InitialInterval)

	cfg := s.EngineConfig()
	assert.Equal(t, 8, cfg.DefaultLimit)
	assert.Equal(t, 2.0, cfg.Repetition.EaseFactor)
	assert.Equal(t, store.BackendBadger, s.StoreOptions().Backend)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "learnrec.yaml", "recommend:\n  default_limit: 8\n")
	t.Setenv("LEARNREC_RECOMMEND_DEFAULT_LIMIT", "3")
	t.Setenv("LEARNREC_RECOMMEND_EXCLUSION_WINDOW", "48h")
	t.Setenv("LEARNREC_STORE_KEY_PREFIX", "tenant-a")
	t.Setenv("LEARNREC_RECOMMEND_FEATURE_CACHE_SIZE", "256")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Recommend.DefaultLimit)
	assert.Equal(t, 48*time.Hour, s.Recommend.ExclusionWindow)
	assert.Equal(t, "tenant-a", s.Store.KeyPrefix)
	assert.Equal(t, 256, s.Recommend.FeatureCacheSize)
	assert.Equal(t, 256, s.EngineConfig().FeatureCacheSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown strategy", content: "recommend:\n  strategy: bm25\n"},
		{name: "band out of range", content: "recommend:\n  difficulty_band: 1.5\n"},
		{name: "redis without addr", content: "store:\n  backend: redis\n"},
		{name: "badger without path", content: "store:\n  backend: badger\n"},
		{name: "max below min", content: "repetition:\n  max_interval: 1h\n"},
		{name: "unknown backend", content: "store:\n  backend: etcd\n"},
		{name: "negative feature cache", content: "recommend:\n  feature_cache_size: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "recommend.default_limit", envKey("LEARNREC_RECOMMEND_DEFAULT_LIMIT"))
	assert.Equal(t, "store.redis_addr", envKey("LEARNREC_STORE_REDIS_ADDR"))
	assert.Equal(t, "metrics.enabled", envKey("LEARNREC_METRICS_ENABLED"))
}

func TestSettings_NewLogger(t *testing.T) {
	s := DefaultSettings()
	s.Log.Format = "json"
	s.Log.Level = "warn"

	var buf bytes.Buffer
	logger := s.NewLogger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
