package config

import (
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Env{
		MaxRuns:         100,
		MaxSize:         100,
		MaxShrinks:      1000,
		WaitProbability: 0.1,
		LogLevel:        "info",
	}, cfg)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, []Option{
		MaxRunsOption{MaxRuns: 100},
		MaxSizeOption{MaxSize: 100},
		MaxShrinksOption{MaxShrinks: 1000},
		WaitProbabilityOption{P: 0.1},
	}, cfg.Options())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CONTRACTMODEL_SEED", "42")
	t.Setenv("CONTRACTMODEL_MAX_RUNS", "7")
	t.Setenv("CONTRACTMODEL_NUM_CONCURRENT", "3")
	t.Setenv("CONTRACTMODEL_IGNORE_ERRORS", "true")
	t.Setenv("CONTRACTMODEL_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	opts := cfg.Options()
	assert.Contains(t, opts, SeedOption{Seed: 42})
	assert.Contains(t, opts, MaxRunsOption{MaxRuns: 7})
	assert.Contains(t, opts, NumConcurrentOption{N: 3})
	assert.Contains(t, opts, IgnoreErrorOption{})
	assert.NotContains(t, opts, IgnorePanicOption{})

	defer log.SetLevel(log.GetLevel())
	require.NoError(t, cfg.ConfigureLogging())
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestFromEnvError(t *testing.T) {
	for i, test := range envErrorTest {
		t.Setenv(test.key, test.value)
		_, err := FromEnv()
		if err == nil {
			t.Errorf("Expected an error on test %v", i)
			continue
		}
		if !strings.Contains(err.Error(), "parse env") {
			t.Errorf("Expected parse env prefix on test %v, got %v", i, err)
		}
		t.Setenv(test.key, test.valid)
	}
}

var envErrorTest = []struct {
	key   string
	value string
	valid string
}{
	{"CONTRACTMODEL_MAX_RUNS", "many", "100"},
	{"CONTRACTMODEL_WAIT_PROBABILITY", "often", "0.1"},
	{"CONTRACTMODEL_LOG_LEVEL", "loud", "info"},
}
