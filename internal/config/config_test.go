package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8082", cfg.HTTPAddr)
	require.Equal(t, "transaction-engine", cfg.ServiceName)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 15*time.Second, cfg.SweepInterval)
	require.Equal(t, 45*time.Second, cfg.LeaderLockTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("LEADER_LOCK_TTL", "90")

	cfg := Load()

	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)
	require.Equal(t, 90*time.Second, cfg.LeaderLockTTL)
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "soon")

	require.Equal(t, 15*time.Second, Load().SweepInterval)
}
