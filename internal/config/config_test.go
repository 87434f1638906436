package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, PublisherNone, cfg.Publisher)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.IndexMinChildren)
	assert.Equal(t, 50, cfg.IndexMaxChildren)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFile_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_DRIVER=redis\nREDIS_URL=redis://localhost:6379/0\nSERVER_PORT=9000\n"), 0o600))
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{StorageDriver: StorageMemory, Publisher: PublisherNone}},
		{name: "postgres without url", cfg: Config{StorageDriver: StoragePostgres, Publisher: PublisherNone}, wantErr: true},
		{name: "postgres", cfg: Config{StorageDriver: StoragePostgres, DBUrl: "postgres://x", Publisher: PublisherNone}},
		{name: "mongo without uri", cfg: Config{StorageDriver: StorageMongo, Publisher: PublisherNone}, wantErr: true},
		{name: "unknown storage", cfg: Config{StorageDriver: "cassandra", Publisher: PublisherNone}, wantErr: true},
		{name: "amqp without url", cfg: Config{StorageDriver: StorageMemory, Publisher: PublisherAMQP}, wantErr: true},
		{name: "nats", cfg: Config{StorageDriver: StorageMemory, Publisher: PublisherNATS}},
		{name: "unknown publisher", cfg: Config{StorageDriver: StorageMemory, Publisher: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
