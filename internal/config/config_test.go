package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "SERVER_PORT", "STORAGE_DRIVER", "UPLOAD_DRIVER", "SESSION_TTL", "FEATURED_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, UploadLocal, cfg.UploadDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.FeaturedLimit)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server_port: "9000"
storage_driver: postgres
session_ttl: 2h
cors_origins:
  - https://homes.example.com
s3:
  bucket: listing-images
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "listing-images", cfg.S3.Bucket)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "cassandra"}},
		{name: "s3 without bucket", env: map[string]string{"UPLOAD_DRIVER": "s3", "S3_BUCKET": ""}},
		{name: "unknown upload driver", env: map[string]string{"UPLOAD_DRIVER": "ftp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
