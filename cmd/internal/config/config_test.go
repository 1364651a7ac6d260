package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("AUTH_DEV_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":6060", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.Cognito.Enabled())
	assert.Equal(t, 5, cfg.ContactRatePerMinute)
	assert.Equal(t, "dashboard_events", cfg.KafkaTopic)
}

func TestFromEnvRequiresAuthSource(t *testing.T) {
	t.Setenv("AUTH_DEV_SECRET", "")
	t.Setenv("COGNITO_USER_POOL_ID", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "AUTH_DEV_SECRET")
}

func TestFromEnvS3NeedsBucket(t *testing.T) {
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-1_pool")
	t.Setenv("COGNITO_CLIENT_ID", "client")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "S3_BUCKET")

	t.Setenv("S3_BUCKET", "documents")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Cognito.Enabled())
	assert.Equal(t, "documents", cfg.S3Bucket)
}

func TestParseBoolEnv(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		assert.True(t, parseBoolEnv(s), s)
	}
	for _, s := range []string{"", "0", "off", "nope"} {
		assert.False(t, parseBoolEnv(s), s)
	}
}
