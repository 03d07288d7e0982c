package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REGION_SOURCE", "")
	t.Setenv("MONGO_URI", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, SourceMongo, cfg.RegionSource)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "vikrant_db", cfg.MongoDatabase)
	assert.Equal(t, "pincode_DB", cfg.MongoCollection)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REGION_SOURCE", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.RegionSource)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.PostgresDSN(), "port=6543")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REGION_SOURCE", "redis")
	_, err := Load()
	assert.ErrorContains(t, err, "REGION_SOURCE")

	t.Setenv("REGION_SOURCE", "mongo")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}
