package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: topsecret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "conduit", cfg.JWT.Issuer)
	assert.Equal(t, "articles", cfg.Elasticsearch.ArticlesIndex())
	assert.Equal(t, "article_events", cfg.Kafka.ArticleEventsTopic())
	assert.False(t, cfg.Kafka.Enabled)
	assert.EqualValues(t, 1, cfg.App.NodeID)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 9090
  node_id: 7
database:
  driver: sqlite
  path: /tmp/conduit.db
jwt:
  secret: abc
  issuer: blog
elasticsearch:
  index:
    articles: posts
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.EqualValues(t, 7, cfg.App.NodeID)
	assert.Equal(t, "/tmp/conduit.db", cfg.Database.DSN())
	assert.Equal(t, "blog", cfg.JWT.Issuer)
	assert.Equal(t, "posts", cfg.Elasticsearch.ArticlesIndex())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: fromfile\n")
	t.Setenv("JWT_SECRET", "fromenv")
	t.Setenv("APP_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.JWT.Secret)
	assert.Equal(t, 7000, cfg.App.Port)
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  port: 8080\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Load(writeConfig(t, "jwt:\n  secret: x\ndatabase:\n  driver: mysql\n"))
	assert.ErrorContains(t, err, "database.driver")

	_, err = Load(writeConfig(t, "jwt:\n  secret: x\napp:\n  node_id: 1024\n"))
	assert.ErrorContains(t, err, "app.node_id")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
