package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  addr: ":9102"
logger:
  log_level: debug
elasticsearch:
  addresses:
    - http://es1:9200
    - http://es2:9200
  username: elastic
  include_doc_type: true
  refresh: wait_for
kafka:
  brokers: ["broker1:9092"]
  topics: ["records"]
  group_id: indexer
sink:
  high_water_mark: 10
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9102", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "elastic", cfg.Elasticsearch.Username)
	assert.True(t, cfg.Elasticsearch.IncludeDocType)
	assert.Equal(t, "wait_for", cfg.Elasticsearch.Refresh)
	assert.Equal(t, []string{"broker1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"records"}, cfg.Kafka.Topics)
	assert.Equal(t, "indexer", cfg.Kafka.GroupID)
	assert.Equal(t, "oldest", cfg.Kafka.InitialOffset)
	assert.Equal(t, 10, cfg.Sink.HighWaterMark)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Sink.HighWaterMark)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "esbulk", cfg.Kafka.GroupID)
	assert.False(t, cfg.Elasticsearch.IncludeDocType)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ESBULK_SINK_HIGH_WATER_MARK", "5")
	t.Setenv("ESBULK_ELASTICSEARCH_ADDRESSES", "http://a:9200,http://b:9200")
	t.Setenv("ESBULK_LOGGER_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sink.HighWaterMark)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad_log_level", content: "logger:\n  log_level: verbose\n"},
		{name: "bad_refresh", content: "elasticsearch:\n  refresh: sometimes\n"},
		{name: "bad_initial_offset", content: "kafka:\n  initial_offset: middle\n"},
		{name: "malformed_yaml", content: "sink: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
