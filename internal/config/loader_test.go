package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagemapper/internal/constants"
)

const minimalYAML = `
broker:
  kafka:
    brokers: [localhost:9092]
    group_id: image-mapper
mapper:
  system_code: http://cmdb.ft.com/systems/methode-web-pub
  content_uri_prefix: http://image-model-transformer/image/model
  external_binary_url_base_path: http://images.example.com/
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "kafka", cfg.Broker.Type)
	assert.Equal(t, constants.DefaultInputTopic, cfg.Broker.Kafka.InputTopic)
	assert.Equal(t, constants.DefaultOutputTopic, cfg.Broker.Kafka.OutputTopic)
	assert.Equal(t, constants.DefaultIdentifierAuthority, cfg.Mapper.IdentifierAuthority)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_Durations(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML+`
server:
  read_timeout: 3s
  write_timeout: 4s
`))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BROKER_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("MAPPER_EXTERNAL_BINARY_URL_WHITELIST", `^https://a\.com/.*,^https://b\.com/.*`)
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Broker.Kafka.Brokers)
	assert.Equal(t, []string{`^https://a\.com/.*`, `^https://b\.com/.*`}, cfg.Mapper.ExternalBinaryURLWhitelist)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, minimalYAML+`
server:
  port: 0
`))
	assert.Error(t, err)
}
