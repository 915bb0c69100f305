package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory and clears credential variables so the
// developer's own environment does not leak into the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	for _, key := range []string{"CONSCHAT_API_TOKEN", "OPENAI_API_TOKEN", "OPENAI_API_KEY", "CONSCHAT_MODEL", "CONSCHAT_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.True(t, cfg.Color)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Mock.Address)
	assert.Equal(t, []string{"banned"}, cfg.Mock.BannedWords)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestLoadEnv(t *testing.T) {
	chdir(t)
	t.Setenv("CONSCHAT_API_TOKEN", "sk-env")
	t.Setenv("CONSCHAT_MODEL", "gpt-4o")
	t.Setenv("CONSCHAT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.APIToken)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOpenAIEnv(t *testing.T) {
	chdir(t)
	t.Setenv("OPENAI_API_TOKEN", "sk-openai")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.APIToken)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONSCHAT_API_TOKEN=sk-dotenv\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-dotenv", cfg.APIToken)
}

func TestLoadFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "chat.yaml")
	data := `api_token: " sk-file "
endpoint: http://localhost:8080/v1/chat/completions
timeout: 30s
color: false
mock:
  banned_words: [foo, bar]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.APIToken)
	assert.Equal(t, "http://localhost:8080/v1/chat/completions", cfg.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Color)
	assert.Equal(t, []string{"foo", "bar"}, cfg.Mock.BannedWords)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{APIToken: "sk", Endpoint: DefaultEndpoint, Model: DefaultModel}
	assert.NoError(t, cfg.Validate())

	cfg.Model = ""
	assert.ErrorContains(t, cfg.Validate(), "model is empty")
}
