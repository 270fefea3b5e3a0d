package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() map[string]any {
	return Defaults([]string{".git", "venv"}, "launch-gui.sh", 10*time.Second)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", testDefaults())
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Source.Type)
	assert.Equal(t, DefaultRepository, cfg.Source.Repository)
	assert.Equal(t, "VERSION", cfg.Install.VersionFile)
	assert.Equal(t, "launch-gui.sh", cfg.Install.Launcher)
	assert.Equal(t, []string{".git", "venv"}, cfg.Install.Protected)
	assert.Equal(t, 10*time.Second, cfg.Check.Timeout)
	assert.Empty(t, cfg.Check.Checksums)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  type: gitlab
  repository: acme/configurator
  base-url: https://gitlab.acme.io
install:
  root: /opt/keyflight
  protected: [".git", "profiles"]
check:
  timeout: 3s
  checksums: checksums.txt
`), 0o600))

	cfg, err := Load(path, testDefaults())
	require.NoError(t, err)
	assert.Equal(t, "gitlab", cfg.Source.Type)
	assert.Equal(t, "acme/configurator", cfg.Source.Repository)
	assert.Equal(t, "https://gitlab.acme.io", cfg.Source.BaseURL)
	assert.Equal(t, "/opt/keyflight", cfg.Install.Root)
	assert.Equal(t, []string{".git", "profiles"}, cfg.Install.Protected)
	assert.Equal(t, "VERSION", cfg.Install.VersionFile)
	assert.Equal(t, 3*time.Second, cfg.Check.Timeout)
	assert.Equal(t, "checksums.txt", cfg.Check.Checksums)
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigName+".toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[source]
type = "http"
base-url = "https://updates.keyflight.io"
`), 0o600))

	cfg, err := Load(path, testDefaults())
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Source.Type)
	assert.Equal(t, "https://updates.keyflight.io", cfg.Source.BaseURL)
	assert.Equal(t, DefaultRepository, cfg.Source.Repository)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KEYFLIGHT_SOURCE_TOKEN", "secret")
	t.Setenv("KEYFLIGHT_INSTALL_VERSION_FILE", "version.txt")
	t.Setenv("KEYFLIGHT_CHECK_TIMEOUT", "1m")

	cfg, err := Load("", testDefaults())
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Source.Token)
	assert.Equal(t, "version.txt", cfg.Install.VersionFile)
	assert.Equal(t, time.Minute, cfg.Check.Timeout)
}

func TestLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0o600))
	_, err := Load(path, testDefaults())
	assert.ErrorContains(t, err, "load config")

	t.Setenv("KEYFLIGHT_CHECK_TIMEOUT", "-1s")
	t.Chdir(t.TempDir())
	_, err = Load("", testDefaults())
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	cfg := &Config{
		Source:  SourceConfig{Type: "github", Repository: DefaultRepository, Token: "secret"},
		Install: InstallConfig{VersionFile: "VERSION", Protected: []string{".git"}},
	}
	output, err := Render(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(output), "secret")

	decoded := map[string]any{}
	require.NoError(t, toml.Unmarshal(output, &decoded))
	source := decoded["source"].(map[string]any)
	assert.Equal(t, "github", source["type"])
	assert.Equal(t, "********", source["token"])
	assert.Equal(t, "secret", cfg.Source.Token)
}

func TestLoadEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	// registers the variables to restore, then removes them for godotenv
	t.Setenv("KEYFLIGHT_SOURCE_REPOSITORY", "")
	t.Setenv("KEYFLIGHT_SOURCE_TYPE", "gitea")
	require.NoError(t, os.Unsetenv("KEYFLIGHT_SOURCE_REPOSITORY"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEYFLIGHT_SOURCE_REPOSITORY=acme/configurator\nKEYFLIGHT_SOURCE_TYPE=gitlab\n"), 0o600))
	require.NoError(t, LoadEnvFile(path))

	cfg, err := Load("", testDefaults())
	require.NoError(t, err)
	assert.Equal(t, "acme/configurator", cfg.Source.Repository)
	// the environment wins over the file
	assert.Equal(t, "gitea", cfg.Source.Type)

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
