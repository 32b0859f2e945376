package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicitynetwork/uniclaw/internal/constants"
)

func TestLoadFromDefaultsOnly(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "", cfg.Nametag)
	assert.Equal(t, "", cfg.Owner)
	assert.True(t, cfg.Channel.Enabled)
	assert.Equal(t, "open", cfg.Channel.DMPolicy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, constants.DefaultAPIKey, cfg.APIKey)
	assert.Equal(t, constants.DefaultTrustbaseURL, cfg.TrustbaseURL)
	assert.Equal(t, constants.DefaultFaucetURL, cfg.FaucetURL)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFromMergesFile(t *testing.T) {
	dir := t.TempDir()
	file := []byte(`
network: dev
nametag: "@Aggie"
owner: boss
additionalRelays:
  - "wss://relay.example"
  - "   "
channel:
  dmPolicy: allowlist
  allowFrom:
    - "@boss"
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), file, 0o600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Network)
	assert.Equal(t, "Aggie", cfg.Nametag) // @ stripped
	assert.Equal(t, "boss", cfg.Owner)
	assert.Equal(t, []string{"wss://relay.example"}, cfg.AdditionalRelays)
	assert.Equal(t, "allowlist", cfg.Channel.DMPolicy)
	assert.Equal(t, []string{"@boss"}, cfg.Channel.AllowFrom)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format) // untouched default survives the merge
}

func TestNormalizeDropsInvalidFields(t *testing.T) {
	cfg := &Config{
		Network:          "moonnet",
		Nametag:          "@7bad tag",
		Owner:            "@also bad!",
		AdditionalRelays: []string{" ", "wss://ok"},
		Channel:          ChannelConfig{DMPolicy: "everyone"},
	}
	cfg.Normalize()

	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "", cfg.Nametag)
	assert.Equal(t, "", cfg.Owner)
	assert.Equal(t, []string{"wss://ok"}, cfg.AdditionalRelays)
	assert.Equal(t, "open", cfg.Channel.DMPolicy)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNormalizeEnvOverrides(t *testing.T) {
	t.Setenv(constants.TrustbaseURLEnv, "https://trustbase.example/tb.json")
	t.Setenv(constants.SecretPassphraseEnv, "pass123")

	cfg := &Config{}
	cfg.Normalize()

	assert.Equal(t, "https://trustbase.example/tb.json", cfg.TrustbaseURL)
	assert.Equal(t, "pass123", cfg.SecretPassphrase)
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data/uniclaw"}

	assert.Equal(t, filepath.Join("/data/uniclaw", constants.SecretFile), cfg.SecretPath())
	assert.Equal(t, filepath.Join("/data/uniclaw", constants.TrustbaseFile), cfg.TrustbasePath())
	assert.Equal(t, filepath.Join("/data/uniclaw", constants.TokensDir), cfg.TokensPath())
}
