package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/logging"
	"github.com/unicitynetwork/uniclaw/internal/securefile"
)

// scriptedPrompter replays canned answers in order.
type scriptedPrompter struct {
	answers []string
	secrets []string
}

func (p *scriptedPrompter) Ask(prompt, def string) (string, error) {
	if len(p.answers) == 0 {
		return def, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (p *scriptedPrompter) AskSecret(prompt string) (string, error) {
	if len(p.secrets) == 0 {
		return "", nil
	}
	s := p.secrets[0]
	p.secrets = p.secrets[1:]
	return s, nil
}

func loadWritten(t *testing.T, path string) *config.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return &cfg
}

func TestWizardWritesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &config.Config{DataDir: dir}
	cfg.Normalize()

	p := &scriptedPrompter{answers: []string{"@Aggie", "boss", "testnet"}}
	w := NewWizard(p, logging.Nop())

	written, err := w.Run(cfg, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	out := loadWritten(t, path)
	assert.Equal(t, "Aggie", out.Nametag)
	assert.Equal(t, "boss", out.Owner)
	assert.Equal(t, "testnet", out.Network)
}

func TestWizardRejectsInvalidNametagUntilValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &config.Config{DataDir: dir}
	cfg.Normalize()

	p := &scriptedPrompter{answers: []string{"7bad name", "aggie", "", "dev"}}
	w := NewWizard(p, logging.Nop())

	_, err := w.Run(cfg, path)
	require.NoError(t, err)

	out := loadWritten(t, path)
	assert.Equal(t, "aggie", out.Nametag)
	assert.Equal(t, "", out.Owner)
	assert.Equal(t, "dev", out.Network)
}

func TestWizardEncryptsExistingPlaintextSecret(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataDir: dir}
	cfg.Normalize()

	require.NoError(t, securefile.WriteSecret(cfg.SecretPath(), "seed words"))

	p := &scriptedPrompter{
		answers: []string{"aggie", "", "testnet"},
		secrets: []string{"hunter2"},
	}
	w := NewWizard(p, logging.Nop())

	_, err := w.Run(cfg, filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	out, err := securefile.ReadEncryptedJSON[struct {
		Secret string `json:"secret"`
	}](cfg.SecretPath(), []byte("hunter2"), []byte(constants.SecretAAD))
	require.NoError(t, err)
	assert.Equal(t, "seed words", out.Secret)
}
