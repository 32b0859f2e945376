// Package setup implements the first-run wizard: it collects the nametag,
// owner and network interactively, writes the config file, and optionally
// encrypts an already-persisted wallet secret.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/identity"
	"github.com/unicitynetwork/uniclaw/internal/securefile"
)

// Wizard runs the interactive setup flow.
type Wizard struct {
	prompter Prompter
	log      *zap.SugaredLogger
}

// NewWizard builds a wizard around the given prompter.
func NewWizard(p Prompter, log *zap.SugaredLogger) *Wizard {
	return &Wizard{prompter: p, log: log}
}

// Run walks the user through configuration, merging answers into cfg, and
// writes the result to path (config.DefaultPath when empty). It returns the
// path written.
func (w *Wizard) Run(cfg *config.Config, path string) (string, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	nametag, err := w.askNametag(cfg.Nametag)
	if err != nil {
		return "", err
	}
	cfg.Nametag = nametag

	owner, err := w.askOwner(cfg.Owner)
	if err != nil {
		return "", err
	}
	cfg.Owner = owner

	network, err := w.askNetwork(cfg.Network)
	if err != nil {
		return "", err
	}
	cfg.Network = network

	if err := w.maybeEncryptSecret(cfg); err != nil {
		return "", err
	}

	cfg.Normalize()
	if err := writeConfig(path, cfg); err != nil {
		return "", err
	}
	w.log.Infow("configuration written", "path", path)
	return path, nil
}

func (w *Wizard) askNametag(current string) (string, error) {
	for {
		answer, err := w.prompter.Ask("Agent nametag (without @)", current)
		if err != nil {
			return "", err
		}
		answer = identity.NormalizeHandle(answer)
		if answer == "" || identity.ValidNametag(answer) {
			return answer, nil
		}
		fmt.Println("Invalid nametag: use letters, digits, - or _, starting with a letter (max 32 chars).")
	}
}

func (w *Wizard) askOwner(current string) (string, error) {
	for {
		answer, err := w.prompter.Ask("Owner nametag (who may command the agent, empty for none)", current)
		if err != nil {
			return "", err
		}
		answer = identity.NormalizeHandle(answer)
		if answer == "" || identity.ValidNametag(answer) {
			return answer, nil
		}
		fmt.Println("Invalid owner nametag.")
	}
}

func (w *Wizard) askNetwork(current string) (string, error) {
	if current == "" {
		current = "testnet"
	}
	for {
		answer, err := w.prompter.Ask("Network (testnet, mainnet, dev)", current)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if config.ValidNetworks[answer] {
			return answer, nil
		}
		fmt.Println("Unknown network.")
	}
}

// maybeEncryptSecret offers to encrypt a plaintext wallet secret left on
// disk by a passphrase-less first run.
func (w *Wizard) maybeEncryptSecret(cfg *config.Config) error {
	secretPath := cfg.SecretPath()
	secret, err := securefile.ReadSecret(secretPath)
	if err != nil || secret == "" {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(secret), "{") {
		// Already an encrypted envelope.
		return nil
	}

	passphrase, err := w.prompter.AskSecret("Passphrase to encrypt the wallet secret (empty to keep plaintext)")
	if err != nil {
		return err
	}
	if passphrase == "" {
		return nil
	}

	payload := struct {
		Secret string `json:"secret"`
	}{Secret: secret}
	if err := securefile.WriteEncryptedJSON(secretPath, payload, []byte(passphrase), []byte(constants.SecretAAD)); err != nil {
		return fmt.Errorf("encrypt wallet secret: %w", err)
	}
	fmt.Printf("Wallet secret encrypted. Export %s before starting the agent.\n", constants.SecretPassphraseEnv)
	return nil
}

func writeConfig(path string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	header := []byte("# uniclaw configuration. Generated by `uniclaw setup`.\n")
	if err := os.MkdirAll(filepath.Dir(path), constants.DirectoryPerm); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := securefile.WriteFileAtomic(path, append(header, data...), constants.FilePerm, constants.DirectoryPerm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
