// Package securefile writes wallet secrets and other sensitive files with
// restrictive permissions and atomic replacement. Encrypted envelopes use
// Argon2id for the KDF and XChaCha20-Poly1305 for AEAD.
package securefile

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidPassphraseOrCorrupt is returned when decryption fails. Kept
// generic to avoid leaking which of the two it was.
var ErrInvalidPassphraseOrCorrupt = errors.New("invalid passphrase or corrupted file")

// Envelope is the on-disk encryption envelope, including KDF settings.
type Envelope struct {
	Version int `json:"version"`

	ArgonTime    uint32 `json:"argon_time"`
	ArgonMemory  uint32 `json:"argon_memory_kib"`
	ArgonThreads uint8  `json:"argon_threads"`
	ArgonKeyLen  uint32 `json:"argon_key_len"`

	SaltB64  string `json:"salt_b64"`
	NonceB64 string `json:"nonce_b64"`
	CTB64    string `json:"ct_b64"`
}

// defaultEnvelope holds KDF defaults sized for a local secret file.
var defaultEnvelope = Envelope{
	Version:      1,
	ArgonTime:    2,
	ArgonMemory:  64 * 1024, // KiB
	ArgonThreads: 1,
	ArgonKeyLen:  32,
}

// WriteFileAtomic writes data to path via a temp file and rename, creating
// the parent directory with dirPerm if needed.
func WriteFileAtomic(path string, data []byte, perm, dirPerm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// WriteSecret persists a plaintext secret owner-only (0600, 0700 dir).
func WriteSecret(path, secret string) error {
	return WriteFileAtomic(path, []byte(strings.TrimRight(secret, "\n")+"\n"), 0o600, 0o700)
}

// ReadSecret reads a plaintext secret written by WriteSecret.
func ReadSecret(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// WriteEncryptedJSON marshals v, encrypts it under passphrase, and writes the
// envelope atomically to path. aad, when non-empty, must match on read.
func WriteEncryptedJSON[T any](path string, v T, passphrase, aad []byte) error {
	plain, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("rand salt: %w", err)
	}

	env := defaultEnvelope
	key := argon2.IDKey(passphrase, salt, env.ArgonTime, env.ArgonMemory, env.ArgonThreads, env.ArgonKeyLen)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("aead: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("rand nonce: %w", err)
	}

	ct := aead.Seal(nil, nonce, plain, aad)

	env.SaltB64 = base64.StdEncoding.EncodeToString(salt)
	env.NonceB64 = base64.StdEncoding.EncodeToString(nonce)
	env.CTB64 = base64.StdEncoding.EncodeToString(ct)

	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return WriteFileAtomic(path, b, 0o600, 0o700)
}

// ReadEncryptedJSON reads an envelope from path, decrypts it, and unmarshals
// the payload into T.
func ReadEncryptedJSON[T any](path string, passphrase, aad []byte) (T, error) {
	var zero T

	b, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read file: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return zero, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return zero, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(env.SaltB64)
	if err != nil {
		return zero, fmt.Errorf("decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.NonceB64)
	if err != nil {
		return zero, fmt.Errorf("decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(env.CTB64)
	if err != nil {
		return zero, fmt.Errorf("decode ciphertext: %w", err)
	}

	key := argon2.IDKey(passphrase, salt, env.ArgonTime, env.ArgonMemory, env.ArgonThreads, env.ArgonKeyLen)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return zero, fmt.Errorf("aead: %w", err)
	}

	plain, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return zero, ErrInvalidPassphraseOrCorrupt
	}

	var out T
	if err := json.Unmarshal(plain, &out); err != nil {
		return zero, fmt.Errorf("unmarshal json: %w", err)
	}
	return out, nil
}
