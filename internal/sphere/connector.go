package sphere

import (
	"context"
	"sync"
)

// ProviderConfig is everything the SDK needs to construct a session.
type ProviderConfig struct {
	Network          string
	DataDir          string
	TokensDir        string
	TrustbasePath    string
	APIKey           string
	AdditionalRelays []string

	// AutoGenerate creates a fresh wallet when none exists on disk.
	AutoGenerate bool
	// Nametag is the desired handle for a freshly generated wallet; minting
	// is handled by the lifecycle manager, not the connector.
	Nametag string
	Debug   bool
}

// ConnectResult is the outcome of constructing a session.
type ConnectResult struct {
	Session Session
	// Created is true when a new wallet was generated rather than reused.
	Created bool
	// GeneratedSecret is the recovery secret of a freshly generated wallet,
	// empty otherwise. The manager persists it; the connector must not.
	GeneratedSecret string
}

// Connector constructs sessions. The SDK-backed implementation registers
// itself at init time; tests inject fakes directly into the Manager.
type Connector interface {
	Connect(ctx context.Context, cfg ProviderConfig) (ConnectResult, error)
}

var (
	registerMu sync.Mutex
	registered Connector
)

// Register installs the process-wide connector, database/sql driver style.
// Later registrations replace earlier ones.
func Register(c Connector) {
	registerMu.Lock()
	defer registerMu.Unlock()
	registered = c
}

// Registered returns the installed connector, nil when none is linked in.
func Registered() Connector {
	registerMu.Lock()
	defer registerMu.Unlock()
	return registered
}
