package sphere

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/securefile"
)

// ErrNotInitialized is returned when a wallet-dependent call is made before
// a session is ready, or when waiters observe a failed initialization.
var ErrNotInitialized = errors.New("sphere session not initialized. Run `uniclaw init` first")

// ErrNoConnector is returned when no SDK connector has been linked in.
var ErrNoConnector = errors.New("no sphere connector registered")

// InitResult is what Init hands back to every caller that shared the attempt.
type InitResult struct {
	Session Session
	Created bool
}

// secretPayload is the encrypted-envelope body for the wallet secret.
type secretPayload struct {
	Secret string `json:"secret"`
}

type initAttempt struct {
	done   chan struct{}
	result InitResult
	err    error
}

// readySignal is a one-shot deferred: resolved with the session on success,
// with nil on failure or teardown, and recreated fresh after every reset so
// waiters are never left hanging.
type readySignal struct {
	once    sync.Once
	ch      chan struct{}
	session Session
}

func newReadySignal() *readySignal {
	return &readySignal{ch: make(chan struct{})}
}

func (r *readySignal) resolve(s Session) {
	r.once.Do(func() {
		r.session = s
		close(r.ch)
	})
}

// Manager owns the single wallet session for the process. Concurrent Init
// calls before completion collapse into one underlying attempt; only the
// manager may create or destroy the session.
type Manager struct {
	connector  Connector
	httpClient *http.Client
	log        *zap.SugaredLogger

	mu       sync.Mutex
	session  Session
	inflight *initAttempt
	ready    *readySignal
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient overrides the client used for the trustbase download.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// NewManager builds a manager around the given connector.
func NewManager(connector Connector, log *zap.SugaredLogger, opts ...Option) *Manager {
	m := &Manager{
		connector:  connector,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
		ready:      newReadySignal(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init returns the existing session, joins an in-flight attempt, or starts
// a new one. A failed attempt clears shared state so the next call retries
// from scratch.
func (m *Manager) Init(ctx context.Context, cfg *config.Config) (InitResult, error) {
	m.mu.Lock()
	if m.session != nil {
		s := m.session
		m.mu.Unlock()
		return InitResult{Session: s, Created: false}, nil
	}
	if att := m.inflight; att != nil {
		m.mu.Unlock()
		select {
		case <-att.done:
			return att.result, att.err
		case <-ctx.Done():
			return InitResult{}, ctx.Err()
		}
	}
	att := &initAttempt{done: make(chan struct{})}
	m.inflight = att
	m.mu.Unlock()

	res, err := m.doInit(ctx, cfg)

	m.mu.Lock()
	if m.inflight == att {
		if err != nil {
			m.inflight = nil
			m.ready.resolve(nil)
			m.ready = newReadySignal()
		} else {
			m.session = res.Session
			m.ready.resolve(res.Session)
		}
	}
	m.mu.Unlock()

	att.result, att.err = res, err
	close(att.done)
	return res, err
}

func (m *Manager) doInit(ctx context.Context, cfg *config.Config) (InitResult, error) {
	if m.connector == nil {
		return InitResult{}, ErrNoConnector
	}

	for _, dir := range []string{cfg.DataDir, cfg.TokensPath()} {
		if err := os.MkdirAll(dir, constants.DirectoryPerm); err != nil {
			return InitResult{}, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	if err := EnsureTrustbase(ctx, m.httpClient, cfg.TrustbaseURL, cfg.TrustbasePath()); err != nil {
		return InitResult{}, err
	}

	res, err := m.connector.Connect(ctx, ProviderConfig{
		Network:          cfg.Network,
		DataDir:          cfg.DataDir,
		TokensDir:        cfg.TokensPath(),
		TrustbasePath:    cfg.TrustbasePath(),
		APIKey:           cfg.APIKey,
		AdditionalRelays: cfg.AdditionalRelays,
		AutoGenerate:     true,
		Nametag:          cfg.Nametag,
		Debug:            true,
	})
	if err != nil {
		return InitResult{}, fmt.Errorf("sphere connect: %w", err)
	}
	sess := res.Session

	if res.Created && res.GeneratedSecret != "" {
		if err := m.persistSecret(cfg, res.GeneratedSecret); err != nil {
			return InitResult{}, err
		}
		m.log.Infow("wallet secret saved", "path", cfg.SecretPath())
	}

	id := sess.Identity()

	if res.Created && cfg.Nametag == "" {
		m.log.Warnw("wallet created without nametag; run `uniclaw setup` to configure one")
	}
	if cfg.Nametag != "" && id.Nametag != "" && cfg.Nametag != id.Nametag {
		m.log.Warnw("config nametag differs from wallet nametag; wallet nametag is used",
			"config_nametag", cfg.Nametag, "wallet_nametag", id.Nametag)
	}

	// Mint only when the wallet has no nametag yet. Failure is non-fatal:
	// the name may already be taken.
	if cfg.Nametag != "" && id.Nametag == "" {
		if err := sess.RegisterNametag(ctx, cfg.Nametag); err != nil {
			m.log.Warnw("failed to mint nametag", "nametag", cfg.Nametag, "error", err)
		}
	}

	if cfg.Owner != "" && res.Created {
		m.sendGreeting(ctx, sess, cfg.Owner)
	}

	return InitResult{Session: sess, Created: res.Created}, nil
}

func (m *Manager) persistSecret(cfg *config.Config, secret string) error {
	path := cfg.SecretPath()
	if cfg.SecretPassphrase != "" {
		err := securefile.WriteEncryptedJSON(path, secretPayload{Secret: secret},
			[]byte(cfg.SecretPassphrase), []byte(constants.SecretAAD))
		if err != nil {
			return fmt.Errorf("save encrypted wallet secret: %w", err)
		}
		return nil
	}
	if err := securefile.WriteSecret(path, secret); err != nil {
		return fmt.Errorf("save wallet secret: %w", err)
	}
	return nil
}

func (m *Manager) sendGreeting(ctx context.Context, sess Session, owner string) {
	nametag := sess.Identity().Nametag
	if nametag == "" {
		nametag = "unknown"
	}
	greeting := fmt.Sprintf("I'm online, master! I am @%s. What can I do for you?", nametag)
	if _, err := sess.SendDM(ctx, "@"+owner, greeting); err != nil {
		m.log.Warnw("failed to send greeting to owner", "owner", owner, "error", err)
		return
	}
	m.log.Infow("greeting sent to owner", "owner", owner)
}

// Get returns the ready session or ErrNotInitialized.
func (m *Manager) Get() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNotInitialized
	}
	return m.session, nil
}

// GetOrNull returns the ready session, or nil when none exists.
func (m *Manager) GetOrNull() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// WaitReady blocks until a session becomes ready, even if initialization
// has not started yet. It distinguishes success, failed initialization
// (ErrNotInitialized), and timeout.
func (m *Manager) WaitReady(ctx context.Context, timeout time.Duration) (Session, error) {
	m.mu.Lock()
	if m.session != nil {
		s := m.session
		m.mu.Unlock()
		return s, nil
	}
	ready := m.ready
	m.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ready.ch:
		if ready.session == nil {
			return nil, ErrNotInitialized
		}
		return ready.session, nil
	case <-timer.C:
		return nil, fmt.Errorf("sphere initialization timed out after %s", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Destroy tears down the active session and resets the manager so a later
// Init starts from scratch. Pending waiters observe "no session".
func (m *Manager) Destroy(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.inflight = nil
	m.ready.resolve(nil)
	m.ready = newReadySignal()
	m.mu.Unlock()

	if sess != nil {
		if err := sess.Destroy(ctx); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	return nil
}

// WalletExists reports whether a wallet secret has been persisted.
func WalletExists(cfg *config.Config) bool {
	_, err := os.Stat(cfg.SecretPath())
	return err == nil
}
