package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unicitynetwork/uniclaw/internal/assets"
	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/identity"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

const defaultReadyTimeout = 30 * time.Second

// ErrAlreadyRunning is returned by Start while a previous run is active.
var ErrAlreadyRunning = errors.New("channel already running")

// Dispatcher subscribes to the wallet session's inbound streams and feeds
// normalized events into the reply pipeline. One dispatcher per process;
// a second Start while running is rejected, and stopping is idempotent.
type Dispatcher struct {
	manager  *sphere.Manager
	pipeline ReplyPipeline
	registry *assets.Registry
	owner    identity.Owner
	log      *zap.SugaredLogger

	readyTimeout time.Duration

	mu      sync.Mutex
	running bool
	runCtx  context.Context
	unsubs  []func()
	status  Status
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithReadyTimeout bounds how long Start waits for the wallet session.
func WithReadyTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) { disp.readyTimeout = d }
}

// NewDispatcher wires the bridge between the wallet session and the reply
// pipeline. owner may be the zero value when no owner is configured.
func NewDispatcher(manager *sphere.Manager, pipeline ReplyPipeline, registry *assets.Registry, owner identity.Owner, log *zap.SugaredLogger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		manager:      manager,
		pipeline:     pipeline,
		registry:     registry,
		owner:        owner,
		log:          log,
		readyTimeout: defaultReadyTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start waits for the wallet session, subscribes to the inbound streams and
// publishes a running status. It returns once subscriptions are live; the
// run is bound to ctx, and cancelling it stops the dispatcher. Starting an
// already running dispatcher returns ErrAlreadyRunning so a caller's ctx is
// never silently detached from the run.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.mu.Unlock()

	sess, err := d.manager.WaitReady(ctx, d.readyTimeout)
	if err != nil {
		d.mu.Lock()
		d.status.LastError = err.Error()
		d.mu.Unlock()
		return fmt.Errorf("channel start: wallet session not ready: %w", err)
	}

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running = true
	d.runCtx = ctx
	d.unsubs = []func(){
		sess.OnDirectMessage(func(msg sphere.InboundMessage) { d.handleDM(sess, msg) }),
		sess.OnIncomingTransfer(func(t sphere.IncomingTransfer) { d.handleTransfer(sess, t) }),
		sess.OnIncomingPaymentRequest(func(r sphere.IncomingPaymentRequest) { d.handlePaymentRequest(sess, r) }),
	}
	d.status = Status{
		Running:     true,
		RunID:       uuid.NewString(),
		AccountID:   constants.DefaultAccountID,
		LastStartAt: time.Now(),
		LastStopAt:  d.status.LastStopAt,
	}
	runID := d.status.RunID
	d.mu.Unlock()

	d.log.Infow("channel started", "run_id", runID, "nametag", sess.Identity().Nametag)

	go func() {
		<-ctx.Done()
		d.Stop()
	}()
	return nil
}

// Stop unsubscribes from every stream exactly once and publishes a stopped
// status. Safe to call concurrently with a racing context cancellation.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	unsubs := d.unsubs
	d.unsubs = nil
	wasRunning := d.running
	d.running = false
	d.runCtx = nil
	if wasRunning {
		d.status.Running = false
		d.status.LastStopAt = time.Now()
	}
	d.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if wasRunning {
		d.log.Infow("channel stopped")
	}
}

// Status returns a snapshot of the dispatcher state.
func (d *Dispatcher) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Dispatcher) dispatchCtx() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.runCtx != nil {
		return d.runCtx
	}
	return context.Background()
}

func (d *Dispatcher) handleDM(sess sphere.Session, msg sphere.InboundMessage) {
	peer := msg.SenderPubkey
	if msg.SenderNametag != "" {
		peer = "@" + msg.SenderNametag
	}
	senderName := msg.SenderNametag
	if senderName == "" {
		senderName = shortKey(msg.SenderPubkey)
	}
	isOwner := d.owner.Matches(msg.SenderPubkey, msg.SenderNametag)

	ic := InboundContext{
		Body:              msg.Content,
		RawBody:           msg.Content,
		From:              peer,
		To:                selfHandle(sess),
		SessionKey:        constants.SessionKeyDM + peer,
		ChatType:          "direct",
		Surface:           constants.Surface,
		Provider:          constants.Provider,
		AccountID:         constants.DefaultAccountID,
		SenderName:        senderName,
		SenderID:          msg.SenderPubkey,
		IsOwner:           isOwner,
		CommandAuthorized: isOwner,
	}
	d.dispatch(sess, ic, peer, "dm")
}

func (d *Dispatcher) handleTransfer(sess sphere.Session, t sphere.IncomingTransfer) {
	peer := eventPeer(t.SenderPubkey, t.SenderNametag)

	parts := make([]string, 0, len(t.Tokens))
	for _, tok := range t.Tokens {
		parts = append(parts, d.formatTokenAmount(tok.Amount, tok.CoinID, tok.Symbol))
	}
	body := fmt.Sprintf("[Payment received] %s from %s", strings.Join(parts, ", "), peer)
	if t.Memo != "" {
		body += ` — "` + t.Memo + `"`
	}

	ic := InboundContext{
		Body:       body,
		RawBody:    body,
		From:       peer,
		To:         selfHandle(sess),
		SessionKey: constants.SessionKeyTransfer + t.ID,
		ChatType:   "direct",
		Surface:    constants.Surface,
		Provider:   constants.Provider,
		AccountID:  constants.DefaultAccountID,
		SenderName: eventSenderName(t.SenderPubkey, t.SenderNametag),
		SenderID:   t.SenderPubkey,
		// Transfers carry money, not commands: never authorized, even from
		// the owner.
		IsOwner:           false,
		CommandAuthorized: false,
	}
	d.dispatch(sess, ic, peer, "transfer")
}

func (d *Dispatcher) handlePaymentRequest(sess sphere.Session, r sphere.IncomingPaymentRequest) {
	peer := eventPeer(r.SenderPubkey, r.SenderNametag)

	body := fmt.Sprintf("[Payment request] %s is requesting %s",
		peer, d.formatTokenAmount(r.Amount, r.CoinID, r.Symbol))
	if r.Message != "" {
		body += ` — "` + r.Message + `"`
	}
	body += fmt.Sprintf(" (request id: %s)", r.RequestID)

	ic := InboundContext{
		Body:              body,
		RawBody:           body,
		From:              peer,
		To:                selfHandle(sess),
		SessionKey:        constants.SessionKeyPayReq + r.RequestID,
		ChatType:          "direct",
		Surface:           constants.Surface,
		Provider:          constants.Provider,
		AccountID:         constants.DefaultAccountID,
		SenderName:        eventSenderName(r.SenderPubkey, r.SenderNametag),
		SenderID:          r.SenderPubkey,
		IsOwner:           false,
		CommandAuthorized: false,
	}
	d.dispatch(sess, ic, peer, "payment_request")
}

// dispatch hands one event to the pipeline on its own goroutine so slow
// pipeline work never blocks the SDK's callback thread.
func (d *Dispatcher) dispatch(sess sphere.Session, ic InboundContext, peer, kind string) {
	ctx := d.dispatchCtx()
	go func() {
		d.pipeline.FinalizeInboundContext(&ic)
		req := DispatchRequest{
			Context: ic,
			Deliver: func(ctx context.Context, p Payload) error {
				return d.deliver(ctx, sess, peer, p)
			},
		}
		if err := d.pipeline.DispatchReply(ctx, req); err != nil {
			d.log.Errorw("reply dispatch failed", "kind", kind, "peer", peer, "error", err)
		}
	}()
}

// deliver sends the pipeline's reply back to the peer. Empty payloads are
// dropped; send failures are logged and swallowed so a flaky relay never
// crashes the pipeline.
func (d *Dispatcher) deliver(ctx context.Context, sess sphere.Session, peer string, p Payload) error {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil
	}
	if sess == nil {
		d.log.Warnw("dropping reply, no active session", "peer", peer)
		return nil
	}
	if _, err := sess.SendDM(ctx, peer, text); err != nil {
		d.log.Errorw("failed to deliver reply", "peer", peer, "error", err)
	}
	return nil
}

func (d *Dispatcher) formatTokenAmount(amount, coinID, symbol string) string {
	if name := d.registry.ResolveCoinID(coinID); name != "" {
		return d.registry.FormatAmount(amount, name)
	}
	sym := symbol
	if sym == "" {
		sym = strings.ToUpper(coinID)
	}
	return assets.ToHumanReadable(amount, 0) + " " + sym
}

// selfHandle is how the receiving identity names itself in contexts.
func selfHandle(sess sphere.Session) string {
	id := sess.Identity()
	switch {
	case id.Nametag != "":
		return id.Nametag
	case id.PublicKey != "":
		return id.PublicKey
	default:
		return "agent"
	}
}

// eventPeer is the peer handle for money events: nametag when known,
// truncated public key otherwise.
func eventPeer(pubkey, nametag string) string {
	if nametag != "" {
		return "@" + nametag
	}
	return shortKey(pubkey) + "…"
}

func eventSenderName(pubkey, nametag string) string {
	if nametag != "" {
		return nametag
	}
	return shortKey(pubkey)
}
