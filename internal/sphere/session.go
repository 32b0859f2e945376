// Package sphere owns the wallet identity session: the narrow contract to
// the external Sphere SDK and the lifecycle manager around it. No wallet
// cryptography or relay transport lives here.
package sphere

import (
	"context"
	"time"
)

// Identity is the wallet identity exposed by an active session.
type Identity struct {
	PublicKey string
	Nametag   string
	Address   string
}

// DirectMessage is the receipt for an outbound DM.
type DirectMessage struct {
	ID string
}

// InboundMessage is a DM received over the relay network.
type InboundMessage struct {
	ID            string
	SenderPubkey  string
	SenderNametag string
	Content       string
	Timestamp     time.Time
}

// TransferToken is one token bundle within an incoming transfer.
type TransferToken struct {
	CoinID string
	Symbol string
	Amount string // smallest units
}

// IncomingTransfer is a token transfer received by the wallet.
type IncomingTransfer struct {
	ID            string
	SenderPubkey  string
	SenderNametag string
	Tokens        []TransferToken
	Memo          string
}

// IncomingPaymentRequest is a payment request addressed to the wallet.
type IncomingPaymentRequest struct {
	RequestID     string
	SenderPubkey  string
	SenderNametag string
	CoinID        string
	Symbol        string
	Amount        string // smallest units
	Message       string
	Status        string
}

// OutgoingPaymentRequest is a payment request this wallet sent to a peer.
type OutgoingPaymentRequest struct {
	ID               string
	RecipientPubkey  string
	RecipientNametag string
	CoinID           string
	Amount           string // smallest units
	Message          string
	Status           string
}

// Balance is an aggregated per-coin balance.
type Balance struct {
	CoinID      string
	Name        string
	Symbol      string
	TotalAmount string // smallest units
	Decimals    int
	TokenCount  int
}

// Token is an individual token held by the wallet.
type Token struct {
	ID        string
	CoinID    string
	Symbol    string
	Amount    string // smallest units
	Status    string
	CreatedAt time.Time
}

// SendParams describes a token transfer.
type SendParams struct {
	Recipient string
	Amount    string // smallest units
	CoinID    string
	Memo      string
}

// SendResult is the outcome of a token transfer. A non-empty Error is a
// business failure (e.g. insufficient balance), not a transport error.
type SendResult struct {
	ID     string
	Status string
	Error  string
}

// PaymentRequestParams describes an outgoing payment request.
type PaymentRequestParams struct {
	Amount  string // smallest units
	CoinID  string
	Message string
}

// PaymentRequestResult is the outcome of sending a payment request.
type PaymentRequestResult struct {
	Success   bool
	RequestID string
	Error     string
}

// RequestFilter filters payment request listings. Empty fields match all.
type RequestFilter struct {
	Status string
}

// TokenFilter filters token listings. Empty fields match all.
type TokenFilter struct {
	CoinID string
	Status string
}

// Session is the live wallet identity handle provided by the external SDK.
// Implementations must be safe for concurrent use; subscription callbacks
// for a single stream are invoked sequentially in arrival order.
type Session interface {
	Identity() Identity

	SendDM(ctx context.Context, to, text string) (DirectMessage, error)

	// Subscriptions return an unsubscribe func that must be idempotent.
	OnDirectMessage(handler func(InboundMessage)) (unsubscribe func())
	OnIncomingTransfer(handler func(IncomingTransfer)) (unsubscribe func())
	OnIncomingPaymentRequest(handler func(IncomingPaymentRequest)) (unsubscribe func())

	Balances(coinID string) []Balance
	Tokens(filter TokenFilter) []Token
	Send(ctx context.Context, params SendParams) (SendResult, error)
	SendPaymentRequest(ctx context.Context, recipient string, params PaymentRequestParams) (PaymentRequestResult, error)
	IncomingPaymentRequests(filter RequestFilter) []IncomingPaymentRequest
	OutgoingPaymentRequests(filter RequestFilter) []OutgoingPaymentRequest

	RegisterNametag(ctx context.Context, nametag string) error
	Destroy(ctx context.Context) error
}
