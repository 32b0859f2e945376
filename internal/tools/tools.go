// Package tools implements the wallet operations exposed to the agent:
// messaging, transfers, payment requests, balances and listings. Every
// operation returns a Result whose text is meant to be shown verbatim;
// user-level failures (insufficient balance, rejected request) land in
// the text, while broken contracts (bad recipient, unknown coin, bad
// amount) and missing sessions come back as errors.
package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/unicitynetwork/uniclaw/internal/assets"
	"github.com/unicitynetwork/uniclaw/internal/identity"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

// Result is the outcome of a tool invocation.
type Result struct {
	Text string
}

// Tools bundles the wallet operations around a lifecycle manager.
type Tools struct {
	manager  *sphere.Manager
	registry *assets.Registry
	faucet   *Faucet
	log      *zap.SugaredLogger
}

// New builds the toolset. faucet may be nil when top-ups are unavailable.
func New(manager *sphere.Manager, registry *assets.Registry, faucet *Faucet, log *zap.SugaredLogger) *Tools {
	return &Tools{manager: manager, registry: registry, faucet: faucet, log: log}
}

var amountRE = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// validAmount accepts positive decimal amounts like "1", "0.5", "10.25".
func validAmount(amount string) bool {
	if !amountRE.MatchString(amount) {
		return false
	}
	return strings.Trim(strings.ReplaceAll(amount, ".", ""), "0") != ""
}

// resolveCoin maps user input to (canonical name, sdk coin id). The second
// return is what the SDK wants; it falls back to the canonical name for
// coins without a registered id.
func (t *Tools) resolveCoin(input string) (string, string, bool) {
	name := t.registry.ResolveCoinID(input)
	if name == "" {
		return "", "", false
	}
	if id, ok := t.registry.CoinID(name); ok {
		return name, id, true
	}
	return name, name, true
}

func (t *Tools) unknownCoin(input string) error {
	return fmt.Errorf("unknown coin %q (available: %s)",
		input, strings.Join(t.registry.AvailableSymbols(), ", "))
}

// SendMessage delivers a DM to a peer.
func (t *Tools) SendMessage(ctx context.Context, to, message string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	if err := identity.ValidateRecipient(to); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(message) == "" {
		return Result{}, fmt.Errorf("message must not be empty")
	}
	dm, err := sess.SendDM(ctx, to, message)
	if err != nil {
		return Result{}, fmt.Errorf("send message to %s: %w", to, err)
	}
	return Result{Text: fmt.Sprintf("Message sent to %s (id: %s)", to, dm.ID)}, nil
}

// SendTokens transfers an amount of a coin to a recipient. The amount is
// human-readable ("1.5"); conversion to smallest units happens here.
func (t *Tools) SendTokens(ctx context.Context, to, amount, coin, memo string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	if err := identity.ValidateRecipient(to); err != nil {
		return Result{}, err
	}
	if !validAmount(amount) {
		return Result{}, fmt.Errorf("invalid amount %q: expected a positive decimal number", amount)
	}
	name, sdkCoinID, ok := t.resolveCoin(coin)
	if !ok {
		return Result{}, t.unknownCoin(coin)
	}

	smallest := t.registry.ParseAmount(amount, name)
	res, err := sess.Send(ctx, sphere.SendParams{
		Recipient: to,
		Amount:    smallest,
		CoinID:    sdkCoinID,
		Memo:      memo,
	})
	if err != nil {
		return Result{}, fmt.Errorf("send %s %s to %s: %w", amount, coin, to, err)
	}
	if res.Error != "" {
		return Result{Text: fmt.Sprintf("Transfer failed: %s", res.Error)}, nil
	}
	t.log.Infow("tokens sent", "to", to, "coin", name, "amount", smallest, "transfer_id", res.ID)
	return Result{Text: fmt.Sprintf("Transfer %s — %s %s sent to %s (status: %s)",
		res.ID, amount, t.registry.Symbol(name), to, res.Status)}, nil
}

// RequestPayment asks a peer to pay this wallet.
func (t *Tools) RequestPayment(ctx context.Context, from, amount, coin, message string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	if err := identity.ValidateRecipient(from); err != nil {
		return Result{}, err
	}
	if !validAmount(amount) {
		return Result{}, fmt.Errorf("invalid amount %q: expected a positive decimal number", amount)
	}
	name, sdkCoinID, ok := t.resolveCoin(coin)
	if !ok {
		return Result{}, t.unknownCoin(coin)
	}

	res, err := sess.SendPaymentRequest(ctx, from, sphere.PaymentRequestParams{
		Amount:  t.registry.ParseAmount(amount, name),
		CoinID:  sdkCoinID,
		Message: message,
	})
	if err != nil {
		return Result{}, fmt.Errorf("request %s %s from %s: %w", amount, coin, from, err)
	}
	if !res.Success {
		reason := res.Error
		if reason == "" {
			reason = "unknown error"
		}
		return Result{Text: fmt.Sprintf("Payment request failed: %s", reason)}, nil
	}
	return Result{Text: fmt.Sprintf("Payment request %s — requested %s %s from %s",
		res.RequestID, amount, t.registry.Symbol(name), from)}, nil
}

// GetBalance reports aggregated balances, optionally for a single coin.
func (t *Tools) GetBalance(ctx context.Context, coin string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	filter := ""
	if coin != "" {
		_, sdkCoinID, ok := t.resolveCoin(coin)
		if !ok {
			return Result{}, t.unknownCoin(coin)
		}
		filter = sdkCoinID
	}

	balances := sess.Balances(filter)
	if len(balances) == 0 {
		return Result{Text: "No tokens in wallet."}, nil
	}

	var b strings.Builder
	b.WriteString("Balances:\n")
	for _, bal := range balances {
		human := assets.ToHumanReadable(bal.TotalAmount, bal.Decimals)
		sym := bal.Symbol
		if sym == "" {
			sym = t.registry.Symbol(bal.CoinID)
		}
		fmt.Fprintf(&b, "  %s %s (%d tokens)\n", human, sym, bal.TokenCount)
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}

// ListTokens enumerates individual tokens, optionally filtered by coin.
func (t *Tools) ListTokens(ctx context.Context, coin, status string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	filter := sphere.TokenFilter{Status: status}
	if coin != "" {
		_, sdkCoinID, ok := t.resolveCoin(coin)
		if !ok {
			return Result{}, t.unknownCoin(coin)
		}
		filter.CoinID = sdkCoinID
	}

	tokens := sess.Tokens(filter)
	if len(tokens) == 0 {
		return Result{Text: "No tokens found."}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tokens (%d):\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintf(&b, "  %s (status: %s, id: %s)\n",
			t.registry.FormatAmount(tok.Amount, tok.CoinID), tok.Status, tok.ID)
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}
