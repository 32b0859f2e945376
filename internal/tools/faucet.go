package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Faucet requests testnet tokens from the public faucet service.
type Faucet struct {
	URL        string
	HTTPClient *http.Client
}

// NewFaucet builds a faucet client for the given endpoint.
func NewFaucet(url string) *Faucet {
	return &Faucet{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type faucetRequest struct {
	UnicityID string `json:"unicityId"`
	Coin      string `json:"coin"`
	Amount    string `json:"amount,omitempty"`
}

type faucetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxID    string `json:"txId"`
}

// TopUp asks the faucet to fund the wallet. The faucet addresses wallets by
// nametag, so an unnamed wallet cannot be topped up.
func (t *Tools) TopUp(ctx context.Context, coin, amount string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	if t.faucet == nil {
		return Result{}, fmt.Errorf("faucet not configured")
	}
	nametag := sess.Identity().Nametag
	if nametag == "" {
		return Result{Text: "Top-up requires a nametag. Run `uniclaw setup` to configure one."}, nil
	}
	if coin == "" {
		coin = "unicity"
	}
	name, _, ok := t.resolveCoin(coin)
	if !ok {
		return Result{}, t.unknownCoin(coin)
	}

	resp, err := t.faucet.request(ctx, faucetRequest{
		UnicityID: "@" + nametag,
		Coin:      t.registry.Symbol(name),
		Amount:    amount,
	})
	if err != nil {
		return Result{}, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "request rejected"
		}
		return Result{Text: fmt.Sprintf("Faucet request failed: %s", msg)}, nil
	}
	text := fmt.Sprintf("Faucet request accepted for @%s", nametag)
	if resp.TxID != "" {
		text += fmt.Sprintf(" (tx: %s)", resp.TxID)
	}
	if resp.Message != "" {
		text += " — " + resp.Message
	}
	return Result{Text: text}, nil
}

func (f *Faucet) request(ctx context.Context, body faucetRequest) (faucetResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return faucetResponse{}, fmt.Errorf("encode faucet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(payload))
	if err != nil {
		return faucetResponse{}, fmt.Errorf("build faucet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return faucetResponse{}, fmt.Errorf("call faucet %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return faucetResponse{}, fmt.Errorf("read faucet response: %w", err)
	}
	// A non-2xx answer is the faucet saying no (rate limit, bad coin), not a
	// broken call: surface it as a failed request.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(raw))
		if detail == "" {
			detail = resp.Status
		}
		return faucetResponse{Success: false, Message: detail}, nil
	}

	var out faucetResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return faucetResponse{}, fmt.Errorf("decode faucet response: %w", err)
	}
	return out, nil
}
