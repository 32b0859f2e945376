package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicitynetwork/uniclaw/internal/assets"
	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/logging"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

func newFaucetTools(t *testing.T, sess *fakeSession, handler http.HandlerFunc) *Tools {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Network: "testnet", DataDir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.TrustbasePath(), []byte("{}"), 0o644))

	manager := sphere.NewManager(&fakeConnector{session: sess}, logging.Nop())
	_, err := manager.Init(context.Background(), cfg)
	require.NoError(t, err)

	registry, err := assets.Default()
	require.NoError(t, err)
	return New(manager, registry, NewFaucet(srv.URL), logging.Nop())
}

func TestTopUp(t *testing.T) {
	var got faucetRequest
	sess := &fakeSession{identity: sphere.Identity{Nametag: "aggie"}}
	tl := newFaucetTools(t, sess, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(faucetResponse{Success: true, Message: "queued", TxID: "tx42"})
	})

	res, err := tl.TopUp(context.Background(), "uct", "10")
	require.NoError(t, err)
	assert.Equal(t, "@aggie", got.UnicityID)
	assert.Equal(t, "UCT", got.Coin)
	assert.Equal(t, "10", got.Amount)
	assert.Contains(t, res.Text, "Faucet request accepted for @aggie")
	assert.Contains(t, res.Text, "tx42")
	assert.Contains(t, res.Text, "queued")
}

func TestTopUpRejected(t *testing.T) {
	sess := &fakeSession{identity: sphere.Identity{Nametag: "aggie"}}
	tl := newFaucetTools(t, sess, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(faucetResponse{Success: false, Message: "daily limit reached"})
	})

	res, err := tl.TopUp(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Faucet request failed: daily limit reached", res.Text)
}

func TestTopUpServerError(t *testing.T) {
	sess := &fakeSession{identity: sphere.Identity{Nametag: "aggie"}}
	tl := newFaucetTools(t, sess, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	res, err := tl.TopUp(context.Background(), "unicity", "")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Faucet request failed: rate limited")
}

func TestTopUpUnknownCoin(t *testing.T) {
	sess := &fakeSession{identity: sphere.Identity{Nametag: "aggie"}}
	tl := newFaucetTools(t, sess, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("faucet must not be called for an unknown coin")
	})

	_, err := tl.TopUp(context.Background(), "dogecoin", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown coin "dogecoin"`)
}

func TestTopUpRequiresNametag(t *testing.T) {
	sess := &fakeSession{identity: sphere.Identity{PublicKey: "pk"}}
	tl := newFaucetTools(t, sess, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("faucet must not be called without a nametag")
	})

	res, err := tl.TopUp(context.Background(), "unicity", "")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Top-up requires a nametag")
}
