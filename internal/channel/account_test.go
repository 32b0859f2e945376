package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

func TestResolveAccount(t *testing.T) {
	cfg := &config.Config{
		Channel: config.ChannelConfig{Enabled: true, Name: "uniclaw-main", DMPolicy: "open"},
	}

	// Before init: enabled but not configured.
	acc := ResolveAccount(cfg, "", nil)
	assert.Equal(t, "default", acc.AccountID)
	assert.Equal(t, "uniclaw-main", acc.Name)
	assert.True(t, acc.Enabled)
	assert.False(t, acc.Configured)
	assert.Empty(t, acc.PublicKey)

	// With a session the wallet identity fills in.
	sess := &fakeSession{identity: sphere.Identity{PublicKey: "agentkey", Nametag: "aggie"}}
	acc = ResolveAccount(cfg, "default", sess)
	assert.True(t, acc.Configured)
	assert.Equal(t, "agentkey", acc.PublicKey)
	assert.Equal(t, "aggie", acc.Nametag)

	// A session whose identity has no public key yet does not count as
	// configured.
	empty := &fakeSession{}
	acc = ResolveAccount(cfg, "default", empty)
	assert.False(t, acc.Configured)

	// A live session without a minted nametag falls back to the configured
	// one.
	cfg.Nametag = "aggie-cfg"
	unnamed := &fakeSession{identity: sphere.Identity{PublicKey: "agentkey"}}
	acc = ResolveAccount(cfg, "default", unnamed)
	assert.True(t, acc.Configured)
	assert.Equal(t, "aggie-cfg", acc.Nametag)
	cfg.Nametag = ""

	// Unknown account ids resolve disabled instead of erroring.
	acc = ResolveAccount(cfg, "other", sess)
	assert.Equal(t, "other", acc.AccountID)
	assert.False(t, acc.Enabled)
	assert.False(t, acc.Configured)

	assert.Equal(t, []string{"default"}, ListAccountIDs())
	assert.Equal(t, "default", DefaultAccountID())
}

func TestResolveDMPolicy(t *testing.T) {
	cfg := &config.Config{
		Channel: config.ChannelConfig{DMPolicy: "allowlist", AllowFrom: []string{"@boss"}},
	}
	p := ResolveDMPolicy(cfg, "default")
	assert.Equal(t, "allowlist", p.Policy)
	assert.Equal(t, []string{"@boss"}, p.AllowFrom)
	assert.Equal(t, "channels.uniclaw.dmPolicy", p.PolicyPath)
	assert.Equal(t, "channels.uniclaw.allowFrom", p.AllowFromPath)

	// Returned slice is a copy.
	p.AllowFrom[0] = "mutated"
	assert.Equal(t, "@boss", cfg.Channel.AllowFrom[0])
}
