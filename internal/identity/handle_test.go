package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRecipient(t *testing.T) {
	accepted := []string{
		"@alice",
		"alice",
		"agent_7",
		"bot-two",
		strings.Repeat("a", 64),  // 64-char hex pubkey
		"02" + strings.Repeat("ab", 32), // 66-char compressed pubkey
		"PROXY:relay.example/abc",
		"DIRECT:inbox-42",
		"  @alice  ", // surrounding whitespace tolerated
	}
	for _, in := range accepted {
		assert.True(t, ValidRecipient(in), "expected %q to be accepted", in)
		assert.NoError(t, ValidateRecipient(in))
	}

	rejected := []string{
		"",
		"   ",
		"not valid!",
		"@",
		"@-leadingdash",
		strings.Repeat("f", 67), // too long for a pubkey
		"PROXY:",
	}
	for _, in := range rejected {
		assert.False(t, ValidRecipient(in), "expected %q to be rejected", in)
		err := ValidateRecipient(in)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid recipient format")
	}
}

func TestValidNametag(t *testing.T) {
	assert.True(t, ValidNametag("alice"))
	assert.True(t, ValidNametag("a"))
	assert.True(t, ValidNametag("agent_7-x"))
	assert.True(t, ValidNametag(strings.Repeat("a", 32)))

	assert.False(t, ValidNametag(""))
	assert.False(t, ValidNametag("7agent")) // must start with a letter
	assert.False(t, ValidNametag("@alice"))
	assert.False(t, ValidNametag(strings.Repeat("a", 33)))
	assert.False(t, ValidNametag("has space"))
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "alice", NormalizeHandle("@alice"))
	assert.Equal(t, "alice", NormalizeHandle("  @alice "))
	assert.Equal(t, "alice", NormalizeHandle("alice"))
	assert.Equal(t, "", NormalizeHandle("  "))
}
