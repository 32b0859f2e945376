// Package identity validates Unicity handles and decides owner authorization.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// NametagRE matches a mintable nametag: starts with a letter, then letters,
// digits, hyphens, or underscores, 32 chars max.
var NametagRE = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,31}$`)

// Accepted recipient forms: nametag with optional @, 64-66 char hex public
// key, or a PROXY:/DIRECT: prefixed address.
var recipientRE = regexp.MustCompile(`^@?\w[\w-]{0,31}$|^[0-9a-fA-F]{64,66}$|^(PROXY|DIRECT):.+$`)

// ValidRecipient reports whether input is syntactically addressable. No
// existence or reachability check is performed.
func ValidRecipient(input string) bool {
	return recipientRE.MatchString(strings.TrimSpace(input))
}

// ValidateRecipient returns a descriptive error when input matches none of
// the accepted recipient forms.
func ValidateRecipient(input string) error {
	if !ValidRecipient(input) {
		return fmt.Errorf("invalid recipient format: %q (expected @nametag, 64-66 char hex public key, or PROXY:/DIRECT: address)", input)
	}
	return nil
}

// ValidNametag reports whether input (without @) is a mintable nametag.
func ValidNametag(input string) bool {
	return NametagRE.MatchString(input)
}

// NormalizeHandle strips a leading @ and surrounding whitespace.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
