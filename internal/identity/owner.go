package identity

import "strings"

// Owner is the single privileged handle allowed to issue operational
// commands. The zero value means no owner is configured and never matches.
type Owner struct {
	normalized string
}

// NewOwner normalizes the configured owner handle (leading @ stripped,
// lowercased). An empty handle yields the zero Owner.
func NewOwner(handle string) Owner {
	return Owner{normalized: strings.ToLower(NormalizeHandle(handle))}
}

// Configured reports whether an owner handle is set.
func (o Owner) Configured() bool {
	return o.normalized != ""
}

// Matches reports whether the sender is the owner. Either the public key or
// the nametag matching is sufficient; trust derives from the relay layer
// having already authenticated the sender, no signatures are checked here.
func (o Owner) Matches(senderPubkey, senderNametag string) bool {
	if o.normalized == "" {
		return false
	}
	if strings.ToLower(senderPubkey) == o.normalized {
		return true
	}
	if senderNametag != "" {
		if strings.ToLower(NormalizeHandle(senderNametag)) == o.normalized {
			return true
		}
	}
	return false
}

// String returns the normalized owner handle, "" when unconfigured.
func (o Owner) String() string {
	return o.normalized
}
