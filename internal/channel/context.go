// Package channel bridges relay events into the host reply pipeline: it
// normalizes inbound DMs, transfers and payment requests into a common
// context, tags owner authorization, and delivers at most one reply per
// event back over the relay.
package channel

// InboundContext is the normalized view of a relay event handed to the
// reply pipeline. Field values are final once FinalizeInboundContext has
// run; handlers never mutate it afterwards.
type InboundContext struct {
	// Body is the text presented to the pipeline; RawBody preserves the
	// original content before any finalization rewrites.
	Body    string
	RawBody string

	// From is the peer handle ("@nametag" or a public key form), To the
	// receiving identity's handle.
	From string
	To   string

	// SessionKey partitions pipeline state per conversation or event.
	SessionKey string

	ChatType  string
	Surface   string
	Provider  string
	AccountID string

	SenderName string
	SenderID   string

	// IsOwner marks the configured owner. CommandAuthorized gates
	// operational commands; only owner DMs ever set it.
	IsOwner           bool
	CommandAuthorized bool
}

func shortKey(pubkey string) string {
	if len(pubkey) <= 12 {
		return pubkey
	}
	return pubkey[:12]
}
