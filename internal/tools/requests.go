package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

// ListPaymentRequests renders pending payment requests. direction is
// "incoming", "outgoing" or "all"; status filters by request status when
// non-empty.
func (t *Tools) ListPaymentRequests(ctx context.Context, direction, status string) (Result, error) {
	sess, err := t.manager.Get()
	if err != nil {
		return Result{}, err
	}
	switch direction {
	case "incoming", "outgoing", "all":
	case "":
		direction = "all"
	default:
		return Result{}, fmt.Errorf("invalid direction %q: expected incoming, outgoing or all", direction)
	}

	filter := sphere.RequestFilter{Status: status}
	var b strings.Builder
	empty := true

	if direction == "incoming" || direction == "all" {
		incoming := sess.IncomingPaymentRequests(filter)
		if len(incoming) > 0 {
			empty = false
			fmt.Fprintf(&b, "Incoming payment requests (%d):\n", len(incoming))
			for _, r := range incoming {
				peer := r.SenderNametag
				if peer != "" {
					peer = "@" + peer
				} else {
					peer = r.SenderPubkey
				}
				fmt.Fprintf(&b, "  %s — %s from %s", r.RequestID,
					t.registry.FormatAmount(r.Amount, r.CoinID), peer)
				if r.Message != "" {
					fmt.Fprintf(&b, " %q", r.Message)
				}
				fmt.Fprintf(&b, " (status: %s)\n", r.Status)
			}
		}
	}

	if direction == "outgoing" || direction == "all" {
		outgoing := sess.OutgoingPaymentRequests(filter)
		if len(outgoing) > 0 {
			empty = false
			fmt.Fprintf(&b, "Outgoing payment requests (%d):\n", len(outgoing))
			for _, r := range outgoing {
				peer := r.RecipientNametag
				if peer != "" {
					peer = "@" + peer
				} else {
					peer = r.RecipientPubkey
				}
				fmt.Fprintf(&b, "  %s — %s to %s", r.ID,
					t.registry.FormatAmount(r.Amount, r.CoinID), peer)
				if r.Message != "" {
					fmt.Fprintf(&b, " %q", r.Message)
				}
				fmt.Fprintf(&b, " (status: %s)\n", r.Status)
			}
		}
	}

	if empty {
		return Result{Text: "No payment requests."}, nil
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}
