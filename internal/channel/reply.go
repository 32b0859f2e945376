package channel

import "context"

// Payload is a single reply produced by the pipeline. Empty text means
// "nothing to say" and suppresses delivery.
type Payload struct {
	Text string
}

// DispatchRequest carries one finalized inbound context plus the delivery
// callback the pipeline uses to emit its reply. Deliver is invoked at most
// once per request.
type DispatchRequest struct {
	Context InboundContext
	Deliver func(ctx context.Context, p Payload) error
}

// ReplyPipeline is the host side of the bridge: it owns conversation state,
// command handling, and reply generation. The dispatcher only normalizes
// events and ferries text back out.
type ReplyPipeline interface {
	// FinalizeInboundContext lets the host adjust the context (e.g. rewrite
	// Body for command prefixes) before dispatch.
	FinalizeInboundContext(ic *InboundContext)

	// DispatchReply processes one event. A returned error is an internal
	// pipeline failure; the dispatcher logs it and moves on.
	DispatchReply(ctx context.Context, req DispatchRequest) error
}
