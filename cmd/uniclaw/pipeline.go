package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unicitynetwork/uniclaw/internal/channel"
	"github.com/unicitynetwork/uniclaw/internal/tools"
)

// commandPipeline is the built-in reply pipeline used by `uniclaw listen`
// when no external host is attached. It logs every inbound event and
// answers a small command set, but only for the authorized owner.
type commandPipeline struct {
	tools *tools.Tools
	log   *zap.SugaredLogger
}

func newCommandPipeline(t *tools.Tools, log *zap.SugaredLogger) *commandPipeline {
	return &commandPipeline{tools: t, log: log}
}

func (p *commandPipeline) FinalizeInboundContext(ic *channel.InboundContext) {}

func (p *commandPipeline) DispatchReply(ctx context.Context, req channel.DispatchRequest) error {
	ic := req.Context
	p.log.Infow("inbound event",
		"from", ic.From, "session", ic.SessionKey, "owner", ic.IsOwner, "body", ic.Body)

	if !ic.CommandAuthorized {
		return nil
	}

	reply, err := p.handleCommand(ctx, ic.Body)
	if err != nil {
		return err
	}
	return req.Deliver(ctx, channel.Payload{Text: reply})
}

// handleCommand interprets owner DMs. Unknown input gets the help text so
// the owner always receives some answer.
func (p *commandPipeline) handleCommand(ctx context.Context, body string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(body))
	if len(fields) == 0 {
		return "", nil
	}

	switch strings.ToLower(fields[0]) {
	case "ping":
		return "pong", nil

	case "balance":
		coin := ""
		if len(fields) > 1 {
			coin = fields[1]
		}
		res, err := p.tools.GetBalance(ctx, coin)
		if err != nil {
			return fmt.Sprintf("Could not get balance: %v", err), nil
		}
		return res.Text, nil

	case "tokens":
		res, err := p.tools.ListTokens(ctx, "", "")
		if err != nil {
			return "", err
		}
		return res.Text, nil

	case "requests":
		res, err := p.tools.ListPaymentRequests(ctx, "all", "")
		if err != nil {
			return "", err
		}
		return res.Text, nil

	case "send":
		// send <to> <amount> <coin> [memo...]
		if len(fields) < 4 {
			return "Usage: send <to> <amount> <coin> [memo]", nil
		}
		memo := strings.Join(fields[4:], " ")
		res, err := p.tools.SendTokens(ctx, fields[1], fields[2], fields[3], memo)
		if err != nil {
			return fmt.Sprintf("Could not send: %v", err), nil
		}
		return res.Text, nil

	case "request":
		// request <from> <amount> <coin> [message...]
		if len(fields) < 4 {
			return "Usage: request <from> <amount> <coin> [message]", nil
		}
		msg := strings.Join(fields[4:], " ")
		res, err := p.tools.RequestPayment(ctx, fields[1], fields[2], fields[3], msg)
		if err != nil {
			return fmt.Sprintf("Could not request: %v", err), nil
		}
		return res.Text, nil

	case "topup":
		coin, amount := "unicity", ""
		if len(fields) > 1 {
			coin = fields[1]
		}
		if len(fields) > 2 {
			amount = fields[2]
		}
		res, err := p.tools.TopUp(ctx, coin, amount)
		if err != nil {
			return fmt.Sprintf("Could not top up: %v", err), nil
		}
		return res.Text, nil

	default:
		return "Commands: ping, balance [coin], tokens, requests, send <to> <amount> <coin> [memo], request <from> <amount> <coin> [message], topup [coin] [amount]", nil
	}
}
