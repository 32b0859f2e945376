// Command uniclaw runs the Unicity wallet agent bridge: a wallet identity
// that exchanges DMs, transfers and payment requests with peers over the
// relay network, gated by a single configured owner.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/unicitynetwork/uniclaw/internal/assets"
	"github.com/unicitynetwork/uniclaw/internal/channel"
	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/identity"
	"github.com/unicitynetwork/uniclaw/internal/logging"
	"github.com/unicitynetwork/uniclaw/internal/setup"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
	"github.com/unicitynetwork/uniclaw/internal/tools"
)

// Populated by the release build via -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type env struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	registry *assets.Registry
	manager  *sphere.Manager
	tools    *tools.Tools
}

func buildEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	registry, err := assets.Default()
	if err != nil {
		return nil, err
	}

	manager := sphere.NewManager(sphere.Registered(), log)
	t := tools.New(manager, registry, tools.NewFaucet(cfg.FaucetURL), log)
	return &env{cfg: cfg, log: log, registry: registry, manager: manager, tools: t}, nil
}

func (e *env) initSession(ctx context.Context) (sphere.Session, error) {
	res, err := e.manager.Init(ctx, e.cfg)
	if err != nil {
		return nil, err
	}
	return res.Session, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	app := &cli.App{
		Name:    "uniclaw",
		Usage:   "Unicity wallet agent bridge",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Commands: []*cli.Command{
			initCommand(),
			statusCommand(),
			sendCommand(),
			listenCommand(),
			topupCommand(),
			balanceCommand(),
			setupCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize the wallet session (creates a wallet on first run)",
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			res, err := e.manager.Init(ctx, e.cfg)
			if err != nil {
				return err
			}
			id := res.Session.Identity()
			if res.Created {
				fmt.Println("Wallet created.")
			} else {
				fmt.Println("Wallet loaded.")
			}
			fmt.Printf("  public key: %s\n", id.PublicKey)
			if id.Nametag != "" {
				fmt.Printf("  nametag:    @%s\n", id.Nametag)
			} else {
				fmt.Println("  nametag:    (none; run `uniclaw setup`)")
			}
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show configuration and wallet state",
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			fmt.Printf("network:    %s\n", e.cfg.Network)
			fmt.Printf("data dir:   %s\n", e.cfg.DataDir)
			if e.cfg.Nametag != "" {
				fmt.Printf("nametag:    @%s\n", e.cfg.Nametag)
			} else {
				fmt.Println("nametag:    (not configured)")
			}
			if e.cfg.Owner != "" {
				fmt.Printf("owner:      @%s\n", e.cfg.Owner)
			} else {
				fmt.Println("owner:      (not configured; commands disabled)")
			}
			fmt.Printf("dm policy:  %s\n", e.cfg.Channel.DMPolicy)
			if sphere.WalletExists(e.cfg) {
				fmt.Println("wallet:     present")
			} else {
				fmt.Println("wallet:     not created; run `uniclaw init`")
			}
			acc := channel.ResolveAccount(e.cfg, channel.DefaultAccountID(), e.manager.GetOrNull())
			fmt.Printf("channel:    %s (enabled: %t)\n", acc.Name, acc.Enabled)
			return nil
		},
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send a direct message",
		ArgsUsage: "<to> <message...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: uniclaw send <to> <message>")
			}
			to := c.Args().First()
			message := strings.Join(c.Args().Slice()[1:], " ")

			e, err := buildEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if _, err := e.initSession(ctx); err != nil {
				return err
			}
			res, err := e.tools.SendMessage(ctx, to, message)
			if err != nil {
				return err
			}
			fmt.Println(res.Text)
			return nil
		},
	}
}

func listenCommand() *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Run the agent: subscribe to inbound events and answer owner commands",
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			if _, err := e.initSession(ctx); err != nil {
				return err
			}

			owner := identity.NewOwner(e.cfg.Owner)
			pipeline := newCommandPipeline(e.tools, e.log)
			dispatcher := channel.NewDispatcher(e.manager, pipeline, e.registry, owner, e.log)
			if err := dispatcher.Start(ctx); err != nil {
				return err
			}
			defer dispatcher.Stop()

			st := dispatcher.Status()
			e.log.Infow("listening", "run_id", st.RunID)
			<-ctx.Done()
			return nil
		},
	}
}

func topupCommand() *cli.Command {
	return &cli.Command{
		Name:  "topup",
		Usage: "Request testnet funds from the faucet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "coin", Value: "unicity", Usage: "coin name or symbol"},
			&cli.StringFlag{Name: "amount", Usage: "amount to request (faucet default when empty)"},
		},
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if _, err := e.initSession(ctx); err != nil {
				return err
			}
			res, err := e.tools.TopUp(ctx, c.String("coin"), c.String("amount"))
			if err != nil {
				return err
			}
			fmt.Println(res.Text)
			return nil
		},
	}
}

func balanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Show wallet balances",
		ArgsUsage: "[coin]",
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			if _, err := e.initSession(ctx); err != nil {
				return err
			}
			res, err := e.tools.GetBalance(ctx, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(res.Text)
			return nil
		},
	}
}

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Interactive configuration wizard",
		Action: func(c *cli.Context) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			wizard := setup.NewWizard(setup.NewTerminalPrompter(), e.log)
			path, err := wizard.Run(e.cfg, "")
			if err != nil {
				return err
			}
			fmt.Printf("Configuration written to %s\n", path)
			return nil
		},
	}
}
