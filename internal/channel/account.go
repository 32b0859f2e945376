package channel

import (
	"github.com/unicitynetwork/uniclaw/internal/config"
	"github.com/unicitynetwork/uniclaw/internal/constants"
	"github.com/unicitynetwork/uniclaw/internal/sphere"
)

// ResolvedAccount is the channel account as presented to the host: a single
// "default" account backed by the wallet identity.
type ResolvedAccount struct {
	AccountID string
	Name      string
	Enabled   bool
	// Configured is true once the backing wallet identity has a public key.
	Configured bool
	PublicKey  string
	Nametag    string
	Config     config.ChannelConfig
}

// DMPolicy describes who may open a DM conversation, with the config paths
// the host surfaces when asking the operator to change it.
type DMPolicy struct {
	Policy        string
	AllowFrom     []string
	PolicyPath    string
	AllowFromPath string
}

// DefaultAccountID returns the only account id this channel exposes.
func DefaultAccountID() string {
	return constants.DefaultAccountID
}

// ListAccountIDs enumerates account ids. The channel is single-account.
func ListAccountIDs() []string {
	return []string{constants.DefaultAccountID}
}

// ResolveAccount materializes the account view for the given id. Unknown
// ids resolve to a disabled, unconfigured account rather than an error, so
// the host can render them uniformly. session may be nil before init.
func ResolveAccount(cfg *config.Config, accountID string, session sphere.Session) ResolvedAccount {
	if accountID == "" {
		accountID = constants.DefaultAccountID
	}
	acc := ResolvedAccount{
		AccountID: accountID,
		Name:      cfg.Channel.Name,
		Config:    cfg.Channel,
	}
	if acc.Name == "" {
		acc.Name = constants.AppName
	}
	if accountID != constants.DefaultAccountID {
		return acc
	}
	acc.Enabled = cfg.Channel.Enabled
	if session != nil {
		id := session.Identity()
		acc.Configured = id.PublicKey != ""
		acc.PublicKey = id.PublicKey
		acc.Nametag = id.Nametag
	}
	// A wallet may not have minted its nametag yet; the configured one still
	// names the account.
	if acc.Nametag == "" {
		acc.Nametag = cfg.Nametag
	}
	return acc
}

// ResolveDMPolicy reads the effective DM policy for an account.
func ResolveDMPolicy(cfg *config.Config, accountID string) DMPolicy {
	allow := make([]string, len(cfg.Channel.AllowFrom))
	copy(allow, cfg.Channel.AllowFrom)
	return DMPolicy{
		Policy:        cfg.Channel.DMPolicy,
		AllowFrom:     allow,
		PolicyPath:    "channels." + constants.AppName + ".dmPolicy",
		AllowFromPath: "channels." + constants.AppName + ".allowFrom",
	}
}
