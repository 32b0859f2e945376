package constants

const (
	AppName = "uniclaw"

	// Data directory layout under ~/.uniclaw.
	SecretFile    = "secret.txt"
	TrustbaseFile = "trustbase.json"
	TokensDir     = "tokens"

	FilePerm      = 0o600
	DirectoryPerm = 0o700
	// Trustbase carries public consensus material and stays world-readable.
	TrustbasePerm = 0o644

	// Environment overrides.
	TrustbaseURLEnv     = "UNICLAW_TRUSTBASE_URL"
	SecretPassphraseEnv = "UNICLAW_SECRET_PASSPHRASE"

	DefaultTrustbaseURL = "https://raw.githubusercontent.com/unicitynetwork/unicity-ids/refs/heads/main/bft-trustbase.testnet.json"
	DefaultFaucetURL    = "https://faucet.unicity.network/api/v1/faucet/request"

	// Default testnet aggregator API key (public, rate limited).
	DefaultAPIKey = "sk_06365a9c44654841a366068bcfc68986"

	// Channel identity as seen by the host reply pipeline.
	Surface          = "uniclaw"
	Provider         = "uniclaw"
	DefaultAccountID = "default"

	// Session key prefixes partition reply-pipeline state per conversation/event.
	SessionKeyDM       = "uniclaw:dm:"
	SessionKeyTransfer = "uniclaw:transfer:"
	SessionKeyPayReq   = "uniclaw:payreq:"

	// AAD bound to the encrypted secret envelope; must match on decrypt.
	SecretAAD = "uniclaw:secret:v1"
)
