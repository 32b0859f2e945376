package assets

// Entry is one coin record from the unicity-ids metadata list.
type Entry struct {
	Network   string `json:"network"`
	AssetKind string `json:"assetKind"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol,omitempty"`
	Decimals  *int   `json:"decimals,omitempty"`
	ID        string `json:"id"`
}

// AssetKindFungible is the only kind indexed by the registry.
const AssetKindFungible = "fungible"
