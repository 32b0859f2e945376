// Package assets resolves coin aliases against the embedded unicity-ids
// metadata and converts between human-readable and smallest-unit amounts.
package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed resources/unicity-ids.testnet.json
var embeddedMetadata []byte

// Registry is the immutable alias index built from the coin metadata list.
// Only fungible entries carrying a symbol are indexed.
type Registry struct {
	// aliases maps lowercase name, lowercase symbol, and raw id to the
	// canonical coin name. First write wins on key collision.
	aliases  map[string]string
	symbols  map[string]string
	decimals map[string]int
	ids      map[string]string
	// availableSymbols keeps metadata order, one per indexed entry.
	availableSymbols []string
}

// New builds a registry from a metadata list. Duplicate aliases are ignored
// (first entry wins); warnings are left to the caller since collisions are a
// metadata bug, not a runtime condition.
func New(entries []Entry) *Registry {
	r := &Registry{
		aliases:  make(map[string]string),
		symbols:  make(map[string]string),
		decimals: make(map[string]int),
		ids:      make(map[string]string),
	}
	for _, e := range entries {
		if e.AssetKind != AssetKindFungible || e.Symbol == "" {
			continue
		}
		r.addAlias(strings.ToLower(e.Name), e.Name)
		r.addAlias(strings.ToLower(e.Symbol), e.Name)
		if e.ID != "" {
			r.addAlias(e.ID, e.Name)
			if _, ok := r.ids[e.Name]; !ok {
				r.ids[e.Name] = e.ID
			}
		}
		if _, ok := r.symbols[e.Name]; !ok {
			r.symbols[e.Name] = e.Symbol
		}
		if e.Decimals != nil {
			if _, ok := r.decimals[e.Name]; !ok {
				r.decimals[e.Name] = *e.Decimals
			}
		}
		r.availableSymbols = append(r.availableSymbols, e.Symbol)
	}
	return r
}

func (r *Registry) addAlias(key, name string) {
	if _, ok := r.aliases[key]; ok {
		return
	}
	r.aliases[key] = name
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the process-wide registry built from the embedded metadata.
// Built on first use, immutable afterwards; metadata changes require a restart.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		var entries []Entry
		if err := json.Unmarshal(embeddedMetadata, &entries); err != nil {
			defaultErr = fmt.Errorf("parse embedded coin metadata: %w", err)
			return
		}
		defaultRegistry = New(entries)
	})
	return defaultRegistry, defaultErr
}

// ResolveCoinID resolves user input (name, symbol, or raw coin id) to the
// canonical coin name. Names and symbols match case-insensitively; raw ids
// match exactly. Returns "" when nothing matches.
func (r *Registry) ResolveCoinID(input string) string {
	trimmed := strings.TrimSpace(input)
	if name, ok := r.aliases[trimmed]; ok {
		return name
	}
	return r.aliases[strings.ToLower(trimmed)]
}

// Symbol returns the display symbol for a coin name or alias. Unknown coins
// fall back to the uppercased input so callers always have something to show.
func (r *Registry) Symbol(coin string) string {
	if name := r.ResolveCoinID(coin); name != "" {
		if sym, ok := r.symbols[name]; ok {
			return sym
		}
	}
	if sym, ok := r.symbols[coin]; ok {
		return sym
	}
	return strings.ToUpper(coin)
}

// Decimals returns the decimal count for a coin name or alias.
func (r *Registry) Decimals(coin string) (int, bool) {
	if name := r.ResolveCoinID(coin); name != "" {
		if d, ok := r.decimals[name]; ok {
			return d, true
		}
	}
	d, ok := r.decimals[coin]
	return d, ok
}

// CoinID returns the SDK coin id for a canonical coin name or alias.
func (r *Registry) CoinID(coin string) (string, bool) {
	if name := r.ResolveCoinID(coin); name != "" {
		if id, ok := r.ids[name]; ok {
			return id, true
		}
	}
	id, ok := r.ids[coin]
	return id, ok
}

// AvailableSymbols lists every indexed symbol in metadata order.
func (r *Registry) AvailableSymbols() []string {
	out := make([]string, len(r.availableSymbols))
	copy(out, r.availableSymbols)
	return out
}

// FormatAmount renders a smallest-unit amount as "<human> <SYMBOL>" for
// display. Coins without known decimals format with 0 decimals.
func (r *Registry) FormatAmount(smallest, coin string) string {
	decimals, _ := r.Decimals(coin)
	return ToHumanReadable(smallest, decimals) + " " + r.Symbol(coin)
}

// ParseAmount converts a human-readable amount to smallest units using the
// coin's decimal count (0 when unknown).
func (r *Registry) ParseAmount(human, coin string) string {
	decimals, _ := r.Decimals(coin)
	return ToSmallestUnit(human, decimals)
}
