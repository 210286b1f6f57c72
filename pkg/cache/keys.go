package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hotspotPrefix namespaces layout keys.
const hotspotPrefix = "hotspots:"

// HotspotKeyOpts identifies one layout computation. Callers normalize the
// fields first (resolved seed, parsed strategy, no empty ids) so equal
// requests share a key.
type HotspotKeyOpts struct {
	DishID        string   `json:"dish_id"`
	Strategy      string   `json:"strategy"`
	Seed          int64    `json:"seed"`
	IngredientIDs []string `json:"ingredient_ids"`
}

// Keyer builds cache keys.
type Keyer interface {
	// HotspotKey returns the key for a generated layout.
	HotspotKey(opts HotspotKeyOpts) string
}

// DefaultKeyer hashes key options into "hotspots:<sha256>". Ingredient
// order is significant because it decides roles and placement.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HotspotKey implements [Keyer].
func (DefaultKeyer) HotspotKey(opts HotspotKeyOpts) string {
	// Marshalling a struct of strings and ints cannot fail.
	data, _ := json.Marshal(opts)
	return hotspotPrefix + Hash(data)
}

// ScopedKeyer prefixes another keyer's keys so several deployments can
// share one Redis database, e.g. "staging:hotspots:<sha256>".
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HotspotKey implements [Keyer].
func (k *ScopedKeyer) HotspotKey(opts HotspotKeyOpts) string {
	return k.prefix + k.inner.HotspotKey(opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
