// Package netid maps well-known network names to protocol network IDs.
//
// Any ID outside the well-known table denotes a custom network, which
// requires a generated genesis document and an anchor-node bootstrap set.
package netid

// DefaultCustomID is the reserved network ID used when a network name is not
// recognized. Custom networks require a genesis template.
const DefaultCustomID uint32 = 9999

const (
	// MainnetID is the well-known public production network.
	MainnetID uint32 = 1
	// TestnetID is the well-known public test network.
	TestnetID uint32 = 5
)

var nameToID = map[string]uint32{
	"mainnet": MainnetID,
	"testnet": TestnetID,
}

var idToName = map[uint32]string{
	MainnetID: "mainnet",
	TestnetID: "testnet",
}

// FromName resolves a network name to its ID. Unrecognized names resolve to
// DefaultCustomID with ok=false.
func FromName(name string) (uint32, bool) {
	if id, ok := nameToID[name]; ok {
		return id, true
	}
	return DefaultCustomID, false
}

// Name returns the well-known name for id, if any.
func Name(id uint32) (string, bool) {
	name, ok := idToName[id]
	return name, ok
}

// IsCustom reports whether id denotes a custom network (not in the
// well-known table).
func IsCustom(id uint32) bool {
	_, ok := idToName[id]
	return !ok
}
