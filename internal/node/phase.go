package node

// Phase is the discovery lifecycle stage a booting node publishes to shared
// storage. Anchors pass through all three phases; non-anchors skip
// Bootstrapping because they have no genesis to co-author.
type Phase string

const (
	PhaseProvisioning  Phase = "provisioning"
	PhaseBootstrapping Phase = "bootstrapping"
	PhaseReady         Phase = "ready"
)

// IsValid returns true if the phase is a known lifecycle stage.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseProvisioning, PhaseBootstrapping, PhaseReady:
		return true
	default:
		return false
	}
}

// rank orders phases; higher is more advanced.
func (p Phase) rank() int {
	switch p {
	case PhaseProvisioning:
		return 1
	case PhaseBootstrapping:
		return 2
	case PhaseReady:
		return 3
	default:
		return 0
	}
}

// MoreAdvanced returns the later of two phases. A node never deletes its
// prior phase entries, so concurrent readers may observe one machine in two
// phases at once; the more advanced phase is authoritative.
func MoreAdvanced(a, b Phase) Phase {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Phases returns the lifecycle phases for a node class, in order.
func Phases(kind Kind) []Phase {
	if kind == KindAnchor {
		return []Phase{PhaseProvisioning, PhaseBootstrapping, PhaseReady}
	}
	return []Phase{PhaseProvisioning, PhaseReady}
}
