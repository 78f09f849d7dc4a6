// Package node defines a machine's published identity and its discovery
// lifecycle phase, plus the codec that packs an identity into a
// filename-safe token. Encoding the full identity into the discovery
// filename lets any peer reconstruct connection details from a directory
// listing alone, with no secondary metadata fetch.
package node

import (
	"fmt"
)

// Kind is the node class within the cluster topology.
type Kind string

const (
	// KindAnchor nodes form the initial bootstrap set for a custom network.
	KindAnchor Kind = "anchor"
	// KindNonAnchor nodes join after the anchor set is established.
	KindNonAnchor Kind = "non-anchor"
)

// IsValid returns true if the kind is a known node class.
func (k Kind) IsValid() bool {
	switch k {
	case KindAnchor, KindNonAnchor:
		return true
	default:
		return false
	}
}

// Node is the identity record one booted machine publishes to shared
// storage. Immutable once published; owned by the publishing machine.
type Node struct {
	Kind         Kind   `yaml:"kind"`
	MachineID    string `yaml:"machine_id"`
	NodeID       string `yaml:"node_id"`
	PublicIP     string `yaml:"public_ip"`
	HTTPEndpoint string `yaml:"http_endpoint"`
}

// New builds a node identity, deriving the HTTP endpoint from scheme, public
// IP and port. NodeID is the opaque identifier issued by the node's
// consensus layer.
func New(kind Kind, machineID, nodeID, publicIP, scheme string, httpPort uint32) *Node {
	return &Node{
		Kind:         kind,
		MachineID:    machineID,
		NodeID:       nodeID,
		PublicIP:     publicIP,
		HTTPEndpoint: fmt.Sprintf("%s://%s:%d", scheme, publicIP, httpPort),
	}
}
