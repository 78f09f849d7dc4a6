// Package storage maps cluster state onto canonical object-storage key
// paths. The layout is a compatibility surface: every machine in a cluster
// derives the same paths independently, and directory listings are the only
// discovery primitive available, so any change to a template here breaks
// cross-machine discovery.
//
// Layout, rooted at {cluster_id}/...:
//
//	nodeops.config.yaml                         cluster specification
//	dev-machine.config.yaml                     dev machine configuration
//	ec2-access-key.zstd.seal_aes_256.encrypted  encrypted access key blob
//	genesis.json                                genesis with initial stakers
//	install/nodeops-agent                       agent binary
//	install/node.zstd                           node binary (compressed)
//	install/plugins                             plugin directory
//	pki                                         PKI key directory
//	discover/{phase}-{kind}-nodes/              discovery directories
//	discover/.../{machine_id}_{token}.yaml      per-node discovery entries
//	backups                                     database backups
//	events/update-artifacts/...                 artifact update markers
package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/quorumlabs/nodeops/internal/errdefs"
	"github.com/quorumlabs/nodeops/internal/node"
)

// All path formatting lives in this file; call sites never assemble
// discovery paths by hand.

func ConfigFile(clusterID string) string {
	return fmt.Sprintf("%s/nodeops.config.yaml", clusterID)
}

func DevMachineConfigFile(clusterID string) string {
	return fmt.Sprintf("%s/dev-machine.config.yaml", clusterID)
}

func AccessKeyEncrypted(clusterID string) string {
	return fmt.Sprintf("%s/ec2-access-key.zstd.seal_aes_256.encrypted", clusterID)
}

// GenesisFile is the valid genesis with initial stakers, written only after
// anchor nodes become active.
func GenesisFile(clusterID string) string {
	return fmt.Sprintf("%s/genesis.json", clusterID)
}

func AgentBin(clusterID string) string {
	return fmt.Sprintf("%s/install/nodeops-agent", clusterID)
}

func NodeBinCompressed(clusterID string) string {
	return fmt.Sprintf("%s/install/node.zstd", clusterID)
}

func PluginsDir(clusterID string) string {
	return fmt.Sprintf("%s/install/plugins", clusterID)
}

func PKIKeyDir(clusterID string) string {
	return fmt.Sprintf("%s/pki", clusterID)
}

func BackupsDir(clusterID string) string {
	return fmt.Sprintf("%s/backups", clusterID)
}

// UpdateArtifactsEvent is the marker object whose modification time triggers
// agents to reinstall artifacts from the update install dir.
func UpdateArtifactsEvent(clusterID string) string {
	return fmt.Sprintf("%s/events/update-artifacts/event", clusterID)
}

func UpdateArtifactsNodeBinCompressed(clusterID string) string {
	return fmt.Sprintf("%s/events/update-artifacts/install/node.zstd", clusterID)
}

func UpdateArtifactsPluginsDir(clusterID string) string {
	return fmt.Sprintf("%s/events/update-artifacts/install/plugins", clusterID)
}

// DiscoverDir returns the discovery directory for one class and phase.
// Bootstrapping exists for anchors only.
func DiscoverDir(clusterID string, ph node.Phase, kind node.Kind) (string, error) {
	if !ph.IsValid() {
		return "", errdefs.InvalidInputf("unknown phase %q", ph)
	}
	if !kind.IsValid() {
		return "", errdefs.InvalidInputf("unknown node kind %q", kind)
	}
	if ph == node.PhaseBootstrapping && kind != node.KindAnchor {
		return "", errdefs.InvalidInputf("bootstrapping phase is anchor-only (got kind %q)", kind)
	}
	return fmt.Sprintf("%s/discover/%s-%s-nodes", clusterID, ph, kind), nil
}

// DiscoverNode returns the per-node discovery entry path: the node's
// identity, token-encoded, embedded in the filename.
func DiscoverNode(clusterID string, ph node.Phase, n *node.Node) (string, error) {
	dir, err := DiscoverDir(clusterID, ph, n.Kind)
	if err != nil {
		return "", err
	}
	token, err := n.Encode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s_%s.yaml", dir, n.MachineID, token), nil
}

// ParseNode recovers a node identity from a per-node discovery path. It is
// defined only for paths produced by DiscoverNode; anything else fails with
// a ParseError carrying the path, so callers can always tell a corrupt entry
// apart from an empty listing.
func ParseNode(storagePath string) (*node.Node, error) {
	fileName := path.Base(storagePath)
	if fileName == "." || fileName == "/" || fileName == "" {
		return nil, &errdefs.ParseError{Path: storagePath, Reason: "no file name"}
	}

	splits := strings.Split(fileName, "_")
	if len(splits) != 2 {
		return nil, &errdefs.ParseError{
			Path:   storagePath,
			Reason: fmt.Sprintf("expected two splits for '_' (got %d)", len(splits)),
		}
	}

	token := strings.TrimSuffix(splits[1], ".yaml")
	n, err := node.Decode(token)
	if err != nil {
		return nil, &errdefs.ParseError{Path: storagePath, Reason: "token decode failed", Err: err}
	}
	return n, nil
}
