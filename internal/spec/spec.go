package spec

import (
	"fmt"

	"github.com/quorumlabs/nodeops/internal/genesis"
	"github.com/quorumlabs/nodeops/internal/keys"
	"github.com/quorumlabs/nodeops/internal/node"
	"github.com/quorumlabs/nodeops/internal/nodeconfig"
)

const (
	// DefaultKeysToGenerate is the seed key count when none is requested.
	DefaultKeysToGenerate = 5

	DefaultAnchorNodes uint32 = 2
	MinAnchorNodes     uint32 = 1
	MaxAnchorNodes     uint32 = 10

	DefaultNonAnchorNodes uint32 = 2
	MinNonAnchorNodes     uint32 = 1
	MaxNonAnchorNodes     uint32 = 200

	// MaxIDLength caps the cluster id; the id seeds cloud resource tags,
	// which carry their own length limits.
	MaxIDLength = 28
)

// DefaultInstanceTypes is used when the caller does not pick machine shapes.
var DefaultInstanceTypes = []string{"c5.xlarge", "m5.xlarge"}

// Resources names the cloud-side resources the cluster uses or creates.
type Resources struct {
	Region   string `yaml:"region"`
	S3Bucket string `yaml:"s3_bucket"`

	// Database backups are optional but indivisible: region, bucket and key
	// are set together or not at all.
	DBBackupS3Region string `yaml:"db_backup_s3_region,omitempty"`
	DBBackupS3Bucket string `yaml:"db_backup_s3_bucket,omitempty"`
	DBBackupS3Key    string `yaml:"db_backup_s3_key,omitempty"`

	NLBACMCertificateARN string `yaml:"nlb_acm_certificate_arn,omitempty"`

	InstanceSystemLogs    *bool `yaml:"instance_system_logs,omitempty"`
	InstanceSystemMetrics *bool `yaml:"instance_system_metrics,omitempty"`
}

// Machine sizes the cluster's machine pools.
type Machine struct {
	// AnchorNodes is set for custom networks only.
	AnchorNodes    *uint32  `yaml:"anchor_nodes,omitempty"`
	NonAnchorNodes uint32   `yaml:"non_anchor_nodes"`
	InstanceTypes  []string `yaml:"instance_types,omitempty"`
}

// InstallArtifacts points at locally built binaries that get uploaded to
// shared storage during apply.
type InstallArtifacts struct {
	AgentBin   string  `yaml:"agent_bin"`
	NodeBin    string  `yaml:"node_bin"`
	PluginsDir *string `yaml:"plugins_dir,omitempty"`
}

// Endpoints aggregates the cluster's service URLs. It is read-only output,
// populated after the cluster is up.
type Endpoints struct {
	HTTPRPC     string `yaml:"http_rpc,omitempty"`
	HTTPRPCX    string `yaml:"http_rpc_x,omitempty"`
	HTTPRPCP    string `yaml:"http_rpc_p,omitempty"`
	HTTPRPCC    string `yaml:"http_rpc_c,omitempty"`
	Metrics     string `yaml:"metrics,omitempty"`
	Health      string `yaml:"health,omitempty"`
	Liveness    string `yaml:"liveness,omitempty"`
	MetamaskRPC string `yaml:"metamask_rpc,omitempty"`
	Websocket   string `yaml:"websocket,omitempty"`
}

// NewEndpoints derives every service URL from one node's HTTP base.
func NewEndpoints(scheme, host string, port uint32) *Endpoints {
	base := fmt.Sprintf("%s://%s:%d", scheme, host, port)
	wsScheme := "ws"
	if scheme == "https" {
		wsScheme = "wss"
	}
	return &Endpoints{
		HTTPRPC:     base,
		HTTPRPCX:    base + "/ext/bc/X",
		HTTPRPCP:    base + "/ext/bc/P",
		HTTPRPCC:    base + "/ext/bc/C/rpc",
		Metrics:     base + "/ext/metrics",
		Health:      base + "/ext/health",
		Liveness:    base + "/ext/health/liveness",
		MetamaskRPC: base + "/ext/bc/C/rpc",
		Websocket:   fmt.Sprintf("%s://%s:%d/ext/bc/C/ws", wsScheme, host, port),
	}
}

// Spec is the cluster specification document.
type Spec struct {
	ID string `yaml:"id"`

	Resources        *Resources       `yaml:"aws_resources,omitempty"`
	Machine          Machine          `yaml:"machine"`
	InstallArtifacts InstallArtifacts `yaml:"install_artifacts"`

	NodeConfig  *nodeconfig.Config      `yaml:"node_config"`
	ChainConfig *nodeconfig.ChainConfig `yaml:"chain_config,omitempty"`

	// GenesisTemplate exists iff the network is custom.
	GenesisTemplate  *genesis.Genesis    `yaml:"genesis_template,omitempty"`
	EVMSubnetGenesis *genesis.EVMGenesis `yaml:"evm_subnet_genesis,omitempty"`

	// GeneratedSeedKeyLocked backs the locked initial stake; the unlocked
	// pool funds day-to-day operation.
	GeneratedSeedKeyLocked *keys.KeyInfo  `yaml:"generated_seed_key_locked,omitempty"`
	GeneratedSeedKeys      []keys.KeyInfo `yaml:"generated_seed_keys,omitempty"`

	// CurrentNodes and Endpoints are populated once the cluster is up.
	CurrentNodes []*node.Node `yaml:"current_nodes,omitempty"`
	Endpoints    *Endpoints   `yaml:"endpoints,omitempty"`
}

// IsCustomNetwork reports whether this cluster bootstraps its own network.
func (s *Spec) IsCustomNetwork() bool {
	return s.NodeConfig != nil && s.NodeConfig.IsCustomNetwork()
}
