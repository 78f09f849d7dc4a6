package spec

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/quorumlabs/nodeops/internal/genesis"
	"github.com/quorumlabs/nodeops/internal/keys"
	"github.com/quorumlabs/nodeops/internal/netid"
	"github.com/quorumlabs/nodeops/internal/nodeconfig"
	"github.com/quorumlabs/nodeops/internal/util/naming"
)

// DeriveOptions are the user-facing knobs a specification is derived from.
// Zero values mean "use the default"; string options are applied only when
// non-empty, so an unset option never writes an explicit empty into the
// document.
type DeriveOptions struct {
	// SpecFilePath, when set, seeds the cluster id from the file name stem.
	SpecFilePath string

	Region      string
	NetworkName string

	KeysToGenerate int

	AnchorNodes    *uint32
	NonAnchorNodes uint32
	InstanceTypes  []string

	AgentBin   string
	NodeBin    string
	PluginsDir string

	DBBackupS3Region string
	DBBackupS3Bucket string
	DBBackupS3Key    string

	NLBACMCertificateARN string

	HTTPTLS            bool
	StateSyncIDs       string
	StateSyncIPs       string
	WhitelistedSubnets string

	ContinuousProfiling bool
	ChainMetrics        bool
	ChainOfflinePruning bool

	EVMSubnet bool
}

// Derive builds a complete specification from options. The result still has
// to pass Validate; derivation fills defaults, it does not enforce limits.
func Derive(opts DeriveOptions) (*Spec, error) {
	networkID, _ := netid.FromName(opts.NetworkName)

	nodeCfg := nodeconfig.Default()
	nodeCfg.NetworkID = networkID
	if !netid.IsCustom(networkID) {
		// well-known networks ship their own genesis
		nodeCfg.Genesis = nil
	}

	if opts.HTTPTLS {
		nodeCfg.EnableHTTPTLS()
	}
	if opts.StateSyncIDs != "" {
		nodeCfg.StateSyncIDs = &opts.StateSyncIDs
	}
	if opts.StateSyncIPs != "" {
		nodeCfg.StateSyncIPs = &opts.StateSyncIPs
	}
	if opts.WhitelistedSubnets != "" {
		nodeCfg.WhitelistedSubnets = &opts.WhitelistedSubnets
	}
	if opts.ContinuousProfiling {
		enabled := true
		freq := "1m"
		maxFiles := uint32(10)
		nodeCfg.ProfileContinuousEnabled = &enabled
		nodeCfg.ProfileContinuousFreq = &freq
		nodeCfg.ProfileContinuousMaxFiles = &maxFiles
	}

	chainCfg := nodeconfig.DefaultChain()
	if opts.ContinuousProfiling {
		chainCfg.EnableContinuousProfiler()
	}
	if opts.ChainMetrics {
		enabled := true
		chainCfg.MetricsEnabled = &enabled
	}
	if opts.ChainOfflinePruning {
		enabled := true
		chainCfg.OfflinePruningEnabled = &enabled
	}

	s := &Spec{
		ID:          clusterID(opts.SpecFilePath, networkID),
		NodeConfig:  nodeCfg,
		ChainConfig: chainCfg,
		Machine:     deriveMachine(opts, netid.IsCustom(networkID)),
		InstallArtifacts: InstallArtifacts{
			AgentBin: opts.AgentBin,
			NodeBin:  opts.NodeBin,
		},
		Resources: &Resources{
			Region:               opts.Region,
			S3Bucket:             naming.BucketName("nodeops", time.Now().UTC()),
			DBBackupS3Region:     opts.DBBackupS3Region,
			DBBackupS3Bucket:     opts.DBBackupS3Bucket,
			DBBackupS3Key:        opts.DBBackupS3Key,
			NLBACMCertificateARN: opts.NLBACMCertificateARN,
		},
	}
	if opts.PluginsDir != "" {
		s.InstallArtifacts.PluginsDir = &opts.PluginsDir
	}

	keysToGenerate := opts.KeysToGenerate
	if keysToGenerate <= 0 {
		keysToGenerate = DefaultKeysToGenerate
	}

	var seedKeys []*keys.Key
	if netid.IsCustom(networkID) {
		g, generated, err := genesis.New(networkID, keysToGenerate)
		if err != nil {
			return nil, fmt.Errorf("failed to derive genesis: %w", err)
		}
		s.GenesisTemplate = g
		seedKeys = generated
	} else {
		generated, err := keys.GenerateN(keysToGenerate)
		if err != nil {
			return nil, fmt.Errorf("failed to generate seed keys: %w", err)
		}
		seedKeys = generated
	}

	// key 0 backs the locked stake; the rest form the unlocked pool
	infos := keys.Infos(seedKeys)
	if len(infos) > 0 {
		s.GeneratedSeedKeyLocked = &infos[0]
		s.GeneratedSeedKeys = infos[1:]
	}

	if opts.EVMSubnet {
		addrs := make([]string, 0, len(seedKeys))
		for _, k := range seedKeys {
			addrs = append(addrs, k.EthAddress())
		}
		s.EVMSubnetGenesis = genesis.NewEVM(addrs)
	}

	return s, nil
}

func deriveMachine(opts DeriveOptions, custom bool) Machine {
	m := Machine{
		NonAnchorNodes: opts.NonAnchorNodes,
		InstanceTypes:  opts.InstanceTypes,
	}
	if m.NonAnchorNodes == 0 {
		m.NonAnchorNodes = DefaultNonAnchorNodes
	}
	if len(m.InstanceTypes) == 0 {
		m.InstanceTypes = append([]string(nil), DefaultInstanceTypes...)
	}
	if custom {
		if opts.AnchorNodes != nil {
			n := *opts.AnchorNodes
			m.AnchorNodes = &n
		} else {
			n := DefaultAnchorNodes
			m.AnchorNodes = &n
		}
	}
	return m
}

// clusterID derives the cluster id from the spec file stem, falling back to
// a timestamped name. IDs seed resource tags, so the length cap applies at
// derivation too, not just validation.
func clusterID(specFilePath string, networkID uint32) string {
	if specFilePath != "" {
		stem := strings.TrimSuffix(filepath.Base(specFilePath), filepath.Ext(specFilePath))
		if stem != "" && stem != "." {
			if len(stem) > MaxIDLength {
				stem = stem[:MaxIDLength]
			}
			return stem
		}
	}

	network, known := netid.Name(networkID)
	if !known {
		network = "custom"
	}
	id := naming.WithTimestamp("nodeops-" + network)
	if len(id) > MaxIDLength {
		id = id[:MaxIDLength]
	}
	return id
}
