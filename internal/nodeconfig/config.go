// Package nodeconfig models the node daemon's runtime configuration.
//
// Field keys are kebab-case because the document is handed verbatim to the
// node daemon's flag parser on the remote machine. Optional fields are
// pointers: an absent option must never serialize as an explicit empty value,
// which the daemon would treat as configured-but-invalid.
package nodeconfig

import (
	"github.com/quorumlabs/nodeops/internal/netid"
)

// Defaults for a remote machine. All paths are valid on the remote host, not
// the operator's environment.
const (
	DefaultConfigFile  = "/etc/node.config.json"
	DefaultGenesisPath = "/etc/node.genesis.json"
	DefaultDBType      = "leveldb"
	DefaultDBDir       = "/node-data"
	DefaultLogDir      = "/var/log/node"
	DefaultLogLevel    = "INFO"

	DefaultHTTPPort    uint32 = 9650
	DefaultStakingPort uint32 = 9651

	DefaultStakingTLSKeyFile  = "/etc/pki/tls/certs/node.pki.key"
	DefaultStakingTLSCertFile = "/etc/pki/tls/certs/node.pki.crt"

	DefaultChainConfigDir  = "/etc/node/configs/chains"
	DefaultSubnetConfigDir = "/etc/node/configs/subnets"
	DefaultProfileDir      = "/var/log/node-profile"

	DefaultSnowSampleSize uint32 = 20
	DefaultSnowQuorumSize uint32 = 15
)

// Config is the node daemon configuration shared by every machine in the
// cluster. Node-local material (e.g. staking certificates) is generated
// during bootstrap and never appears here.
type Config struct {
	ConfigFile *string `yaml:"config-file,omitempty"`
	NetworkID  uint32  `yaml:"network-id"`

	// Genesis is set only for custom networks; the path points at the
	// genesis document distributed through shared storage.
	Genesis *string `yaml:"genesis,omitempty"`

	DBType string `yaml:"db-type,omitempty"`
	DBDir  string `yaml:"db-dir,omitempty"`

	LogDir   string  `yaml:"log-dir,omitempty"`
	LogLevel *string `yaml:"log-level,omitempty"`

	HTTPPort        uint32  `yaml:"http-port"`
	HTTPHost        *string `yaml:"http-host,omitempty"`
	HTTPTLSEnabled  *bool   `yaml:"http-tls-enabled,omitempty"`
	HTTPTLSKeyFile  *string `yaml:"http-tls-key-file,omitempty"`
	HTTPTLSCertFile *string `yaml:"http-tls-cert-file,omitempty"`

	StakingEnabled     *bool   `yaml:"staking-enabled,omitempty"`
	StakingPort        uint32  `yaml:"staking-port"`
	StakingTLSKeyFile  *string `yaml:"staking-tls-key-file,omitempty"`
	StakingTLSCertFile *string `yaml:"staking-tls-cert-file,omitempty"`

	SnowSampleSize *uint32 `yaml:"snow-sample-size,omitempty"`
	SnowQuorumSize *uint32 `yaml:"snow-quorum-size,omitempty"`

	IndexEnabled         *bool `yaml:"index-enabled,omitempty"`
	IndexAllowIncomplete *bool `yaml:"index-allow-incomplete,omitempty"`

	APIAdminEnabled    *bool `yaml:"api-admin-enabled,omitempty"`
	APIInfoEnabled     *bool `yaml:"api-info-enabled,omitempty"`
	APIKeystoreEnabled *bool `yaml:"api-keystore-enabled,omitempty"`
	APIMetricsEnabled  *bool `yaml:"api-metrics-enabled,omitempty"`
	APIHealthEnabled   *bool `yaml:"api-health-enabled,omitempty"`

	ChainConfigDir  string `yaml:"chain-config-dir,omitempty"`
	SubnetConfigDir string `yaml:"subnet-config-dir,omitempty"`
	ProfileDir      string `yaml:"profile-dir,omitempty"`

	WhitelistedSubnets *string `yaml:"whitelisted-subnets,omitempty"`

	StateSyncIDs *string `yaml:"state-sync-ids,omitempty"`
	StateSyncIPs *string `yaml:"state-sync-ips,omitempty"`

	ProfileContinuousEnabled  *bool   `yaml:"profile-continuous-enabled,omitempty"`
	ProfileContinuousFreq     *string `yaml:"profile-continuous-freq,omitempty"`
	ProfileContinuousMaxFiles *uint32 `yaml:"profile-continuous-max-files,omitempty"`
}

// Default returns the configuration for a custom network with every default
// applied. Callers overwrite NetworkID (and clear Genesis for well-known
// networks) during derivation.
func Default() *Config {
	return &Config{
		ConfigFile: strPtr(DefaultConfigFile),
		NetworkID:  netid.DefaultCustomID,
		Genesis:    strPtr(DefaultGenesisPath),

		DBType: DefaultDBType,
		DBDir:  DefaultDBDir,

		LogDir:   DefaultLogDir,
		LogLevel: strPtr(DefaultLogLevel),

		HTTPPort: DefaultHTTPPort,
		HTTPHost: strPtr("0.0.0.0"),

		StakingEnabled:     boolPtr(true),
		StakingPort:        DefaultStakingPort,
		StakingTLSKeyFile:  strPtr(DefaultStakingTLSKeyFile),
		StakingTLSCertFile: strPtr(DefaultStakingTLSCertFile),

		SnowSampleSize: uint32Ptr(DefaultSnowSampleSize),
		SnowQuorumSize: uint32Ptr(DefaultSnowQuorumSize),

		IndexEnabled:         boolPtr(false),
		IndexAllowIncomplete: boolPtr(false),

		APIAdminEnabled:    boolPtr(true),
		APIInfoEnabled:     boolPtr(true),
		APIKeystoreEnabled: boolPtr(true),
		APIMetricsEnabled:  boolPtr(true),
		APIHealthEnabled:   boolPtr(true),

		ChainConfigDir:  DefaultChainConfigDir,
		SubnetConfigDir: DefaultSubnetConfigDir,
		ProfileDir:      DefaultProfileDir,
	}
}

// IsCustomNetwork reports whether the configured network requires a genesis
// template and an anchor bootstrap set.
func (c *Config) IsCustomNetwork() bool {
	return netid.IsCustom(c.NetworkID)
}

// EnableHTTPTLS turns on HTTP TLS, reusing the staking certificate pair.
func (c *Config) EnableHTTPTLS() {
	c.HTTPTLSEnabled = boolPtr(true)
	c.HTTPTLSKeyFile = c.StakingTLSKeyFile
	c.HTTPTLSCertFile = c.StakingTLSCertFile
}

func strPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool       { return &b }
func uint32Ptr(v uint32) *uint32 { return &v }
