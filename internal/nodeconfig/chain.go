package nodeconfig

// Chain-level (EVM execution) configuration. When non-empty, the document is
// written under the chain config directory on the remote machine.

const (
	// DefaultChainProfileDir is where the chain's continuous profiler writes.
	DefaultChainProfileDir = "/var/log/node-profile/chain"
	// DefaultChainProfileFrequency is the continuous profiler interval.
	DefaultChainProfileFrequency = "15m"
	// DefaultChainProfileMaxFiles caps retained profile files.
	DefaultChainProfileMaxFiles uint32 = 5
)

// ChainConfig configures the EVM-compatible chain runtime on each node.
type ChainConfig struct {
	AdminAPIEnabled *bool   `yaml:"admin-api-enabled,omitempty"`
	LogLevel        *string `yaml:"log-level,omitempty"`

	MetricsEnabled *bool `yaml:"metrics-enabled,omitempty"`

	ContinuousProfilerDir       *string `yaml:"continuous-profiler-dir,omitempty"`
	ContinuousProfilerFrequency *string `yaml:"continuous-profiler-frequency,omitempty"`
	ContinuousProfilerMaxFiles  *uint32 `yaml:"continuous-profiler-max-files,omitempty"`

	OfflinePruningEnabled *bool `yaml:"offline-pruning-enabled,omitempty"`
}

// DefaultChain returns the chain configuration defaults.
func DefaultChain() *ChainConfig {
	return &ChainConfig{
		AdminAPIEnabled: boolPtr(true),
		LogLevel:        strPtr("info"),
	}
}

// EnableContinuousProfiler turns on the continuous profiler with defaults.
func (c *ChainConfig) EnableContinuousProfiler() {
	c.ContinuousProfilerDir = strPtr(DefaultChainProfileDir)
	c.ContinuousProfilerFrequency = strPtr(DefaultChainProfileFrequency)
	maxFiles := DefaultChainProfileMaxFiles
	c.ContinuousProfilerMaxFiles = &maxFiles
}
