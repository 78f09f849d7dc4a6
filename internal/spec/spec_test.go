package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumlabs/nodeops/internal/errdefs"
	"github.com/quorumlabs/nodeops/internal/netid"
)

// writeArtifacts creates throwaway artifact files so validation's existence
// checks pass.
func writeArtifacts(t *testing.T) (agentBin, nodeBin string) {
	t.Helper()
	dir := t.TempDir()
	agentBin = filepath.Join(dir, "nodeops-agent")
	nodeBin = filepath.Join(dir, "node")
	require.NoError(t, os.WriteFile(agentBin, []byte("bin"), 0o755))
	require.NoError(t, os.WriteFile(nodeBin, []byte("bin"), 0o755))
	return agentBin, nodeBin
}

func validCustomSpec(t *testing.T) *Spec {
	t.Helper()
	agentBin, nodeBin := writeArtifacts(t)
	s, err := Derive(DeriveOptions{
		SpecFilePath: "testdata/dev-cluster.yaml",
		Region:       "us-west-2",
		NetworkName:  "dev",
		AgentBin:     agentBin,
		NodeBin:      nodeBin,
	})
	require.NoError(t, err)
	return s
}

func TestDerive_CustomNetworkDefaults(t *testing.T) {
	s := validCustomSpec(t)

	assert.Equal(t, "dev-cluster", s.ID)
	assert.Equal(t, netid.DefaultCustomID, s.NodeConfig.NetworkID)
	assert.True(t, s.IsCustomNetwork())

	require.NotNil(t, s.GenesisTemplate)
	require.NotNil(t, s.Machine.AnchorNodes)
	assert.Equal(t, DefaultAnchorNodes, *s.Machine.AnchorNodes)
	assert.Equal(t, DefaultNonAnchorNodes, s.Machine.NonAnchorNodes)
	assert.Equal(t, DefaultInstanceTypes, s.Machine.InstanceTypes)

	// 5 keys by default: 1 locked + 4 unlocked
	require.NotNil(t, s.GeneratedSeedKeyLocked)
	assert.Len(t, s.GeneratedSeedKeys, DefaultKeysToGenerate-1)
	assert.Len(t, s.GenesisTemplate.Allocations, DefaultKeysToGenerate)

	require.NoError(t, s.Validate())
}

func TestDerive_KnownNetwork(t *testing.T) {
	agentBin, nodeBin := writeArtifacts(t)
	s, err := Derive(DeriveOptions{
		SpecFilePath: "testdata/testnet-cluster.yaml",
		Region:       "us-west-2",
		NetworkName:  "testnet",
		AgentBin:     agentBin,
		NodeBin:      nodeBin,
	})
	require.NoError(t, err)

	assert.Equal(t, netid.TestnetID, s.NodeConfig.NetworkID)
	assert.False(t, s.IsCustomNetwork())
	assert.Nil(t, s.GenesisTemplate)
	assert.Nil(t, s.Machine.AnchorNodes)
	assert.Nil(t, s.NodeConfig.Genesis, "well-known networks ship their own genesis")

	// seed keys are still generated for operational funding
	require.NotNil(t, s.GeneratedSeedKeyLocked)
	assert.Len(t, s.GeneratedSeedKeys, DefaultKeysToGenerate-1)

	require.NoError(t, s.Validate())
}

func TestDerive_ThreeKeyScenario(t *testing.T) {
	agentBin, nodeBin := writeArtifacts(t)
	s, err := Derive(DeriveOptions{
		SpecFilePath:   "testdata/c1.yaml",
		Region:         "us-west-2",
		NetworkName:    "dev",
		KeysToGenerate: 3,
		EVMSubnet:      true,
		AgentBin:       agentBin,
		NodeBin:        nodeBin,
	})
	require.NoError(t, err)

	require.NotNil(t, s.GeneratedSeedKeyLocked)
	assert.Len(t, s.GeneratedSeedKeys, 2)

	require.NotNil(t, s.GenesisTemplate)
	assert.Len(t, s.GenesisTemplate.Allocations, 3)
	assert.Equal(t, []string{s.GeneratedSeedKeyLocked.ShortAddress}, s.GenesisTemplate.InitialStakedFunds)

	require.NotNil(t, s.EVMSubnetGenesis)
	assert.Len(t, s.EVMSubnetGenesis.Alloc, 3)
	assert.Len(t, s.EVMSubnetGenesis.Config.ContractDeployerAllowList.AllowListAdmins, 3)
}

func TestDerive_OptionsOnlyApplyWhenSet(t *testing.T) {
	s := validCustomSpec(t)

	assert.Nil(t, s.NodeConfig.HTTPTLSEnabled)
	assert.Nil(t, s.NodeConfig.StateSyncIDs)
	assert.Nil(t, s.NodeConfig.WhitelistedSubnets)
	assert.Nil(t, s.NodeConfig.ProfileContinuousEnabled)
	assert.Nil(t, s.ChainConfig.ContinuousProfilerDir)
	assert.Nil(t, s.EVMSubnetGenesis)

	agentBin, nodeBin := writeArtifacts(t)
	s2, err := Derive(DeriveOptions{
		SpecFilePath:        "testdata/c2.yaml",
		Region:              "us-west-2",
		NetworkName:         "dev",
		AgentBin:            agentBin,
		NodeBin:             nodeBin,
		HTTPTLS:             true,
		StateSyncIDs:        "NodeID-a,NodeID-b",
		ContinuousProfiling: true,
	})
	require.NoError(t, err)

	require.NotNil(t, s2.NodeConfig.HTTPTLSEnabled)
	assert.True(t, *s2.NodeConfig.HTTPTLSEnabled)
	assert.Equal(t, s2.NodeConfig.StakingTLSCertFile, s2.NodeConfig.HTTPTLSCertFile)
	require.NotNil(t, s2.NodeConfig.StateSyncIDs)
	assert.Equal(t, "NodeID-a,NodeID-b", *s2.NodeConfig.StateSyncIDs)
	assert.NotNil(t, s2.NodeConfig.ProfileContinuousEnabled)
	assert.NotNil(t, s2.ChainConfig.ContinuousProfilerDir)
}

func TestClusterID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		path string
		want string
	}{
		{"file stem", "/tmp/my-cluster.yaml", "my-cluster"},
		{"no extension", "clusters/prod", "prod"},
		{"stem truncated", "/tmp/" + "a23456789012345678901234567890" + ".yaml", "a234567890123456789012345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clusterID(tt.path, netid.DefaultCustomID)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxIDLength)
		})
	}

	generated := clusterID("", netid.DefaultCustomID)
	assert.NotEmpty(t, generated)
	assert.LessOrEqual(t, len(generated), MaxIDLength)
}

func TestValidate_FailFast(t *testing.T) {
	anchors := func(n uint32) *uint32 { return &n }

	tests := []struct {
		name    string
		mutate  func(s *Spec)
		wantMsg string
	}{
		{"empty id", func(s *Spec) { s.ID = "" }, "id"},
		{"long id", func(s *Spec) { s.ID = "a234567890123456789012345678x" }, "28"},
		{"zero non-anchor", func(s *Spec) { s.Machine.NonAnchorNodes = 0 }, "non_anchor_nodes"},
		{"too many non-anchor", func(s *Spec) { s.Machine.NonAnchorNodes = 201 }, "non_anchor_nodes"},
		{"custom without genesis", func(s *Spec) { s.GenesisTemplate = nil }, "genesis_template"},
		{"custom without anchors", func(s *Spec) { s.Machine.AnchorNodes = nil }, "anchor_nodes"},
		{"zero anchors", func(s *Spec) { s.Machine.AnchorNodes = anchors(0) }, "anchor_nodes"},
		{"too many anchors", func(s *Spec) { s.Machine.AnchorNodes = anchors(11) }, "anchor_nodes"},
		{"missing agent bin", func(s *Spec) { s.InstallArtifacts.AgentBin = "/nonexistent/agent" }, "agent_bin"},
		{"partial backup triple", func(s *Spec) { s.Resources.DBBackupS3Bucket = "backups" }, "db backup"},
		{"empty region", func(s *Spec) { s.Resources.Region = "" }, "region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validCustomSpec(t)
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_BoundaryCounts(t *testing.T) {
	anchors := func(n uint32) *uint32 { return &n }

	s := validCustomSpec(t)
	s.Machine.NonAnchorNodes = MaxNonAnchorNodes
	require.NoError(t, s.Validate())

	s.Machine.NonAnchorNodes = MinNonAnchorNodes
	require.NoError(t, s.Validate())

	s.Machine.AnchorNodes = anchors(MaxAnchorNodes)
	require.NoError(t, s.Validate())

	s.Machine.AnchorNodes = anchors(MinAnchorNodes)
	require.NoError(t, s.Validate())
}

func TestValidate_KnownNetworkRejectsCustomFields(t *testing.T) {
	s := validCustomSpec(t)
	s.NodeConfig.NetworkID = netid.MainnetID

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
	assert.Contains(t, err.Error(), "genesis_template")
}

func TestSyncLoadRoundTrip(t *testing.T) {
	s := validCustomSpec(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "c1.yaml")

	require.NoError(t, s.Sync(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Machine, loaded.Machine)
	assert.Equal(t, s.NodeConfig.NetworkID, loaded.NodeConfig.NetworkID)
	assert.Equal(t, s.GeneratedSeedKeyLocked, loaded.GeneratedSeedKeyLocked)
	assert.Equal(t, s.GeneratedSeedKeys, loaded.GeneratedSeedKeys)
	require.NotNil(t, loaded.GenesisTemplate)
	assert.Equal(t, s.GenesisTemplate.Allocations, loaded.GenesisTemplate.Allocations)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":\n  - ][ not yaml"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
}

func TestNewEndpoints(t *testing.T) {
	t.Parallel()
	e := NewEndpoints("http", "1.2.3.4", 9650)
	assert.Equal(t, "http://1.2.3.4:9650", e.HTTPRPC)
	assert.Equal(t, "http://1.2.3.4:9650/ext/bc/C/rpc", e.HTTPRPCC)
	assert.Equal(t, "http://1.2.3.4:9650/ext/health", e.Health)
	assert.Equal(t, "http://1.2.3.4:9650/ext/health/liveness", e.Liveness)
	assert.Equal(t, "ws://1.2.3.4:9650/ext/bc/C/ws", e.Websocket)

	tls := NewEndpoints("https", "example.com", 443)
	assert.Equal(t, "wss://example.com:443/ext/bc/C/ws", tls.Websocket)
}
