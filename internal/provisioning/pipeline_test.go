package provisioning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumlabs/nodeops/internal/health"
	"github.com/quorumlabs/nodeops/internal/netid"
	"github.com/quorumlabs/nodeops/internal/node"
	"github.com/quorumlabs/nodeops/internal/platform/cloudformation"
	"github.com/quorumlabs/nodeops/internal/spec"
)

type fakeStore struct {
	mu      sync.Mutex
	calls   *[]string
	objects map[string][]byte
	nodes   map[node.Kind][]*node.Node
	waitErr error
}

func (f *fakeStore) EnsureBucket(_ context.Context, bucketName string) error {
	f.record("ensure-bucket " + bucketName)
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, _, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	*f.calls = append(*f.calls, "put "+key)
	return nil
}

func (f *fakeStore) WaitReady(_ context.Context, _, _ string, kind node.Kind, want int, _, _ time.Duration) ([]*node.Node, error) {
	f.record(fmt.Sprintf("wait-ready %s %d", kind, want))
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return f.nodes[kind], nil
}

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, call)
}

type fakeStacks struct {
	mu        sync.Mutex
	calls     *[]string
	createErr error
	pollErr   error
}

func (f *fakeStacks) Create(_ context.Context, opts cloudformation.StackOptions) (*cloudformation.Stack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, "create "+opts.Name)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cloudformation.Stack{Name: opts.Name}, nil
}

func (f *fakeStacks) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, "delete "+name)
	return nil
}

func (f *fakeStacks) Poll(_ context.Context, name string, target types.StackStatus, _, _ time.Duration) (*cloudformation.Stack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.calls = append(*f.calls, fmt.Sprintf("poll %s %s", name, target))
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return &cloudformation.Stack{Name: name, Status: target}, nil
}

type fakeUploader struct {
	calls *[]string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, _ *spec.Spec) error {
	*f.calls = append(*f.calls, "upload-artifacts")
	return f.err
}

type fakeHealth struct {
	mu        sync.Mutex
	unhealthy map[string]bool
}

func (f *fakeHealth) Check(_ context.Context, endpoint string, _ bool) (*health.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	healthy := !f.unhealthy[endpoint]
	return &health.Report{Healthy: &healthy}, nil
}

type fixture struct {
	pipeline *Pipeline
	store    *fakeStore
	stacks   *fakeStacks
	uploader *fakeUploader
	health   *fakeHealth
	calls    []string
	spec     *spec.Spec
	specPath string
}

func newFixture(t *testing.T, custom bool) *fixture {
	t.Helper()
	f := &fixture{}

	dir := t.TempDir()
	agentBin := filepath.Join(dir, "agent")
	nodeBin := filepath.Join(dir, "node")
	require.NoError(t, os.WriteFile(agentBin, []byte("bin"), 0o755))
	require.NoError(t, os.WriteFile(nodeBin, []byte("bin"), 0o755))

	network := "dev"
	if !custom {
		network = "testnet"
	}
	s, err := spec.Derive(spec.DeriveOptions{
		SpecFilePath:   filepath.Join(dir, "c1.yaml"),
		Region:         "us-west-2",
		NetworkName:    network,
		NonAnchorNodes: 2,
		AgentBin:       agentBin,
		NodeBin:        nodeBin,
	})
	require.NoError(t, err)
	f.spec = s
	f.specPath = filepath.Join(dir, "c1.yaml")

	f.store = &fakeStore{
		calls: &f.calls,
		nodes: map[node.Kind][]*node.Node{
			node.KindAnchor: {
				node.New(node.KindAnchor, "i-a1", "NodeID-a1", "10.0.0.1", "http", 9650),
				node.New(node.KindAnchor, "i-a2", "NodeID-a2", "10.0.0.2", "http", 9650),
			},
			node.KindNonAnchor: {
				node.New(node.KindNonAnchor, "i-n1", "NodeID-n1", "10.0.1.1", "http", 9650),
				node.New(node.KindNonAnchor, "i-n2", "NodeID-n2", "10.0.1.2", "http", 9650),
			},
		},
	}
	f.stacks = &fakeStacks{calls: &f.calls}
	f.uploader = &fakeUploader{calls: &f.calls}
	f.health = &fakeHealth{}

	f.pipeline = NewPipeline(f.store, f.stacks, f.uploader, f.health, StackTemplates{
		InstanceRole:   "role-template",
		VPC:            "vpc-template",
		AnchorNodes:    "anchor-template",
		NonAnchorNodes: "non-anchor-template",
	}, Timeouts{
		StackPoll:     time.Second,
		StackInterval: time.Millisecond,
		NodeReady:     time.Second,
		NodeInterval:  time.Millisecond,
	}, f.specPath)
	return f
}

func TestApply_CustomNetworkOrdering(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.pipeline.Apply(context.Background(), f.spec))

	want := []string{
		"ensure-bucket " + f.spec.Resources.S3Bucket,
		"put c1/nodeops.config.yaml",
		"put c1/genesis.json",
		"upload-artifacts",
		"create c1-instance-role",
		"poll c1-instance-role CREATE_COMPLETE",
		"create c1-vpc",
		"poll c1-vpc CREATE_COMPLETE",
		"create c1-asg-anchor-nodes",
		"poll c1-asg-anchor-nodes CREATE_COMPLETE",
		"wait-ready anchor 2",
		"create c1-asg-non-anchor-nodes",
		"poll c1-asg-non-anchor-nodes CREATE_COMPLETE",
		"wait-ready non-anchor 2",
		"put c1/nodeops.config.yaml",
		"put c1/genesis.json",
	}
	assert.Equal(t, want, f.calls)
}

func TestApply_RecordsNodesAndEndpoints(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.pipeline.Apply(context.Background(), f.spec))

	require.Len(t, f.spec.CurrentNodes, 4)
	assert.Equal(t, "i-a1", f.spec.CurrentNodes[0].MachineID)
	require.NotNil(t, f.spec.Endpoints)
	assert.Equal(t, "http://10.0.0.1:9650", f.spec.Endpoints.HTTPRPC)
	assert.Equal(t, "http://10.0.0.1:9650/ext/health", f.spec.Endpoints.Health)

	// the recorded document must reload with nodes intact
	reloaded, err := spec.Load(f.specPath)
	require.NoError(t, err)
	assert.Len(t, reloaded.CurrentNodes, 4)
	require.NotNil(t, reloaded.Endpoints)
	assert.Equal(t, f.spec.Endpoints.HTTPRPC, reloaded.Endpoints.HTTPRPC)
}

func TestApply_KnownNetworkSkipsAnchors(t *testing.T) {
	f := newFixture(t, false)
	require.Equal(t, netid.TestnetID, f.spec.NodeConfig.NetworkID)

	require.NoError(t, f.pipeline.Apply(context.Background(), f.spec))

	for _, call := range f.calls {
		assert.NotContains(t, call, "anchor-nodes", "known networks have no anchor pool: %s", call)
		assert.NotContains(t, call, "genesis.json")
	}
	assert.Contains(t, f.calls, "wait-ready non-anchor 2")
}

func TestApply_UnhealthyNodeFails(t *testing.T) {
	f := newFixture(t, true)
	f.health.unhealthy = map[string]bool{"http://10.0.1.2:9650": true}

	err := f.pipeline.Apply(context.Background(), f.spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i-n2")
	assert.Nil(t, f.spec.CurrentNodes, "nodes are recorded only after corroboration")
}

func TestApply_WaitFailureAborts(t *testing.T) {
	f := newFixture(t, true)
	f.store.waitErr = fmt.Errorf("listing throttled")

	err := f.pipeline.Apply(context.Background(), f.spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anchor nodes never became ready")
	assert.NotContains(t, f.calls, "create c1-asg-non-anchor-nodes")
}

func TestApply_InvalidSpecRejectedBeforeSideEffects(t *testing.T) {
	f := newFixture(t, true)
	f.spec.Machine.NonAnchorNodes = 0

	err := f.pipeline.Apply(context.Background(), f.spec)
	require.Error(t, err)
	assert.Empty(t, f.calls)
}

func TestDestroy_ReverseOrder(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.pipeline.Destroy(context.Background(), f.spec))

	want := []string{
		"delete c1-asg-non-anchor-nodes",
		"poll c1-asg-non-anchor-nodes DELETE_COMPLETE",
		"delete c1-asg-anchor-nodes",
		"poll c1-asg-anchor-nodes DELETE_COMPLETE",
		"delete c1-vpc",
		"poll c1-vpc DELETE_COMPLETE",
		"delete c1-instance-role",
		"poll c1-instance-role DELETE_COMPLETE",
	}
	assert.Equal(t, want, f.calls)
}
