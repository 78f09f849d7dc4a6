package provisioning

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/nodeops/internal/node"
	"github.com/quorumlabs/nodeops/internal/platform/cloudformation"
	"github.com/quorumlabs/nodeops/internal/spec"
	"github.com/quorumlabs/nodeops/internal/storage"
	"github.com/quorumlabs/nodeops/internal/util/async"
	"github.com/quorumlabs/nodeops/internal/util/naming"
)

// StackTemplates carries the infrastructure template bodies, in dependency
// order. Template contents are opaque to the pipeline.
type StackTemplates struct {
	InstanceRole   string
	VPC            string
	AnchorNodes    string
	NonAnchorNodes string
}

// Timeouts bounds the pipeline's waits.
type Timeouts struct {
	StackPoll     time.Duration
	StackInterval time.Duration
	NodeReady     time.Duration
	NodeInterval  time.Duration
}

// DefaultTimeouts are sized for ASG boot plus node bootstrap.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		StackPoll:     20 * time.Minute,
		StackInterval: 30 * time.Second,
		NodeReady:     30 * time.Minute,
		NodeInterval:  30 * time.Second,
	}
}

// Pipeline sequences cluster apply and destroy.
type Pipeline struct {
	store     Store
	stacks    StackManager
	uploader  ArtifactUploader
	health    HealthChecker
	templates StackTemplates
	timeouts  Timeouts

	// specPath is where the updated document is written back after apply.
	specPath string
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(store Store, stacks StackManager, uploader ArtifactUploader, checker HealthChecker, templates StackTemplates, timeouts Timeouts, specPath string) *Pipeline {
	return &Pipeline{
		store:     store,
		stacks:    stacks,
		uploader:  uploader,
		health:    checker,
		templates: templates,
		timeouts:  timeouts,
		specPath:  specPath,
	}
}

// Apply brings the cluster up. The spec is mutated in place: discovered
// nodes and endpoints are recorded and the document is written back to both
// local disk and shared storage.
func (p *Pipeline) Apply(ctx context.Context, s *spec.Spec) error {
	if err := s.Validate(); err != nil {
		return err
	}
	bucket := s.Resources.S3Bucket
	log.Printf("applying cluster %s (bucket %s)", s.ID, bucket)

	if err := p.store.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	if err := p.syncToStorage(ctx, s); err != nil {
		return err
	}
	if err := p.uploader.Upload(ctx, s); err != nil {
		return fmt.Errorf("failed to upload install artifacts: %w", err)
	}

	if err := p.createStack(ctx, naming.InstanceRoleStack(s.ID), p.templates.InstanceRole, s.ID, []types.Capability{types.CapabilityCapabilityNamedIam}); err != nil {
		return err
	}
	if err := p.createStack(ctx, naming.VPCStack(s.ID), p.templates.VPC, s.ID, nil); err != nil {
		return err
	}

	var discovered []*node.Node
	if s.IsCustomNetwork() {
		if err := p.createStack(ctx, naming.AnchorNodesStack(s.ID), p.templates.AnchorNodes, s.ID, nil); err != nil {
			return err
		}
		anchors, err := p.store.WaitReady(ctx, bucket, s.ID, node.KindAnchor, int(*s.Machine.AnchorNodes), p.timeouts.NodeInterval, p.timeouts.NodeReady)
		if err != nil {
			return fmt.Errorf("anchor nodes never became ready: %w", err)
		}
		discovered = append(discovered, anchors...)
	}

	if err := p.createStack(ctx, naming.NonAnchorNodesStack(s.ID), p.templates.NonAnchorNodes, s.ID, nil); err != nil {
		return err
	}
	nonAnchors, err := p.store.WaitReady(ctx, bucket, s.ID, node.KindNonAnchor, int(s.Machine.NonAnchorNodes), p.timeouts.NodeInterval, p.timeouts.NodeReady)
	if err != nil {
		return fmt.Errorf("non-anchor nodes never became ready: %w", err)
	}
	discovered = append(discovered, nonAnchors...)

	if err := p.corroborateHealth(ctx, discovered); err != nil {
		return err
	}

	sort.Slice(discovered, func(i, j int) bool { return discovered[i].MachineID < discovered[j].MachineID })
	s.CurrentNodes = discovered
	s.Endpoints = endpointsFor(s, discovered)

	// infrastructure is up at this point; a record failure must be loud so
	// the operator knows the document no longer matches reality
	if err := s.Sync(p.specPath); err != nil {
		return fmt.Errorf("cluster %s is provisioned but the spec could not be recorded locally: %w", s.ID, err)
	}
	if err := p.syncToStorage(ctx, s); err != nil {
		return fmt.Errorf("cluster %s is provisioned but the spec could not be recorded in storage: %w", s.ID, err)
	}

	log.Printf("cluster %s is up with %d nodes", s.ID, len(discovered))
	return nil
}

// Destroy tears the stacks down in reverse dependency order. Every delete is
// idempotent, so a failed destroy can be re-run.
func (p *Pipeline) Destroy(ctx context.Context, s *spec.Spec) error {
	log.Printf("destroying cluster %s", s.ID)

	stacks := []string{naming.NonAnchorNodesStack(s.ID)}
	if s.IsCustomNetwork() {
		stacks = append(stacks, naming.AnchorNodesStack(s.ID))
	}
	stacks = append(stacks, naming.VPCStack(s.ID), naming.InstanceRoleStack(s.ID))

	for _, name := range stacks {
		if err := p.stacks.Delete(ctx, name); err != nil {
			return err
		}
		if _, err := p.stacks.Poll(ctx, name, types.StackStatusDeleteComplete, p.timeouts.StackPoll, p.timeouts.StackInterval); err != nil {
			return fmt.Errorf("stack %s never finished deleting: %w", name, err)
		}
	}

	log.Printf("cluster %s destroyed", s.ID)
	return nil
}

// createStack submits one stack and waits for CREATE_COMPLETE.
func (p *Pipeline) createStack(ctx context.Context, name, template, clusterID string, capabilities []types.Capability) error {
	_, err := p.stacks.Create(ctx, cloudformation.StackOptions{
		Name:         name,
		TemplateBody: template,
		Capabilities: capabilities,
		OnFailure:    types.OnFailureDelete,
		Tags:         map[string]string{"Name": name, "nodeops-cluster": clusterID},
	})
	if err != nil {
		return err
	}
	if _, err := p.stacks.Poll(ctx, name, types.StackStatusCreateComplete, p.timeouts.StackPoll, p.timeouts.StackInterval); err != nil {
		return fmt.Errorf("stack %s never completed: %w", name, err)
	}
	return nil
}

// syncToStorage writes the spec document (and genesis, for custom networks)
// under the cluster's storage namespace.
func (p *Pipeline) syncToStorage(ctx context.Context, s *spec.Spec) error {
	doc, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize spec for storage: %w", err)
	}
	if err := p.store.PutObject(ctx, s.Resources.S3Bucket, storage.ConfigFile(s.ID), doc); err != nil {
		return err
	}

	if s.GenesisTemplate != nil {
		g, err := s.GenesisTemplate.EncodeJSON()
		if err != nil {
			return err
		}
		if err := p.store.PutObject(ctx, s.Resources.S3Bucket, storage.GenesisFile(s.ID), g); err != nil {
			return err
		}
	}
	return nil
}

// corroborateHealth probes every discovered node concurrently. Discovery
// says a node published ready; a liveness probe confirms it still answers.
func (p *Pipeline) corroborateHealth(ctx context.Context, nodes []*node.Node) error {
	tasks := make([]async.Task, 0, len(nodes))
	for _, n := range nodes {
		n := n
		tasks = append(tasks, async.Task{
			Name: n.MachineID,
			Func: func(ctx context.Context) error {
				report, err := p.health.Check(ctx, n.HTTPEndpoint, false)
				if err != nil {
					return err
				}
				if !report.IsHealthy() {
					return fmt.Errorf("node %s reports unhealthy", n.MachineID)
				}
				return nil
			},
		})
	}

	var failed []string
	for _, res := range async.RunParallelCollect(ctx, tasks) {
		if res.Err != nil {
			log.Printf("health check failed for %s: %v", res.Name, res.Err)
			failed = append(failed, res.Name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%d of %d nodes failed health checks: %v", len(failed), len(nodes), failed)
	}
	return nil
}

// endpointsFor derives the published service URLs from the first discovered
// node. Every node serves the same APIs; the aggregate just needs one base.
func endpointsFor(s *spec.Spec, nodes []*node.Node) *spec.Endpoints {
	if len(nodes) == 0 {
		return nil
	}
	scheme := "http"
	if s.NodeConfig.HTTPTLSEnabled != nil && *s.NodeConfig.HTTPTLSEnabled {
		scheme = "https"
	}
	return spec.NewEndpoints(scheme, nodes[0].PublicIP, s.NodeConfig.HTTPPort)
}
