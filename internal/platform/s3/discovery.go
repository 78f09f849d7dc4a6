package s3

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/nodeops/internal/errdefs"
	"github.com/quorumlabs/nodeops/internal/node"
	"github.com/quorumlabs/nodeops/internal/storage"
	"github.com/quorumlabs/nodeops/internal/util/retry"
)

// PublishNode writes a node's discovery entry for one phase. The identity
// travels in the key itself so a single listing discovers the whole cluster;
// the body carries the same record as plain YAML for human inspection.
func (c *Client) PublishNode(ctx context.Context, bucketName, clusterID string, ph node.Phase, n *node.Node) error {
	key, err := storage.DiscoverNode(clusterID, ph, n)
	if err != nil {
		return err
	}
	body, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal node %s: %w", n.MachineID, err)
	}
	log.Printf("publishing %s node %s at phase %s", n.Kind, n.MachineID, ph)
	return c.PutObject(ctx, bucketName, key, body)
}

// ListNodes lists node identities published under one phase directory.
// A corrupt entry fails the whole listing rather than being skipped.
func (c *Client) ListNodes(ctx context.Context, bucketName, clusterID string, ph node.Phase, kind node.Kind) ([]*node.Node, error) {
	dir, err := storage.DiscoverDir(clusterID, ph, kind)
	if err != nil {
		return nil, err
	}

	keys, err := c.ListKeys(ctx, bucketName, dir+"/")
	if err != nil {
		return nil, err
	}

	nodes := make([]*node.Node, 0, len(keys))
	for _, key := range keys {
		n, err := storage.ParseNode(key)
		if err != nil {
			return nil, fmt.Errorf("corrupt discovery entry: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ResolvePhases merges per-phase listings into one phase per machine,
// keeping the most advanced phase observed. A machine mid-transition is
// listed under two directories at once; the older entry is stale, not wrong.
func ResolvePhases(byPhase map[node.Phase][]*node.Node) map[string]node.Phase {
	resolved := make(map[string]node.Phase)
	for ph, nodes := range byPhase {
		for _, n := range nodes {
			if cur, ok := resolved[n.MachineID]; ok {
				resolved[n.MachineID] = node.MoreAdvanced(cur, ph)
			} else {
				resolved[n.MachineID] = ph
			}
		}
	}
	return resolved
}

// WaitReady polls the ready directory for one node class until at least
// want distinct machines have published there, deduplicated by machine ID.
// Transient listing errors are retried; a corrupt entry aborts the wait.
func (c *Client) WaitReady(ctx context.Context, bucketName, clusterID string, kind node.Kind, want int, interval, timeout time.Duration) ([]*node.Node, error) {
	if want <= 0 {
		return nil, errdefs.InvalidInputf("expected node count must be positive (got %d)", want)
	}

	deadline := time.Now().Add(timeout)
	lastSeen := 0
	for {
		var nodes []*node.Node
		err := retry.Do(ctx, func() error {
			var listErr error
			nodes, listErr = c.ListNodes(ctx, bucketName, clusterID, node.PhaseReady, kind)
			if listErr != nil && errdefs.IsParse(listErr) {
				return retry.Fatal(listErr)
			}
			return listErr
		}, retry.WithMaxRetries(3), retry.WithInitialDelay(interval))
		if err != nil {
			return nil, err
		}

		byMachine := make(map[string]*node.Node, len(nodes))
		for _, n := range nodes {
			byMachine[n.MachineID] = n
		}
		if len(byMachine) != lastSeen {
			log.Printf("discovered %d/%d ready %s nodes", len(byMachine), want, kind)
			lastSeen = len(byMachine)
		}

		if len(byMachine) >= want {
			out := make([]*node.Node, 0, len(byMachine))
			for _, n := range byMachine {
				out = append(out, n)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].MachineID < out[j].MachineID })
			return out, nil
		}

		if time.Now().After(deadline) {
			return nil, &errdefs.TimeoutError{
				Name:       fmt.Sprintf("%s nodes ready", kind),
				LastStatus: fmt.Sprintf("%d/%d", len(byMachine), want),
				Elapsed:    timeout,
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
