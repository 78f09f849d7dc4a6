// Package handlers implements the CLI command logic: loading documents,
// wiring collaborators, and running the provisioning pipelines.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/quorumlabs/nodeops/internal/health"
	"github.com/quorumlabs/nodeops/internal/platform/cloudformation"
	"github.com/quorumlabs/nodeops/internal/platform/s3"
	"github.com/quorumlabs/nodeops/internal/provisioning"
	"github.com/quorumlabs/nodeops/internal/spec"
)

// DefaultSpec derives a specification from options and writes it to disk.
func DefaultSpec(opts spec.DeriveOptions, outPath string) error {
	s, err := spec.Derive(opts)
	if err != nil {
		return err
	}
	if err := s.Sync(outPath); err != nil {
		return err
	}
	log.Printf("wrote spec for cluster %s to %s", s.ID, outPath)
	log.Printf("edit the file if needed, then run: nodeops check -s %s", outPath)
	return nil
}

// Check loads and validates a specification without any cloud access.
func Check(specPath string) error {
	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	network := "custom"
	if !s.IsCustomNetwork() {
		network = "well-known"
	}
	anchors := uint32(0)
	if s.Machine.AnchorNodes != nil {
		anchors = *s.Machine.AnchorNodes
	}
	log.Printf("spec %s is valid: network %d (%s), %d anchor / %d non-anchor nodes, bucket %s",
		s.ID, s.NodeConfig.NetworkID, network, anchors, s.Machine.NonAnchorNodes, s.Resources.S3Bucket)
	return nil
}

// Apply provisions the cluster described by the specification.
func Apply(ctx context.Context, specPath, templatesDir string) error {
	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}

	templates, err := loadTemplates(templatesDir)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(ctx, s, templates, specPath)
	if err != nil {
		return err
	}
	return pipeline.Apply(ctx, s)
}

// Destroy tears down the cluster's infrastructure stacks.
func Destroy(ctx context.Context, specPath string) error {
	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(ctx, s, provisioning.StackTemplates{}, specPath)
	if err != nil {
		return err
	}
	return pipeline.Destroy(ctx, s)
}

// Health probes one endpoint and prints the decoded report as JSON.
func Health(ctx context.Context, endpoint string, liveness bool) error {
	report, err := health.NewClient().Check(ctx, endpoint, liveness)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render health report: %w", err)
	}
	fmt.Println(string(out))

	if !report.IsHealthy() {
		return fmt.Errorf("node at %s is not healthy", endpoint)
	}
	return nil
}

func newPipeline(ctx context.Context, s *spec.Spec, templates provisioning.StackTemplates, specPath string) (*provisioning.Pipeline, error) {
	if s.Resources == nil {
		return nil, fmt.Errorf("spec %s has no aws_resources", s.ID)
	}

	store, err := s3.NewClient(ctx, s.Resources.Region)
	if err != nil {
		return nil, err
	}
	stacks, err := cloudformation.NewManager(ctx, s.Resources.Region)
	if err != nil {
		return nil, err
	}

	return provisioning.NewPipeline(
		store,
		stacks,
		provisioning.NewUploader(store),
		health.NewClient(),
		templates,
		provisioning.DefaultTimeouts(),
		specPath,
	), nil
}

// loadTemplates reads the stack template bodies from a directory with fixed
// file names, mirroring the stack layout.
func loadTemplates(dir string) (provisioning.StackTemplates, error) {
	var t provisioning.StackTemplates
	for _, entry := range []struct {
		file string
		dst  *string
	}{
		{"instance-role.yaml", &t.InstanceRole},
		{"vpc.yaml", &t.VPC},
		{"asg-anchor-nodes.yaml", &t.AnchorNodes},
		{"asg-non-anchor-nodes.yaml", &t.NonAnchorNodes},
	} {
		data, err := os.ReadFile(filepath.Join(dir, entry.file))
		if err != nil {
			return t, fmt.Errorf("failed to read stack template %s: %w", entry.file, err)
		}
		*entry.dst = string(data)
	}
	return t, nil
}
