package spec

import (
	"fmt"
	"os"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// Validate checks the specification and fails fast on the first violation.
// Every failure wraps errdefs.ErrInvalidInput; the message names the field.
func (s *Spec) Validate() error {
	if s.ID == "" {
		return errdefs.InvalidInputf("id must not be empty")
	}
	if len(s.ID) > MaxIDLength {
		return errdefs.InvalidInputf("id %q exceeds %d characters", s.ID, MaxIDLength)
	}

	if s.NodeConfig == nil {
		return errdefs.InvalidInputf("node_config must be set")
	}

	if s.Machine.NonAnchorNodes < MinNonAnchorNodes {
		return errdefs.InvalidInputf("non_anchor_nodes %d below minimum %d", s.Machine.NonAnchorNodes, MinNonAnchorNodes)
	}
	if s.Machine.NonAnchorNodes > MaxNonAnchorNodes {
		return errdefs.InvalidInputf("non_anchor_nodes %d exceeds maximum %d", s.Machine.NonAnchorNodes, MaxNonAnchorNodes)
	}

	if s.IsCustomNetwork() {
		if s.GenesisTemplate == nil {
			return errdefs.InvalidInputf("custom network %d requires genesis_template", s.NodeConfig.NetworkID)
		}
		if s.Machine.AnchorNodes == nil || *s.Machine.AnchorNodes < MinAnchorNodes {
			return errdefs.InvalidInputf("custom network requires anchor_nodes of at least %d", MinAnchorNodes)
		}
		if *s.Machine.AnchorNodes > MaxAnchorNodes {
			return errdefs.InvalidInputf("anchor_nodes %d exceeds maximum %d", *s.Machine.AnchorNodes, MaxAnchorNodes)
		}
	} else {
		if s.GenesisTemplate != nil {
			return errdefs.InvalidInputf("network %d is well-known and must not carry genesis_template", s.NodeConfig.NetworkID)
		}
		if s.Machine.AnchorNodes != nil && *s.Machine.AnchorNodes > 0 {
			return errdefs.InvalidInputf("network %d is well-known and must not request anchor nodes", s.NodeConfig.NetworkID)
		}
	}

	if err := s.validateArtifacts(); err != nil {
		return err
	}

	if s.Resources != nil {
		r := s.Resources
		backupsSet := 0
		for _, v := range []string{r.DBBackupS3Region, r.DBBackupS3Bucket, r.DBBackupS3Key} {
			if v != "" {
				backupsSet++
			}
		}
		if backupsSet != 0 && backupsSet != 3 {
			return errdefs.InvalidInputf("db backup requires region, bucket and key together")
		}
		if r.Region == "" {
			return errdefs.InvalidInputf("aws_resources.region must not be empty")
		}
	}

	return nil
}

// validateArtifacts checks that every named install artifact exists locally.
// Missing artifacts fail at validation rather than mid-apply.
func (s *Spec) validateArtifacts() error {
	if s.InstallArtifacts.AgentBin != "" {
		if err := pathExists(s.InstallArtifacts.AgentBin); err != nil {
			return errdefs.InvalidInputf("install_artifacts.agent_bin: %v", err)
		}
	}
	if s.InstallArtifacts.NodeBin != "" {
		if err := pathExists(s.InstallArtifacts.NodeBin); err != nil {
			return errdefs.InvalidInputf("install_artifacts.node_bin: %v", err)
		}
	}
	if s.InstallArtifacts.PluginsDir != nil {
		if err := pathExists(*s.InstallArtifacts.PluginsDir); err != nil {
			return errdefs.InvalidInputf("install_artifacts.plugins_dir: %v", err)
		}
	}
	return nil
}

func pathExists(p string) error {
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("%s does not exist", p)
	}
	return nil
}
