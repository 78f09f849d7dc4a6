// Package dev models the dev machine configuration: a standalone operator
// box that shares the cluster's storage but runs no node. It reuses the
// cluster's region and bucket and carries only what the dev tooling needs.
package dev

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// DefaultInstanceType sizes the dev machine when none is chosen.
const DefaultInstanceType = "m5.large"

// Config describes a dev machine attached to an existing cluster.
type Config struct {
	ClusterID string `yaml:"cluster_id" mapstructure:"cluster_id"`

	Region   string `yaml:"region" mapstructure:"region"`
	S3Bucket string `yaml:"s3_bucket" mapstructure:"s3_bucket"`

	InstanceType string `yaml:"instance_type,omitempty" mapstructure:"instance_type"`

	// SSHPublicKey, when set, is installed for the operator login.
	SSHPublicKey string `yaml:"ssh_public_key,omitempty" mapstructure:"ssh_public_key"`
}

// Validate checks the document, failing on the first violation.
func (c *Config) Validate() error {
	if c.ClusterID == "" {
		return errdefs.InvalidInputf("cluster_id must not be empty")
	}
	if c.Region == "" {
		return errdefs.InvalidInputf("region must not be empty")
	}
	if c.S3Bucket == "" {
		return errdefs.InvalidInputf("s3_bucket must not be empty")
	}
	return nil
}

// LoadFile reads and parses a dev machine configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errdefs.NotFoundf("dev machine config %s", path)
		}
		return nil, fmt.Errorf("failed to read dev machine config: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errdefs.InvalidInputf("dev machine config %s is not valid YAML: %v", path, err)
	}

	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, errdefs.InvalidInputf("dev machine config %s: %v", path, err)
	}

	if cfg.InstanceType == "" {
		cfg.InstanceType = DefaultInstanceType
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sync writes the configuration to disk, creating parent directories.
func (c *Config) Sync(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize dev machine config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dev machine config %s: %w", path, err)
	}
	return nil
}
