package provisioning

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/quorumlabs/nodeops/internal/spec"
	"github.com/quorumlabs/nodeops/internal/storage"
)

// Uploader pushes the locally built install artifacts into the cluster's
// storage namespace. The node binary is compressed; agents decompress it on
// install. The agent binary itself stays uncompressed because the bootstrap
// script fetches and executes it directly.
type Uploader struct {
	store Store
}

// NewUploader creates an artifact uploader over the given store.
func NewUploader(store Store) *Uploader {
	return &Uploader{store: store}
}

// Upload reads each artifact named by the spec and writes it under the
// cluster's install keys.
func (u *Uploader) Upload(ctx context.Context, s *spec.Spec) error {
	bucket := s.Resources.S3Bucket

	agent, err := os.ReadFile(s.InstallArtifacts.AgentBin)
	if err != nil {
		return fmt.Errorf("failed to read agent binary: %w", err)
	}
	log.Printf("uploading agent binary (%d bytes)", len(agent))
	if err := u.store.PutObject(ctx, bucket, storage.AgentBin(s.ID), agent); err != nil {
		return err
	}

	nodeBin, err := os.ReadFile(s.InstallArtifacts.NodeBin)
	if err != nil {
		return fmt.Errorf("failed to read node binary: %w", err)
	}
	compressed, err := compress(nodeBin)
	if err != nil {
		return fmt.Errorf("failed to compress node binary: %w", err)
	}
	log.Printf("uploading node binary (%d bytes, %d compressed)", len(nodeBin), len(compressed))
	if err := u.store.PutObject(ctx, bucket, storage.NodeBinCompressed(s.ID), compressed); err != nil {
		return err
	}

	if s.InstallArtifacts.PluginsDir != nil {
		if err := u.uploadPlugins(ctx, s, *s.InstallArtifacts.PluginsDir); err != nil {
			return err
		}
	}
	return nil
}

// uploadPlugins compresses and uploads every regular file in the plugin
// directory under its own key.
func (u *Uploader) uploadPlugins(ctx context.Context, s *spec.Spec, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read plugins dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read plugin %s: %w", entry.Name(), err)
		}
		compressed, err := compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress plugin %s: %w", entry.Name(), err)
		}
		key := storage.PluginsDir(s.ID) + "/" + entry.Name() + ".zstd"
		log.Printf("uploading plugin %s (%d compressed)", entry.Name(), len(compressed))
		if err := u.store.PutObject(ctx, s.Resources.S3Bucket, key, compressed); err != nil {
			return err
		}
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
