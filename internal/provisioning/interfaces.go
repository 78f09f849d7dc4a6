package provisioning

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/quorumlabs/nodeops/internal/health"
	"github.com/quorumlabs/nodeops/internal/node"
	"github.com/quorumlabs/nodeops/internal/platform/cloudformation"
	"github.com/quorumlabs/nodeops/internal/spec"
)

// Store is the object-storage surface the pipeline needs. Implemented by
// platform/s3.Client.
type Store interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	WaitReady(ctx context.Context, bucketName, clusterID string, kind node.Kind, want int, interval, timeout time.Duration) ([]*node.Node, error)
}

// StackManager is the stack lifecycle surface. Implemented by
// platform/cloudformation.Manager.
type StackManager interface {
	Create(ctx context.Context, opts cloudformation.StackOptions) (*cloudformation.Stack, error)
	Delete(ctx context.Context, name string) error
	Poll(ctx context.Context, name string, target types.StackStatus, timeout, interval time.Duration) (*cloudformation.Stack, error)
}

// ArtifactUploader pushes locally built install artifacts into shared
// storage. Packaging and compression live behind this interface.
type ArtifactUploader interface {
	Upload(ctx context.Context, s *spec.Spec) error
}

// HealthChecker probes one node endpoint. Implemented by health.Client.
type HealthChecker interface {
	Check(ctx context.Context, endpoint string, liveness bool) (*health.Report, error)
}
