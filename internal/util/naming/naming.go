package naming

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"os"
	"strings"
	"time"
)

// Naming functions for cluster resources.
// Stack names must stay within cloud tag-length constraints, which is why
// cluster IDs are capped at 28 characters upstream.

func InstanceRoleStack(cluster string) string {
	return fmt.Sprintf("%s-instance-role", cluster)
}

func VPCStack(cluster string) string {
	return fmt.Sprintf("%s-vpc", cluster)
}

func AnchorNodesStack(cluster string) string {
	return fmt.Sprintf("%s-asg-anchor-nodes", cluster)
}

func NonAnchorNodesStack(cluster string) string {
	return fmt.Sprintf("%s-asg-non-anchor-nodes", cluster)
}

// WithTimestamp synthesizes an ID as {prefix}-{timestamp}, used for cluster
// IDs when no spec file name is provided.
func WithTimestamp(prefix string) string {
	return withTimestamp(prefix, time.Now().UTC())
}

func withTimestamp(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, now.Format("200601021504"))
}

// BucketName synthesizes a globally-scoped bucket name from a coarse date
// stamp and a host-derived suffix. Bucket names share one global namespace,
// so the suffix keeps clusters created by different operators apart.
func BucketName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), SystemID(10))
}

// SystemID derives an n-character lowercase identifier from the local host
// name. The same host always derives the same suffix.
func SystemID(n int) string {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	sum := sha256.Sum256([]byte(host))
	enc := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:]))
	if n > len(enc) {
		n = len(enc)
	}
	return enc[:n]
}
