package node

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/nodeops/internal/errdefs"
)

// Token codec: YAML -> zstd -> base58.
//
// The resulting token carries the whole identity, is deterministic for one
// identity, and stays filename- and URL-safe: the base58 alphabet contains
// no path separators, underscores, or dots, which the storage namespace
// relies on when it splits discovery filenames.

// Encode packs the node identity into a compressed base58 token.
func (n *Node) Encode() (string, error) {
	raw, err := yaml.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to serialize node: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to close compressor: %w", err)
	}

	return base58.Encode(compressed), nil
}

// Decode is the exact inverse of Encode. Any stage failure returns a
// DecodeError naming the stage, so protocol-compatibility breaks stay
// distinguishable from an empty listing.
func Decode(token string) (*Node, error) {
	compressed, err := base58.Decode(token)
	if err != nil {
		return nil, &errdefs.DecodeError{Stage: "base58", Err: err}
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, &errdefs.DecodeError{Stage: "zstd", Err: err}
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, &errdefs.DecodeError{Stage: "zstd", Err: err}
	}

	var n Node
	if err := yaml.Unmarshal(raw, &n); err != nil {
		return nil, &errdefs.DecodeError{Stage: "yaml", Err: err}
	}
	if !n.Kind.IsValid() {
		return nil, &errdefs.DecodeError{Stage: "yaml", Err: fmt.Errorf("unknown node kind %q", n.Kind)}
	}
	return &n, nil
}
