// Package spec models the cluster specification document.
//
// A specification is derived once from a handful of options, validated, and
// then becomes the single source of truth for the cluster: every derived
// value (network id, node counts, seed keys, genesis template, bucket name)
// is materialized into the document so that re-running any operation reads
// the same answers instead of re-deriving them.
package spec
