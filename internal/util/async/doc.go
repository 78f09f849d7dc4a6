// Package async provides helpers for running independent operations
// concurrently. It is used for probing many nodes at once, where each call
// is read-only and addresses a distinct endpoint, so no coordination beyond
// waiting for completion is needed.
package async
