// Package s3 provides the shared object-storage client and the
// storage-mediated discovery protocol built on top of it.
//
// The object store is the cluster's only synchronization point. Keys are
// partitioned by machine ID (at most one writer per key) and reads only ever
// see committed objects, so the protocol needs no locking; readers must
// tolerate observing one machine in two phases at once and prefer the more
// advanced phase.
package s3
