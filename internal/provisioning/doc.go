// Package provisioning drives cluster apply and destroy.
//
// Apply brings a cluster from a validated specification to a set of healthy,
// discovered nodes: shared storage first, then infrastructure stacks in
// dependency order, then discovery waits and health corroboration. Destroy
// tears the stacks down in reverse order. Collaborators (object store, stack
// manager, artifact uploader, health prober) enter through interfaces so the
// sequencing is testable without a cloud account.
package provisioning
