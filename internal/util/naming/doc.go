// Package naming provides consistent naming functions for cluster resources.
//
// Infrastructure stacks follow the pattern {cluster}-{type} so that every
// resource belonging to a cluster can be identified and cleaned up by its
// cluster ID prefix. Bucket names add a coarse date stamp and a host-derived
// suffix because the object-storage namespace is global.
package naming
