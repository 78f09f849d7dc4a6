// Package cloudformation manages the lifecycle of infrastructure stacks.
//
// The manager is deliberately thin: create submits a template, poll watches a
// named stack until it reaches a target status, and delete is idempotent so
// teardown can be re-run from any point. Stack semantics (what a template
// provisions) live with the callers; this package only tracks status.
package cloudformation
