// Package retry provides bounded retry with exponential backoff for
// transient collaborator errors. Errors wrapped with Fatal are surfaced
// immediately; everything else is retried until the attempt budget or the
// caller's context runs out.
package retry
