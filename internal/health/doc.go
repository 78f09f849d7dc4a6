// Package health probes node HTTP health endpoints and decodes their
// reports. Readiness and liveness differ only in endpoint path and in how
// much of the report matters: readiness requires every check green, liveness
// only that the process answers.
package health
