// Package metrics registers the Prometheus collectors for agent capability
// calls and HTTP handlers, and serves them on /metrics.
package metrics
