/*
Package status produces the read-only health report: per-resource probes,
TCP reachability of published ports, and a keyword scan over recent
container logs for error/warning/fatal/critical tokens.

Status mode never mutates external state; only the Probe primitive is
invoked. Serve optionally exposes the report at /healthz and Prometheus
metrics at /metrics.
*/
package status
