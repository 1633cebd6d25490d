// Package metric records Prometheus metrics for one falcon-speak run.
//
//   - prometheus.go: the Registry and its observer hooks
//   - collector.go: a collector reporting token cache state
//
// A CLI process is too short-lived to be scraped, so the registry is
// written to a node_exporter textfile on exit when --metrics-textfile is set.
package metric
