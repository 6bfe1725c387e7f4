// Package instrumentation provides OpenTelemetry metrics for pipeline runs.
//
// The process is a short-lived batch job, so there is no scrape endpoint;
// counters are accumulated during the run and flushed through the stdout
// exporter when the recorder shuts down.
package instrumentation
