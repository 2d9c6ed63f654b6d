// Package download runs a request through the ordered fallback strategies,
// optionally extracts audio, and reports progress as typed events. Service
// guards the pipeline so that at most one request is in flight.
package download
