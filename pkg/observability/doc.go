/*
Package observability turns driver lifecycle hooks into Prometheus metrics
and structured log records.
*/
package observability
