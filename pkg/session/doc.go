/*
Package session serializes hook delivery per chart.

Hooks for one chart must never run concurrently. When charts are driven from
concurrent request handlers, the Serializer provides a reference-counted
keyed lock per chart, optionally backed by a distributed lock so that
replicas sharing a snapshot store do not interleave updates.
*/
package session
