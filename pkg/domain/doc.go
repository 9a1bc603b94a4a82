/*
Package domain contains the core value types of the sonisync reconciler.

It describes the host chart's data as the reconciler observes it, the shape the
sonification engine consumes, and the artifacts produced in between. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Value / Dataset: one entry / one series of the host's data model.
  - Point / Payload: normalized sonification data, tagged with its origin.
  - AxisSpec / Axes: the engine's axis configuration, derived per reconciliation.
  - Snapshot: a serialized fingerprint used for change detection.
  - Verdict: the update strategy selected for one reconciliation.
*/
package domain
