/*
Package ports defines the driven ports (interfaces) of the sonisync reconciler.

These interfaces decouple the reconciliation core from the host chart library,
the sonification engine, and persistence, so each can be swapped for an
in-memory adapter in tests.

# Key Interfaces

  - Chart: the externally owned host chart (data model plus view hooks).
  - Sonifier: a sonification engine instance, with the narrow internals
    contract (categories, axis patching, visible indices).
  - SnapshotStore: persists the last observed fingerprint of each chart.
  - DistributedLocker: serializes hooks for one chart across replicas.
*/
package ports
