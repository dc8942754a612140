// Package pagekv implements the in-memory page-state core of an embedded
// ordered key-value store: a lock-free, log-structured B-link tree whose
// pages are chains of immutable deltas ("frags") materialized on demand,
// plus per-key MVCC value chains with two-phase (pending -> commit)
// transactional writes.
//
// The physical page cache, write-ahead log, and tree-level traversal and
// SMO coordination live outside this package; pagekv only defines the
// interfaces it consumes from them (PageCache, Guard) and the state
// machines (Node, Versions) that those collaborators materialize.
package pagekv
