// Package bamboo implements the wire format, publish and verify
// operations of a Bamboo append-only log entry: a cryptographically
// secure, single-writer, per-author, per-log sequence of entries that
// supports transitive partial replication via a dual-link (backlink
// plus lipmaa skip-link) structure.
//
// The package is a pure byte-processing library. It exposes no
// long-lived objects, performs no I/O, and holds no state across
// calls: Publish assembles and signs the next entry in a feed given
// the caller-supplied previous entry bytes, Decode parses an encoded
// entry, and Verify checks an entry's signature and link hashes
// against caller-supplied context. Persistent entry storage, a
// high-level log object that drives Publish from a store, and
// replication/transport are all out of scope here; see EntryStore for
// the minimal collaborator interface a higher-level adapter would
// implement against these primitives.
package bamboo
