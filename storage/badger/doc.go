// Package badger implements storage.Store on BadgerDB.
//
// Primary records are keyed by prefixed IDs; secondary indexes use BigEndian
// composite keys so lexicographic iteration yields the desired order:
// chunks by (document, position), pending tasks by (inverted priority,
// creation time). All writes go through Badger transactions, whose conflict
// detection makes task claims atomic across concurrent workers.
package badger
