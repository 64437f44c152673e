// Package state provides the in-memory mirror of the server's queue.
//
// # Overview
//
// The Store is the single source of client-visible truth: a mapping from
// item id to item record, plus the aggregate stats the server pushes
// alongside item updates. Two producers write into it: the mirror engine
// folding mutation responses, and the push channel delivering server
// events. The UI reads snapshots on its own schedule.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Upsert/Remove/ReplaceAll/Clear/SetStats acquire the write lock
//   - Items/Get/Stats/IDs/Len acquire the read lock
//
// Every write runs to completion under the lock, so readers always observe
// a complete, self-consistent record; there are no partial updates.
//
// # Update Semantics
//
// Upsert is last-writer-wins for a whole record: inserting a record whose
// id already exists replaces it outright, never merges fields. Keys are
// unique by construction (one map slot per id). Stats are stored as pushed
// by the server and are not derived from the item mapping; the two can
// disagree briefly between pushes, which is accepted.
//
// # What Does Not Live Here
//
// Suppression of dismissed items and the at-most-once auto-save guard are
// policy, not storage, and live in the mirror package. The Store itself will
// happily apply any record handed to it.
package state
