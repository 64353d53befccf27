// Package cache implements a fixed-capacity, in-memory LRU cache of string
// keys and values.
//
// Goals for this package:
//   - Keep the core data structures explicit (map index + recency list)
//   - O(1) Get/Set with strict least-recently-used eviction
//   - Safe for concurrent use: one mutex serializes every operation
//   - No owned goroutines; background work (Report) runs on the caller's goroutine
//
// The recency list lives in an arena: entries are stored in one slice and
// link to each other by slot number rather than by pointer. The index maps
// a key to its slot. Evicted slots are recycled for the next insertion.
//
// A desynchronized index and list is a programming error. The cache panics
// with an *InvariantError instead of continuing with corrupted state.
package cache
