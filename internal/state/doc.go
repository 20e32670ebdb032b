// Package state provides the thread-safe recipe collection store shared by
// the background refresher and the UI.
//
// # Overview
//
// The Store is the single point where refresh results meet rendering. It
// holds two collections - the global feed and the followed-users feed -
// plus bookkeeping about the last refresh. The refresher is the only
// writer; the UI reads immutable snapshots on its own schedule.
//
// # Update semantics
//
// A successful Update replaces both collections wholesale; the backend
// owns all derived state, so there is nothing to merge. A failed Update
// keeps the previous collections, records the error, and bumps a
// consecutive-failure counter the UI uses for offline detection. The view
// degrades to stale-but-consistent, never to torn.
//
// # Defensive copying
//
// Update and Snapshot both clone the recipe slices, so neither side can
// mutate what the other is holding. Snapshots also wrap the stored error
// rather than sharing the instance. The copies are small (a feed of
// recipes, each a flat struct) and far simpler than finer-grained locking.
package state
