// Package store owns the authoritative task collection.
//
// A Store keeps the in-memory tasks, the identifier counter, and the
// persisted snapshot in step: every mutation re-encodes the whole
// collection and writes it to the storage adapter before returning. When
// the write fails the in-memory change is rolled back, so a caller never
// observes a task that is not also in storage.
//
// # Identifiers
//
// Identifiers come from a counter that only moves forward during a
// session. On Initialize the counter is recomputed as the highest stored
// id plus one, which lets an id be handed out again if the task holding
// the highest id was deleted before the reload. WithTrackedNextID closes
// that gap by also persisting the counter under "<key>.next_id".
//
// # Events
//
// Subscribers registered with Subscribe receive an Event after each
// successful Initialize, Create, Edit, SetStatus, and Delete. They are
// called after the store lock is released, so they may read from the
// store, and they cannot fail the operation.
package store
