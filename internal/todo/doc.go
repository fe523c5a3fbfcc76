// Package todo holds the in-memory todo collection and its access contract.
//
// Store serializes all access through a single exclusive lock: each of
// List/Get/Create/Update/Delete takes the lock for its whole body, so
// operations are atomic relative to each other (linearized by lock
// acquisition order). Nothing in the store touches the network or disk, so
// worst-case lock hold time is one linear scan of the collection.
//
// The only error kind is NotFoundError, returned when Get, Update or Delete
// names an id with no live item.
package todo
