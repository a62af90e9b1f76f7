package store

import (
	"github.com/ValentinKolb/dPB/lib/record"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new, empty store.
// This is used to abstract the creation of the store from its users (e.g. the device).
type Factory func() IStore

// IStore is the interface for a phone book record collection.
// Records are kept newest first; this order is the tie-break for lookups, since
// last names are not unique.
type IStore interface {
	// Insert adds a record at the head of the collection. It always succeeds.
	Insert(r record.Record)
	// FindByLastName returns the newest record whose last name equals key (byte-exact).
	// The boolean return value indicates whether a record was found.
	FindByLastName(key string) (r record.Record, found bool)
	// RemoveByLastName removes the newest record whose last name equals key.
	// At most one record is removed per call. Returns whether a record was removed.
	RemoveByLastName(key string) (removed bool)
	// Len returns the number of records in the store.
	Len() int
	// Records returns a snapshot of all records, newest first.
	Records() []record.Record
	// Clear releases all records. The store can be used again afterward.
	Clear()
}
