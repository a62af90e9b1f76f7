// Package lstore implements a local, in-memory phone book store based on the
// store.IStore interface. Data is stored entirely in memory and is not
// persisted between process restarts.
//
// Implementation Details:
//
//   - Records are kept in a doubly linked list (container/list). Insert
//     pushes to the front in O(1); lookups and removals scan from the front
//     in O(n), so the newest match always wins.
//
//   - Records are stored by value. The store is the only owner of its
//     records; FindByLastName and Records hand out copies.
//
//   - Clear drops every record at once (used when a device is closed).
//
// Thread Safety:
//
//	The local store is NOT thread-safe. It is meant to be used behind the
//	device package, which serializes all store operations with a mutex. Any
//	other caller that shares a store between goroutines must add its own
//	locking.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	s.Insert(record.Record{FirstName: "Jane", LastName: "Doe", Age: "30",
//	    PhoneNumber: "555-1234", Email: "jane@x.io"})
//
//	if r, ok := s.FindByLastName("Doe"); ok {
//	    fmt.Print(r)
//	}
//
//	s.RemoveByLastName("Doe")
package lstore
