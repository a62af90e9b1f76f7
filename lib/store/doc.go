// Package store defines the interface of the phone book record collection.
//
// The package focuses on:
//   - A unified interface (IStore) for insert, find-by-last-name and
//     remove-by-last-name
//   - A Factory function type so devices and tests can create stores without
//     depending on a concrete implementation
//
// Ordering:
//
//	A store iterates its records newest first. Last names are not unique, so
//	FindByLastName and RemoveByLastName always act on the most recently
//	inserted match. RemoveByLastName removes at most one record per call.
//
// Implementations:
//
//	- Local Store (lstore): an in-memory doubly linked list with O(1) insert and
//	  linear lookups. Available in "github.com/ValentinKolb/dPB/lib/store/lstore".
//
// Conformance tests for any implementation are in the testing subpackage
// (RunStoreTests).
package store
