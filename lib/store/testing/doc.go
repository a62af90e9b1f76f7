// Package testing provides a conformance test suite for store.IStore
// implementations.
//
// Usage:
//
//	func Test(t *testing.T) {
//	    storetesting.RunStoreTests(t, "LocalStore", lstore.Factory)
//	}
//
// The suite covers the newest-first lookup order, duplicate last names,
// at-most-one removal, byte-exact key matching and Clear.
package testing
