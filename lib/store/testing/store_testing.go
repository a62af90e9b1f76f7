package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/lib/store"
)

// RunStoreTests runs the conformance test suite for a store.IStore implementation.
func RunStoreTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Empty", func(t *testing.T) {
			testEmpty(t, factory())
		})

		t.Run("Insert&Find", func(t *testing.T) {
			testInsertFind(t, factory())
		})

		t.Run("DuplicateLastName", func(t *testing.T) {
			testDuplicateLastName(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("RemoveAtMostOne", func(t *testing.T) {
			testRemoveAtMostOne(t, factory())
		})

		t.Run("ExactMatch", func(t *testing.T) {
			testExactMatch(t, factory())
		})

		t.Run("Records", func(t *testing.T) {
			testRecords(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// person creates a valid record with the given first and last name
func person(first, last string) record.Record {
	return record.Record{
		FirstName:   first,
		LastName:    last,
		Age:         "42",
		PhoneNumber: "555-0000",
		Email:       first + "@example.com",
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testEmpty(t *testing.T, s store.IStore) {
	if s.Len() != 0 {
		t.Errorf("New store should be empty, but has %d records", s.Len())
	}

	if _, found := s.FindByLastName("Doe"); found {
		t.Error("FindByLastName on an empty store should not find anything")
	}

	if s.RemoveByLastName("Doe") {
		t.Error("RemoveByLastName on an empty store should return false")
	}

	if len(s.Records()) != 0 {
		t.Errorf("Records() on an empty store should be empty, got %d", len(s.Records()))
	}
}

func testInsertFind(t *testing.T, s store.IStore) {
	jane := person("Jane", "Doe")
	s.Insert(jane)

	if s.Len() != 1 {
		t.Fatalf("Expected 1 record, got %d", s.Len())
	}

	got, found := s.FindByLastName("Doe")
	if !found {
		t.Fatal("Expected to find record with last name Doe")
	}
	if got != jane {
		t.Errorf("Expected %+v, got %+v", jane, got)
	}

	if _, found := s.FindByLastName("Smith"); found {
		t.Error("Did not expect to find record with last name Smith")
	}
}

func testDuplicateLastName(t *testing.T, s store.IStore) {
	older := person("Jane", "Doe")
	newer := person("John", "Doe")

	s.Insert(older)
	s.Insert(newer)

	if s.Len() != 2 {
		t.Fatalf("Duplicate last names must be kept, expected 2 records, got %d", s.Len())
	}

	got, found := s.FindByLastName("Doe")
	if !found {
		t.Fatal("Expected to find record with last name Doe")
	}
	if got != newer {
		t.Errorf("Expected the most recently inserted record %+v, got %+v", newer, got)
	}
}

func testRemove(t *testing.T, s store.IStore) {
	s.Insert(person("Jane", "Doe"))
	s.Insert(person("Bob", "Smith"))

	if !s.RemoveByLastName("Doe") {
		t.Fatal("Expected RemoveByLastName to remove Doe")
	}

	if _, found := s.FindByLastName("Doe"); found {
		t.Error("Doe should be gone after removal")
	}
	if _, found := s.FindByLastName("Smith"); !found {
		t.Error("Smith should still be present")
	}

	if s.RemoveByLastName("Doe") {
		t.Error("Removing a missing record should return false")
	}

	if s.Len() != 1 {
		t.Errorf("Expected 1 record after removal, got %d", s.Len())
	}
}

func testRemoveAtMostOne(t *testing.T, s store.IStore) {
	older := person("Jane", "Doe")
	newer := person("John", "Doe")
	s.Insert(older)
	s.Insert(newer)

	if !s.RemoveByLastName("Doe") {
		t.Fatal("Expected RemoveByLastName to remove a record")
	}

	if s.Len() != 1 {
		t.Fatalf("Exactly one record should remain, got %d", s.Len())
	}

	got, found := s.FindByLastName("Doe")
	if !found {
		t.Fatal("One Doe should still be findable")
	}
	if got != older {
		t.Errorf("The newest Doe should have been removed, remaining: %+v", got)
	}
}

func testExactMatch(t *testing.T, s store.IStore) {
	s.Insert(person("Jane", "Doe"))

	for _, key := range []string{"doe", "DOE", "Do", "Doe ", " Doe", "Does", ""} {
		if _, found := s.FindByLastName(key); found {
			t.Errorf("Key %q must not match last name Doe", key)
		}
		if s.RemoveByLastName(key) {
			t.Errorf("Key %q must not remove last name Doe", key)
		}
	}

	if s.Len() != 1 {
		t.Errorf("Store should be unchanged, got %d records", s.Len())
	}
}

func testRecords(t *testing.T, s store.IStore) {
	a := person("A", "One")
	b := person("B", "Two")
	c := person("C", "Three")
	s.Insert(a)
	s.Insert(b)
	s.Insert(c)

	got := s.Records()
	want := []record.Record{c, b, a}
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Records()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Modifying the snapshot must not change the store
	got[0].LastName = "Changed"
	if _, found := s.FindByLastName("Three"); !found {
		t.Error("Store was modified through the Records() snapshot")
	}
}

func testClear(t *testing.T, s store.IStore) {
	for i := 0; i < 10; i++ {
		s.Insert(person(fmt.Sprintf("P%d", i), "Doe"))
	}

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Store should be empty after Clear, got %d", s.Len())
	}
	if _, found := s.FindByLastName("Doe"); found {
		t.Error("No record should be found after Clear")
	}

	// the store must be usable after Clear
	s.Insert(person("Jane", "Doe"))
	if s.Len() != 1 {
		t.Errorf("Expected 1 record after re-insert, got %d", s.Len())
	}
}

func testRealisticUsage(t *testing.T, s store.IStore) {
	const n = 200

	for i := 0; i < n; i++ {
		s.Insert(person(fmt.Sprintf("First%d", i), fmt.Sprintf("Last%d", i%50)))
	}

	if s.Len() != n {
		t.Fatalf("Expected %d records, got %d", n, s.Len())
	}

	// Every last name has 4 records, the newest is inserted at i = 150 + k
	for k := 0; k < 50; k++ {
		got, found := s.FindByLastName(fmt.Sprintf("Last%d", k))
		if !found {
			t.Fatalf("Last%d not found", k)
		}
		if want := fmt.Sprintf("First%d", 150+k); got.FirstName != want {
			t.Errorf("Last%d: expected newest %s, got %s", k, want, got.FirstName)
		}
	}

	// Remove all records one by one
	removed := 0
	for k := 0; k < 50; k++ {
		for s.RemoveByLastName(fmt.Sprintf("Last%d", k)) {
			removed++
		}
	}

	if removed != n {
		t.Errorf("Expected to remove %d records, removed %d", n, removed)
	}
	if s.Len() != 0 {
		t.Errorf("Store should be empty, got %d", s.Len())
	}
}
