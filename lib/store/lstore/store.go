package lstore

import (
	"container/list"

	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/lib/store"
)

type storeImpl struct {
	records *list.List // of record.Record, front = newest
}

// NewLocalStore creates a new, empty local store.
// The store is not thread-safe, callers must serialize access.
func NewLocalStore() store.IStore {
	return &storeImpl{
		records: list.New(),
	}
}

// Factory is a store.Factory for local stores
func Factory() store.IStore {
	return NewLocalStore()
}

// find returns the list element of the newest record with the given last name.
func (s *storeImpl) find(key string) *list.Element {
	for e := s.records.Front(); e != nil; e = e.Next() {
		if e.Value.(record.Record).LastName == key {
			return e
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(r record.Record) {
	s.records.PushFront(r)
}

func (s *storeImpl) FindByLastName(key string) (record.Record, bool) {
	if e := s.find(key); e != nil {
		return e.Value.(record.Record), true
	}
	return record.Record{}, false
}

func (s *storeImpl) RemoveByLastName(key string) bool {
	e := s.find(key)
	if e == nil {
		return false
	}
	s.records.Remove(e)
	return true
}

func (s *storeImpl) Len() int {
	return s.records.Len()
}

func (s *storeImpl) Records() []record.Record {
	out := make([]record.Record, 0, s.records.Len())
	for e := s.records.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(record.Record))
	}
	return out
}

func (s *storeImpl) Clear() {
	s.records.Init()
}
