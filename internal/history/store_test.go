package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hyperjump/integrity/internal/models"
)

func rec(id string) *models.AnalysisRecord {
	return &models.AnalysisRecord{ID: id, Filename: id + ".txt", Status: models.StatusCompleted}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	s := NewStore(0)
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("Capacity() = %d", s.Capacity())
	}
	var evicted []*models.AnalysisRecord
	for i := 1; i <= 51; i++ {
		evicted = append(evicted, s.Add(rec(fmt.Sprintf("r%d", i)))...)
	}
	if s.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", s.Len())
	}
	list := s.List()
	for i, r := range list {
		want := fmt.Sprintf("r%d", 51-i)
		if r.ID != want {
			t.Fatalf("list[%d] = %s, want %s", i, r.ID, want)
		}
	}
	if len(evicted) != 1 || evicted[0].ID != "r1" {
		t.Errorf("evicted = %v", evicted)
	}
}

func TestStore_AddDoesNotDeduplicate(t *testing.T) {
	s := NewStore(5)
	r := rec("same")
	s.Add(r)
	s.Add(r)
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ClearKeepsCurrent(t *testing.T) {
	s := NewStore(5)
	cur := rec("cur")
	s.SetCurrent(cur)
	s.Add(rec("a"))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
	if s.Current() != cur {
		t.Error("Clear must not affect current")
	}
	if got, ok := s.GetByID("cur"); !ok || got != cur {
		t.Error("current should still resolve by id")
	}
}

func TestStore_GetByID(t *testing.T) {
	s := NewStore(5)
	if _, ok := s.GetByID("nope"); ok {
		t.Error("empty store should miss")
	}

	older := rec("dup")
	older.Filename = "older"
	newer := rec("dup")
	newer.Filename = "newer"
	s.Add(older)
	s.Add(newer)
	got, ok := s.GetByID("dup")
	if !ok || got.Filename != "newer" {
		t.Errorf("GetByID(dup) = %+v, want newest entry", got)
	}

	// Current wins over history, even when not archived.
	cur := rec("dup")
	cur.Filename = "current"
	s.SetCurrent(cur)
	got, _ = s.GetByID("dup")
	if got.Filename != "current" {
		t.Errorf("GetByID(dup) = %s, want current", got.Filename)
	}

	unarchived := rec("fresh")
	s.SetCurrent(unarchived)
	if got, ok := s.GetByID("fresh"); !ok || got != unarchived {
		t.Error("current record must be retrievable before archiving")
	}
	s.SetCurrent(nil)
	if _, ok := s.GetByID("fresh"); ok {
		t.Error("cleared current should no longer resolve")
	}
}

func TestStore_ListIsCopy(t *testing.T) {
	s := NewStore(5)
	s.Add(rec("a"))
	list := s.List()
	list[0] = rec("mutated")
	if s.List()[0].ID != "a" {
		t.Error("List must return a copy")
	}
}

func TestStore_ConcurrentAdd(t *testing.T) {
	s := NewStore(10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(rec(fmt.Sprintf("r%d", i)))
			_ = s.List()
		}(i)
	}
	wg.Wait()
	if s.Len() != 10 {
		t.Errorf("Len() = %d, want 10", s.Len())
	}
}
