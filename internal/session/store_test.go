package session

import (
	"sync"
	"testing"
	"time"

	"github.com/epeers/transferdesk/internal/models"
)

func rec(instrumentID int64, ticker string) models.PortfolioRecord {
	return models.PortfolioRecord{InstrumentID: instrumentID, Ticker: ticker}
}

func TestState_PutGetOverwrite(t *testing.T) {
	s := newState()
	s.Put(rec(42, "AAPL"))
	s.Put(rec(7, "MSFT"))
	s.Put(rec(42, "AAPL2"))

	got, ok := s.Get(42)
	if !ok {
		t.Fatal("record 42 missing")
	}
	if got.Ticker != "AAPL2" {
		t.Errorf("expected last write to win, got %q", got.Ticker)
	}
	if len(s.All()) != 2 {
		t.Errorf("expected 2 records, got %d", len(s.All()))
	}
}

func TestState_AllSortedByInstrumentID(t *testing.T) {
	s := newState()
	s.Put(rec(42, "AAPL"))
	s.Put(rec(7, "MSFT"))
	s.Put(rec(13, "SOL"))

	all := s.All()
	want := []int64{7, 13, 42}
	for i, id := range want {
		if all[i].InstrumentID != id {
			t.Fatalf("position %d: expected instrument %d, got %d", i, id, all[i].InstrumentID)
		}
	}
}

func TestState_ClearKeepsPendingBatches(t *testing.T) {
	s := newState()
	s.Put(rec(42, "AAPL"))
	s.AddBatch(&models.ImportBatch{ID: "b1"})

	s.Clear()
	if len(s.All()) != 0 {
		t.Error("Clear should drop all records")
	}
	if _, ok := s.Batch("b1"); !ok {
		t.Error("Clear must not touch pending batches")
	}
}

func TestState_TakeBatchConsumes(t *testing.T) {
	s := newState()
	s.AddBatch(&models.ImportBatch{ID: "b1"})

	b, ok := s.TakeBatch("b1")
	if !ok || b.ID != "b1" {
		t.Fatalf("expected batch b1, got %v %v", b, ok)
	}
	if _, ok := s.TakeBatch("b1"); ok {
		t.Error("batch should be gone after TakeBatch")
	}
	if _, ok := s.TakeBatch("nope"); ok {
		t.Error("unknown batch ID should miss")
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	store := NewStore(time.Minute)
	a := store.Session("alice")
	b := store.Session("bob")

	a.Put(rec(42, "AAPL"))
	if len(b.All()) != 0 {
		t.Error("sessions must not share records")
	}
	if store.Session("alice") != a {
		t.Error("expected the same state on repeat access")
	}
}

func TestStore_SessionExpiry(t *testing.T) {
	store := NewStore(20 * time.Millisecond)
	a := store.Session("alice")
	a.Put(rec(42, "AAPL"))

	time.Sleep(40 * time.Millisecond)
	if len(store.Session("alice").All()) != 0 {
		t.Error("expected a fresh state after TTL expiry")
	}
}

func TestState_ConcurrentPuts(t *testing.T) {
	s := newState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(rec(id, "T"))
			s.Get(id)
			s.All()
		}(int64(i + 1))
	}
	wg.Wait()
	if len(s.All()) != 50 {
		t.Errorf("expected 50 records, got %d", len(s.All()))
	}
}
