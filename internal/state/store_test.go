package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	all := []recipeshare.Recipe{{ID: 1, Name: "Cake"}, {ID: 2, Name: "Soup"}}
	following := []recipeshare.Recipe{{ID: 2, Name: "Soup"}}

	before := time.Now()
	s.Update(all, following, nil)

	snap := s.Snapshot()
	if !snap.HasData {
		t.Fatal("HasData = false after successful update")
	}
	if len(snap.All) != 2 || snap.All[0].ID != 1 {
		t.Fatalf("snapshot all = %#v, want 2 recipes", snap.All)
	}
	if len(snap.Following) != 1 || snap.Following[0].ID != 2 {
		t.Fatalf("snapshot following = %#v, want recipe 2", snap.Following)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.All[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.All[0].ID != 1 {
		t.Fatalf("Snapshot should clone collections; got id %d want 1", snap2.All[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]recipeshare.Recipe{{ID: 1}}, nil, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if len(snap.All) != 1 || snap.All[0].ID != prev.All[0].ID {
		t.Fatalf("collections changed on error: got %#v want %#v", snap.All, prev.All)
	}
	if !snap.HasData {
		t.Fatal("HasData cleared on error, want prior data kept")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatal("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store: failures=%d offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil, errors.New("fail 1"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v, want 1/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil, errors.New("fail 2"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v, want 2/true", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update([]recipeshare.Recipe{{ID: 1}}, nil, nil)
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.Update([]recipeshare.Recipe{{ID: 1, Name: "Cake"}}, []recipeshare.Recipe{{ID: 1, Name: "Cake"}}, nil)

	s.Reset()

	snap := s.Snapshot()
	if snap.HasData {
		t.Error("HasData still set after Reset")
	}
	if len(snap.All) != 0 || len(snap.Following) != 0 {
		t.Errorf("collections survived Reset: %d all, %d following", len(snap.All), len(snap.Following))
	}
	if !snap.LastUpdated.IsZero() {
		t.Error("LastUpdated survived Reset")
	}
}
