package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/state"
)

type fakeService struct {
	recipeshare.Service

	mu        sync.Mutex
	all       []recipeshare.Recipe
	following []recipeshare.Recipe
	err       error
	calls     int
	fetched   chan struct{}
}

func newFakeService() *fakeService {
	return &fakeService{fetched: make(chan struct{}, 16)}
}

func (f *fakeService) FetchAllRecipes(ctx context.Context) ([]recipeshare.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	select {
	case f.fetched <- struct{}{}:
	default:
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f *fakeService) FetchFollowingRecipes(ctx context.Context, userID int) ([]recipeshare.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.following, nil
}

func (f *fakeService) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitFetch(t *testing.T, f *fakeService) {
	t.Helper()
	select {
	case <-f.fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch")
	}
}

func TestRefreshPublishesBothFeeds(t *testing.T) {
	svc := newFakeService()
	svc.all = []recipeshare.Recipe{{Name: "Cake"}, {Name: "Soup"}}
	svc.following = []recipeshare.Recipe{{Name: "Cake"}}
	store := &state.Store{}

	r := &Refresher{service: svc, store: store, interval: time.Minute}
	if err := r.refresh(context.Background(), 7); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := store.Snapshot()
	if !snap.HasData {
		t.Fatal("expected snapshot to have data")
	}
	if len(snap.All) != 2 || len(snap.Following) != 1 {
		t.Fatalf("got %d all, %d following", len(snap.All), len(snap.Following))
	}
}

func TestRefreshFailureKeepsPriorData(t *testing.T) {
	svc := newFakeService()
	svc.all = []recipeshare.Recipe{{Name: "Cake"}}
	store := &state.Store{}
	r := &Refresher{service: svc, store: store, interval: time.Minute}

	if err := r.refresh(context.Background(), 7); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	svc.setErr(errors.New("backend down"))
	if err := r.refresh(context.Background(), 7); err == nil {
		t.Fatal("expected refresh error")
	}

	snap := store.Snapshot()
	if len(snap.All) != 1 {
		t.Fatalf("prior data lost: got %d recipes", len(snap.All))
	}
	if snap.LastError == nil {
		t.Fatal("expected recorded error")
	}
}

func TestRefresherIdlesUntilSignIn(t *testing.T) {
	svc := newFakeService()
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := StartRefresher(ctx, svc, store, time.Hour)
	r.Kick()
	time.Sleep(50 * time.Millisecond)
	if n := svc.callCount(); n != 0 {
		t.Fatalf("fetched %d times with nobody signed in", n)
	}

	r.SetUser(7)
	waitFetch(t, svc)
}

func TestKickTriggersImmediateRefresh(t *testing.T) {
	svc := newFakeService()
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := StartRefresher(ctx, svc, store, time.Hour)
	r.SetUser(7)
	waitFetch(t, svc)

	r.Kick()
	waitFetch(t, svc)
}

func TestBackoffScheduleGrowsAndCaps(t *testing.T) {
	bo := newBackoff()

	prev := time.Duration(0)
	for i := 0; i < 20; i++ {
		d := bo.NextBackOff()
		if d < prev {
			t.Fatalf("delay shrank from %v to %v at step %d", prev, d, i)
		}
		if d > maxBackoffInterval {
			t.Fatalf("delay %v exceeds cap %v", d, maxBackoffInterval)
		}
		prev = d
	}
	if prev != maxBackoffInterval {
		t.Fatalf("schedule never reached cap: ended at %v", prev)
	}

	bo.Reset()
	if d := bo.NextBackOff(); d != initialBackoffInterval {
		t.Fatalf("reset schedule starts at %v, want %v", d, initialBackoffInterval)
	}
}
