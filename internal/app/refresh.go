package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/state"
)

const (
	defaultRefreshInterval = 45 * time.Second
	initialBackoffInterval = 5 * time.Second
	maxBackoffInterval     = 30 * time.Second
)

// Refresher periodically fetches both recipe feeds for the signed-in user
// and publishes them to the state store. While nobody is signed in it idles.
// Failed fetches back off exponentially; a success resets the schedule.
type Refresher struct {
	service  recipeshare.Service
	store    *state.Store
	interval time.Duration
	wake     chan struct{}

	mu     sync.Mutex
	userID int
}

// StartRefresher launches the background refresh loop. It stops when ctx is
// cancelled.
func StartRefresher(ctx context.Context, service recipeshare.Service, store *state.Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	r := &Refresher{
		service:  service,
		store:    store,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
	go r.loop(ctx)
	return r
}

// SetUser switches the refresher to fetch feeds for the given user and
// triggers an immediate refresh. A zero id idles the refresher.
func (r *Refresher) SetUser(id int) {
	r.mu.Lock()
	r.userID = id
	r.mu.Unlock()
	r.Kick()
}

// Kick requests a refresh ahead of schedule. Mutating operations call this
// so their effect shows up without waiting out the poll interval.
func (r *Refresher) Kick() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Refresher) currentUser() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

func (r *Refresher) loop(ctx context.Context) {
	bo := newBackoff()
	for {
		delay := r.interval
		if id := r.currentUser(); id != 0 {
			if err := r.refresh(ctx, id); err != nil {
				delay = bo.NextBackOff()
			} else {
				bo.Reset()
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		case <-r.wake:
			bo.Reset()
		}
	}
}

// refresh fetches both feeds wholesale. A failure on either feed leaves the
// store's previous data intact and records the error.
func (r *Refresher) refresh(ctx context.Context, userID int) error {
	all, err := r.service.FetchAllRecipes(ctx)
	if err != nil {
		r.store.Update(nil, nil, err)
		log.Printf("recipe feed poll failed: %v", err)
		return err
	}
	following, err := r.service.FetchFollowingRecipes(ctx, userID)
	if err != nil {
		r.store.Update(nil, nil, err)
		log.Printf("following feed poll failed: %v", err)
		return err
	}
	r.store.Update(all, following, nil)
	return nil
}

// newBackoff builds the failure schedule: start short, grow by half each
// failure, cap at maxBackoffInterval. Randomization is disabled so the
// cadence is predictable.
func newBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoffInterval
	bo.MaxInterval = maxBackoffInterval
	bo.Multiplier = 1.5
	bo.RandomizationFactor = 0
	bo.Reset()
	return bo
}
