package tracking

import (
	"context"
	"errors"
	"sync"
)

var errNoFix = errors.New("no location fix available")

// FeedSource is a Source fed by the transport layer: the device posts
// its geolocation readings and reported GPS errors over HTTP and they
// are relayed to whichever subscription is active.
type FeedSource struct {
	mu      sync.Mutex
	samples chan Sample
	errs    chan SourceError
	last    *Sample
	hasSub  bool
}

func NewFeedSource() *FeedSource {
	return &FeedSource{}
}

func (f *FeedSource) Subscribe(_ SubscribeOptions) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	samples := make(chan Sample, 64)
	errs := make(chan SourceError, 8)
	f.samples = samples
	f.errs = errs
	f.hasSub = true

	return &Subscription{
		Samples: samples,
		Errors:  errs,
		cancel: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.samples == samples {
				f.samples = nil
				f.errs = nil
				f.hasSub = false
			}
			close(samples)
			close(errs)
		},
	}, nil
}

func (f *FeedSource) Current(_ context.Context, _ SubscribeOptions) (Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Sample{}, errNoFix
	}
	return *f.last, nil
}

// Push delivers a device reading to the active subscription. Readings
// are dropped when nobody is subscribed or the subscriber is slow.
func (f *FeedSource) Push(s Sample) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := s
	f.last = &copied

	if f.samples == nil {
		return false
	}
	select {
	case f.samples <- s:
		return true
	default:
		return false
	}
}

// Fail relays a device-reported GPS error to the active subscription.
func (f *FeedSource) Fail(e SourceError) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errs == nil {
		return false
	}
	select {
	case f.errs <- e:
		return true
	default:
		return false
	}
}

// Subscribed reports whether a session is currently listening.
func (f *FeedSource) Subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasSub
}
