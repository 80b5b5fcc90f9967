package tracking

import (
	"context"
	"sync"

	"backend-travique/internal/trip"
)

// Gateway is the slice of the persistence layer a session needs.
type Gateway interface {
	Commit(ctx context.Context, t trip.Trip) (trip.Trip, error)
	PersistPartial(ctx context.Context, ownerID, tripID string, tracking *trip.TrackingData, distance float64)
}

type flushJob struct {
	ownerID  string
	tripID   string
	tracking *trip.TrackingData
	distance float64
}

// flusher serializes partial persists on a single worker. The count and
// time based triggers both enqueue here; jobs for the same trip coalesce
// so racing triggers collapse into one last-write-wins persist, and the
// ingestion path never waits on storage.
type flusher struct {
	gateway Gateway

	mu      sync.Mutex
	pending map[string]flushJob
	kick    chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

func newFlusher(gateway Gateway) *flusher {
	f := &flusher{
		gateway: gateway,
		pending: map[string]flushJob{},
		kick:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *flusher) enqueue(job flushJob) {
	f.mu.Lock()
	f.pending[job.tripID] = job
	f.mu.Unlock()

	select {
	case f.kick <- struct{}{}:
	default:
	}
}

func (f *flusher) run() {
	defer close(f.done)
	for {
		select {
		case <-f.kick:
			f.drain()
		case <-f.quit:
			f.drain()
			return
		}
	}
}

func (f *flusher) drain() {
	for {
		f.mu.Lock()
		var job flushJob
		found := false
		for id, j := range f.pending {
			job = j
			found = true
			delete(f.pending, id)
			break
		}
		f.mu.Unlock()
		if !found {
			return
		}
		f.gateway.PersistPartial(context.Background(), job.ownerID, job.tripID, job.tracking, job.distance)
	}
}

// close flushes whatever is still queued and stops the worker.
func (f *flusher) close() {
	close(f.quit)
	<-f.done
}
