package tracking

import (
	"context"
	"time"
)

// Location source error codes, mirroring the platform geolocation API.
const (
	ErrCodePermissionDenied    = "permission-denied"
	ErrCodePositionUnavailable = "position-unavailable"
	ErrCodeTimeout             = "timeout"
)

type SourceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e SourceError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

type SubscribeOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxSampleAge time.Duration
}

// Subscription is a cancellable stream of location samples and source
// errors. Both channels are closed on Cancel.
type Subscription struct {
	Samples <-chan Sample
	Errors  <-chan SourceError
	cancel  func()
}

func (s *Subscription) Cancel() {
	if s != nil && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Source is the continuous location provider consumed by a session.
type Source interface {
	Subscribe(opts SubscribeOptions) (*Subscription, error)
	// Current returns a single-shot reading, when one is available.
	Current(ctx context.Context, opts SubscribeOptions) (Sample, error)
}
