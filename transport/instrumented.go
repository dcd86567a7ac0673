package transport

import (
	"context"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// InstrumentedSender wraps a Sender and records per-call request metrics.
// A call that returns a result counts as sent whatever its status; a call
// that returns an error counts as failed.
type InstrumentedSender struct {
	inner     Sender
	collector *metrics.Collector
}

// NewInstrumentedSender wraps a sender with metrics instrumentation.
func NewInstrumentedSender(inner Sender, collector *metrics.Collector) *InstrumentedSender {
	return &InstrumentedSender{inner: inner, collector: collector}
}

// Send delegates to the inner sender and records the outcome.
func (s *InstrumentedSender) Send(ctx context.Context, req Request) (*types.UploadResult, error) {
	result, err := s.inner.Send(ctx, req)
	if err != nil {
		s.collector.IncRequestFailed()
	} else {
		s.collector.IncRequestSent()
	}
	return result, err
}

// Verify InstrumentedSender implements Sender.
var _ Sender = (*InstrumentedSender)(nil)
