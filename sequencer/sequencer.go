package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/logging"
)

//go:generate mockgen -package mocks -destination mocks/sink.go . EventSink

// EventSink receives the events of successful operations.
type EventSink interface {
	Publish(ctx context.Context, seq uint64, ev claims.Event) error
}

var ErrStopped = errors.New("sequencer is stopped")

var (
	operationsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poe",
		Subsystem: "sequencer",
		Name:      "operations_total",
		Help:      "Number of applied operations by operation and result",
	}, []string{"op", "result"})

	applyLatencyMetric = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "poe",
		Subsystem: "sequencer",
		Name:      "apply_latency_seconds",
		Help:      "Latency of applying a single operation including event publishing",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
	})

	publishFailuresMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "poe",
		Subsystem: "sequencer",
		Name:      "publish_failures_total",
		Help:      "Number of events the sink failed to accept",
	})

	sequenceMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "poe",
		Subsystem: "sequencer",
		Name:      "sequence",
		Help:      "Last assigned sequence number",
	})
)

// Receipt is the outcome of a successful call.
type Receipt struct {
	Seq   uint64
	Event claims.Event
}

type result struct {
	receipt Receipt
	err     error
}

type request struct {
	caller claims.Identity
	call   claims.Call
	// view is set for read-only requests.
	view func(claims.Registry) error
	done chan<- result
}

type Sequencer struct {
	reg  claims.Registry
	sink EventSink

	next     uint64
	requests chan request
	stopped  chan struct{}
}

type newSequencerOptions struct {
	startSeq  uint64
	queueSize int
}

type newSequencerOptionFunc func(*newSequencerOptions)

// WithStartSequence sets the sequence number assigned to the first call.
func WithStartSequence(seq uint64) newSequencerOptionFunc {
	return func(o *newSequencerOptions) {
		o.startSeq = seq
	}
}

func WithQueueSize(size int) newSequencerOptionFunc {
	return func(o *newSequencerOptions) {
		o.queueSize = size
	}
}

func New(reg claims.Registry, sink EventSink, opts ...newSequencerOptionFunc) *Sequencer {
	options := newSequencerOptions{
		startSeq:  1,
		queueSize: 128,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Sequencer{
		reg:      reg,
		sink:     sink,
		next:     options.startSeq,
		requests: make(chan request, options.queueSize),
		stopped:  make(chan struct{}),
	}
}

// Run applies queued calls until ctx is canceled.
// It must be called exactly once.
func (s *Sequencer) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("sequencer")
	ctx = logging.NewContext(ctx, logger)
	defer close(s.stopped)

	logger.Info("sequencer started", zap.Uint64("next_seq", s.next))
	for {
		select {
		case <-ctx.Done():
			logger.Info("sequencer stopped", zap.Uint64("next_seq", s.next))
			return nil
		case req := <-s.requests:
			if req.view != nil {
				req.done <- result{err: req.view(s.reg)}
				continue
			}
			receipt, err := s.apply(ctx, req.caller, req.call)
			req.done <- result{receipt, err}
		}
	}
}

func (s *Sequencer) apply(ctx context.Context, caller claims.Identity, call claims.Call) (Receipt, error) {
	seq := s.next
	s.next++
	sequenceMetric.Set(float64(seq))

	logger := logging.FromContext(ctx).With(
		zap.Stringer("call_id", uuid.New()),
		zap.Uint64("seq", seq),
		zap.Stringer("op", call.Op),
		zap.Stringer("fingerprint", call.Fingerprint),
	)

	start := time.Now()
	defer func() { applyLatencyMetric.Observe(time.Since(start).Seconds()) }()

	ev, err := claims.Apply(s.reg, claims.Origin{Caller: caller, Seq: seq}, call)
	operationsMetric.WithLabelValues(call.Op.String(), claims.CodeOf(err).String()).Inc()
	if err != nil {
		if claims.CodeOf(err) == claims.CodeInternal {
			logger.Error("failed to apply call", zap.Error(err))
		} else {
			logger.Debug("call rejected", zap.Error(err))
		}
		return Receipt{}, err
	}
	logger.Debug("call applied", zap.Object("event", ev))

	// The registry is already mutated, a sink failure can't undo it.
	if err := s.sink.Publish(ctx, seq, ev); err != nil {
		publishFailuresMetric.Inc()
		logger.Error("failed to publish event", zap.Object("event", ev), zap.Error(err))
	}
	return Receipt{Seq: seq, Event: ev}, nil
}

// Submit queues call on behalf of caller and waits until it is applied.
// caller must already be authenticated.
func (s *Sequencer) Submit(ctx context.Context, caller claims.Identity, call claims.Call) (Receipt, error) {
	res, err := s.do(ctx, request{caller: caller, call: call})
	if err != nil {
		return Receipt{}, err
	}
	return res.receipt, res.err
}

// View runs fn on the sequencer goroutine, between two calls.
// fn must not modify the registry.
func (s *Sequencer) View(ctx context.Context, fn func(reg claims.Registry) error) error {
	res, err := s.do(ctx, request{view: fn})
	if err != nil {
		return err
	}
	return res.err
}

// Lookup returns the record of fp and whether fp is claimed.
func (s *Sequencer) Lookup(ctx context.Context, fp claims.Fingerprint) (record claims.Record, ok bool, err error) {
	err = s.View(ctx, func(reg claims.Registry) error {
		record, ok, err = claims.Lookup(reg, fp)
		return err
	})
	return record, ok, err
}

func (s *Sequencer) do(ctx context.Context, req request) (result, error) {
	done := make(chan result, 1)
	req.done = done

	select {
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-s.stopped:
		return result{}, ErrStopped
	case s.requests <- req:
	}

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return result{}, fmt.Errorf("waiting for result: %w", ctx.Err())
	case <-s.stopped:
		select {
		case res := <-done:
			return res, nil
		default:
			return result{}, ErrStopped
		}
	}
}
