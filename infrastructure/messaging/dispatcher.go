// Package messaging implements the in-process event fan-out and the
// optional EventBridge relay.
package messaging

import (
	"context"
	"sync"
	"time"

	"eventbase/application/ports"
	"eventbase/domain/events"

	"go.uber.org/zap"
)

const (
	queueDepth      = 256
	deliveryTimeout = 30 * time.Second
)

type envelope struct {
	aggregateID string
	record      events.Record
}

// Dispatcher fans appended records out to registered subscribers. Delivery
// runs on a worker goroutine behind a buffered channel, so Dispatch never
// blocks the append path: when the queue is full the envelope is delivered
// from its own goroutine instead. That also keeps re-entrant appends from
// subscribers safe.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[events.EventName][]ports.Subscriber
	catchAll    []ports.Subscriber

	queue  chan envelope
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher and starts its delivery worker
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		subscribers: make(map[events.EventName][]ports.Subscriber),
		queue:       make(chan envelope, queueDepth),
		done:        make(chan struct{}),
		logger:      logger,
	}
	d.wg.Add(1)
	go d.drain()
	return d
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// Subscribe registers interest in one event kind. Registration is expected
// at startup, before traffic.
func (d *Dispatcher) Subscribe(name events.EventName, subscriber ports.Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[name] = append(d.subscribers[name], subscriber)
}

// SubscribeAll registers interest in every event kind
func (d *Dispatcher) SubscribeAll(subscriber ports.Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.catchAll = append(d.catchAll, subscriber)
}

// Dispatch enqueues a record for delivery and returns immediately
func (d *Dispatcher) Dispatch(aggregateID string, record events.Record) {
	env := envelope{aggregateID: aggregateID, record: record}
	select {
	case <-d.done:
		d.logger.Warn("Dispatch after close, dropping record",
			zap.String("aggregateId", aggregateID),
			zap.String("eventName", record.Name.String()),
		)
	case d.queue <- env:
	default:
		// Queue is full. Deliver out of band rather than block the
		// appender; ordering across aggregates is not guaranteed anyway.
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(env)
		}()
	}
}

// Close stops the worker after the queued envelopes drain. In-flight
// deliveries finish; later Dispatch calls are dropped.
func (d *Dispatcher) Close() {
	d.closed.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}

func (d *Dispatcher) drain() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			for {
				select {
				case env := <-d.queue:
					d.deliver(env)
				default:
					return
				}
			}
		case env := <-d.queue:
			d.deliver(env)
		}
	}
}

func (d *Dispatcher) deliver(env envelope) {
	d.mu.RLock()
	targets := make([]ports.Subscriber, 0, len(d.subscribers[env.record.Name])+len(d.catchAll))
	targets = append(targets, d.subscribers[env.record.Name]...)
	targets = append(targets, d.catchAll...)
	d.mu.RUnlock()

	for _, subscriber := range targets {
		d.invoke(subscriber, env)
	}
}

// invoke isolates one subscriber call: errors are logged, panics are
// recovered, and neither stops delivery to the remaining subscribers.
func (d *Dispatcher) invoke(subscriber ports.Subscriber, env envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Subscriber panicked",
				zap.String("aggregateId", env.aggregateID),
				zap.String("eventName", env.record.Name.String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := subscriber(ctx, env.aggregateID, env.record); err != nil {
		d.logger.Error("Subscriber failed",
			zap.String("aggregateId", env.aggregateID),
			zap.String("eventName", env.record.Name.String()),
			zap.Error(err),
		)
	}
}
