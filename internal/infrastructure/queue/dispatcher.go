package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/debt-ledger/internal/core/ports"
	"github.com/ledgerbook/debt-ledger/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Handler receives one session change.
type Handler func(ports.SessionChange)

// Dispatcher routes session changes to a fixed set of workers using
// consistent hashing on the subject, so changes for one account are
// delivered in order.
type Dispatcher struct {
	workers []chan ports.SessionChange
	handle  Handler
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handle Handler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SessionChange, numWorkers),
		handle:  handle,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SessionChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish sends a change to the worker responsible for its subject.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Publish(change ports.SessionChange) {
	idx := d.shardIndex(change.Subject)
	metrics.SessionQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	d.workers[idx] <- change
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SessionChange) {
	defer d.wg.Done()
	depth := metrics.SessionQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(id, change)
		}
	}
}

// deliver runs the handler, keeping a panicking observer from killing the worker.
func (d *Dispatcher) deliver(id int, change ports.SessionChange) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("event", string(change.Event)).
				Str("subject", change.Subject).
				Int("worker_id", id).
				Msg("session observer panicked")
		}
	}()
	d.handle(change)
}
