// Package notifier delivers best-effort order notifications. Delivery happens
// off the request path and never affects the order that triggered it.
package notifier

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrderCreated describes a committed order.
type OrderCreated struct {
	OrderID      string    `json:"order_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	CustomerMail string    `json:"customer_mail"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e OrderCreated) Message() string {
	return fmt.Sprintf("Order %s created", e.OrderID)
}

// Sink is one delivery channel (log, email, webhook, broker).
type Sink interface {
	Name() string
	Send(ctx context.Context, e OrderCreated) error
}

// Dispatcher fans events out to every sink from a background goroutine.
type Dispatcher struct {
	sinks   []Sink
	queue   chan OrderCreated
	timeout time.Duration
	log     *zap.Logger

	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(log *zap.Logger, queueSize int, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan OrderCreated, queueSize),
		timeout: timeout,
		log:     log.With(zap.String("component", "notifier")),
		done:    make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go d.loop()
		d.log.Info("notifier_started", zap.Int("sinks", len(d.sinks)))
	})
}

// Stop closes the queue and waits for queued events to drain or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.Start()
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.log.Info("notifier_stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify enqueues e without blocking. A full queue, or a stopped dispatcher,
// drops the event.
func (d *Dispatcher) Notify(_ context.Context, e OrderCreated) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("notification_dropped", zap.String("order_id", e.OrderID), zap.String("reason", "stopped"))
		return
	}
	select {
	case d.queue <- e:
	default:
		d.log.Warn("notification_dropped", zap.String("order_id", e.OrderID))
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for e := range d.queue {
		d.fanout(e)
	}
}

func (d *Dispatcher) fanout(e OrderCreated) {
	var wg sync.WaitGroup
	for _, sink := range d.sinks {
		wg.Add(1)
		go func(sink Sink) {
			defer wg.Done()
			logger := d.log.With(zap.String("sink", sink.Name()), zap.String("order_id", e.OrderID))
			defer func() {
				if r := recover(); r != nil {
					logger.Error("notification_panic",
						zap.Any("panic", r),
						zap.String("stack", string(debug.Stack())),
					)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := sink.Send(ctx, e); err != nil {
				logger.Warn("notification_failed", zap.Error(err))
				return
			}
			logger.Debug("notification_sent")
		}(sink)
	}
	wg.Wait()
}
