// Package queue runs reset notifications on a fixed pool of background
// workers so request handlers never wait on email delivery.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/maraseel/shipping-site/internal/api/metrics"
	"github.com/maraseel/shipping-site/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	defaultTimeout = 15 * time.Second
)

// Dispatcher routes notifications to a fixed set of workers by hashing the
// recipient, so mails to one address go out in request order.
type Dispatcher struct {
	workers  []chan ports.ResetNotification
	notifier ports.ResetNotifier
	sink     string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. sink labels the metrics.
func NewDispatcher(numWorkers int, notifier ports.ResetNotifier, sink string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.ResetNotification, numWorkers),
		notifier: notifier,
		sink:     sink,
		timeout:  defaultTimeout,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ResetNotification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands the job to its worker without blocking. It returns false and
// drops the job when that worker's buffer is full.
func (d *Dispatcher) Enqueue(job ports.ResetNotification) bool {
	idx := d.shardIndex(job.Email)
	select {
	case d.workers[idx] <- job:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.NotificationsTotal.WithLabelValues(d.sink, "dropped").Inc()
		d.log.Warn().Int("worker_id", idx).Msg("notification queue full, dropping reset email")
		return false
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ResetNotification) {
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, job)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, job ports.ResetNotification) {
	jobCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.notifier.SendPasswordReset(jobCtx, job.Email, job.Link)
	metrics.NotificationDuration.WithLabelValues(d.sink).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(d.sink, "failed").Inc()
		d.log.Error().Err(err).
			Int("worker_id", id).
			Str("sink", d.sink).
			Msg("password reset notification failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(d.sink, "sent").Inc()
}
