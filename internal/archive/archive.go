package archive

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/toast"
)

// PutObjectAPI is the subset of the S3 client the archiver needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Record is one archived notification, written as a JSON line.
type Record struct {
	Handle    string    `json:"handle"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	RemovedAt time.Time `json:"removedAt"`
}

// Config configures an Archiver.
type Config struct {
	// Bucket is the destination bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// BatchSize flushes as soon as this many records are pending.
	// Default: 100.
	BatchSize int

	// FlushInterval flushes pending records periodically.
	// Default: 1 minute.
	FlushInterval time.Duration

	// QueueSize bounds records waiting for the flusher. Records arriving
	// while the queue is full are dropped.
	// Default: 1024.
	QueueSize int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Minute
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	return c
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithLogger sets the archiver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) {
		a.logger = logger
	}
}

// WithNow overrides the clock used for object keys.
func WithNow(now func() time.Time) Option {
	return func(a *Archiver) {
		a.now = now
	}
}

// Archiver is a toast.Observer that batches removed notifications into
// JSON-lines objects under prefix/YYYY/MM/DD/<unix-nanos>.jsonl.
//
// OnEvent never blocks the center.
type Archiver struct {
	client PutObjectAPI
	config Config
	logger *slog.Logger
	now    func() time.Time

	queue     chan Record
	stop      chan context.Context
	finished  chan error
	closeOnce sync.Once
	closeErr  error

	// mu orders enqueues against Close so the final drain sees them all.
	mu     sync.Mutex
	closed bool

	dropped  atomic.Uint64
	uploaded atomic.Uint64
	failed   atomic.Uint64
}

// New validates config and starts the flusher. Call Close to flush and stop.
func New(client PutObjectAPI, config Config, opts ...Option) (*Archiver, error) {
	if client == nil || config.Bucket == "" {
		return nil, errors.New("T061").
			WithDetail("archive needs an S3 client and a bucket")
	}
	a := &Archiver{
		client:   client,
		config:   config.withDefaults(),
		logger:   slog.Default(),
		now:      time.Now,
		stop:     make(chan context.Context, 1),
		finished: make(chan error, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "archive")
	a.queue = make(chan Record, a.config.QueueSize)

	go a.run()
	return a, nil
}

// OnEvent implements toast.Observer.
func (a *Archiver) OnEvent(e toast.Event) {
	if e.Type != toast.EventRemoved {
		return
	}
	rec := Record{
		Handle:    string(e.Notification.Handle),
		Kind:      string(e.Notification.Kind),
		Title:     e.Notification.Title,
		Message:   e.Notification.Message,
		Reason:    string(e.Reason),
		CreatedAt: e.Notification.CreatedAt,
		RemovedAt: e.At,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		n := a.dropped.Add(1)
		a.logger.Debug("archive closed, record dropped", "handle", rec.Handle, "dropped", n)
		return
	}
	select {
	case a.queue <- rec:
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("archive queue full, record dropped", "handle", rec.Handle, "dropped", n)
	}
}

// Dropped returns how many records were discarded because the queue was
// full or the archiver was closed.
func (a *Archiver) Dropped() uint64 { return a.dropped.Load() }

// Uploaded returns how many objects were written.
func (a *Archiver) Uploaded() uint64 { return a.uploaded.Load() }

// Failed returns how many uploads failed.
func (a *Archiver) Failed() uint64 { return a.failed.Load() }

// Close flushes pending records and stops the flusher. ctx bounds the
// final upload. It returns the final flush error, if any.
func (a *Archiver) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()

		a.stop <- ctx
		select {
		case a.closeErr = <-a.finished:
		case <-ctx.Done():
			a.closeErr = ctx.Err()
		}
	})
	return a.closeErr
}

func (a *Archiver) run() {
	ticker := time.NewTicker(a.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]Record, 0, a.config.BatchSize)
	flush := func(ctx context.Context) error {
		if len(batch) == 0 {
			return nil
		}
		err := a.flush(ctx, batch)
		batch = batch[:0]
		return err
	}

	for {
		select {
		case rec := <-a.queue:
			batch = append(batch, rec)
			if len(batch) >= a.config.BatchSize {
				flush(context.Background())
			}

		case <-ticker.C:
			flush(context.Background())

		case ctx := <-a.stop:
			var errs []error
		drain:
			for {
				select {
				case rec := <-a.queue:
					batch = append(batch, rec)
					if len(batch) >= a.config.BatchSize {
						errs = append(errs, flush(ctx))
					}
				default:
					break drain
				}
			}
			errs = append(errs, flush(ctx))
			a.finished <- stderrors.Join(errs...)
			return
		}
	}
}

// flush uploads batch as one object.
func (a *Archiver) flush(ctx context.Context, batch []Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range batch {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	key := ObjectKey(a.config.Prefix, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		a.failed.Add(1)
		terr := errors.New("T060").
			WithDetailf("%d records to s3://%s/%s", len(batch), a.config.Bucket, key).
			Wrap(err)
		a.logger.Error("archive upload failed", "error", terr)
		return terr
	}

	a.uploaded.Add(1)
	a.logger.Debug("archive uploaded", "key", key, "records", len(batch))
	return nil
}

// ObjectKey returns prefix/YYYY/MM/DD/<unix-nanos>.jsonl for t in UTC.
func ObjectKey(prefix string, t time.Time) string {
	t = t.UTC()
	return path.Join(prefix, t.Format("2006/01/02"), fmt.Sprintf("%d.jsonl", t.UnixNano()))
}
