package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/ports"
)

// writeTimeout bounds a single background write.
const writeTimeout = 5 * time.Second

// Writer persists snapshots on a background goroutine. Submissions never
// block: while a write is in flight only the latest pending snapshot is kept.
type Writer struct {
	store   ports.BlobStore
	pending chan []byte
	flush   chan chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	onError func(error)
}

// NewWriter starts a writer for store.
func NewWriter(store ports.BlobStore) *Writer {
	w := &Writer{
		store:   store,
		pending: make(chan []byte, 1),
		flush:   make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// OnError registers a hook called after a failed write. It must be set
// before the first Submit.
func (w *Writer) OnError(fn func(error)) {
	w.onError = fn
}

// Submit queues s for writing, replacing any snapshot not yet written.
func (w *Writer) Submit(s Snapshot) {
	data, err := Marshal(s)
	if err != nil {
		logger.Error("failed to encode snapshot", "error", err)
		return
	}
	select {
	case <-w.done:
		logger.Warn("snapshot submitted after writer closed")
		return
	default:
	}
	select {
	case w.pending <- data:
	default:
		// Drop the stale snapshot and keep the newest.
		select {
		case <-w.pending:
		default:
		}
		select {
		case w.pending <- data:
		default:
		}
	}
}

// Flush blocks until every submitted snapshot has been written or ctx ends.
func (w *Writer) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flush <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the goroutine. It is safe to call
// more than once.
func (w *Writer) Close() error {
	var err error
	w.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		err = w.Flush(ctx)
		close(w.done)
		w.wg.Wait()
	})
	return err
}

func (w *Writer) run() {
	defer w.wg.Done()
	for {
		select {
		case data := <-w.pending:
			w.write(data)
		case ack := <-w.flush:
			select {
			case data := <-w.pending:
				w.write(data)
			default:
			}
			close(ack)
		case <-w.done:
			return
		}
	}
}

func (w *Writer) write(data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := w.store.Set(ctx, Key, data); err != nil {
		logger.Error("failed to persist snapshot", "error", err)
		if w.onError != nil {
			w.onError(err)
		}
	}
}
