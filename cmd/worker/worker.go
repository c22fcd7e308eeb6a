package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	appkafka "example.com/socialhub/internal/broker"
	"example.com/socialhub/internal/logger"
	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

var logg = logger.New()

// Worker consumes post_created events and writes the post into each
// follower's feed partition concurrently.
type Worker struct {
	store        store.StoreInterface
	reader       appkafka.KafkaReader
	workerCount  int
	jobQueueSize int
}

// New creates a new concurrent Worker using pre-initialized dependencies.
func New(store store.StoreInterface, reader appkafka.KafkaReader, workerCount, jobQueueSize int) *Worker {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if jobQueueSize <= 0 {
		jobQueueSize = workerCount * 10
	}
	return &Worker{
		store:        store,
		reader:       reader,
		workerCount:  workerCount,
		jobQueueSize: jobQueueSize,
	}
}

// Run starts message reading and concurrent processing.
func (w *Worker) Run(ctx context.Context) {
	logg.Info("worker", "Starting "+fmt.Sprint(w.workerCount)+" workers with queue size "+fmt.Sprint(w.jobQueueSize))

	jobs := make(chan []byte, w.jobQueueSize)
	var wg sync.WaitGroup

	for i := 0; i < w.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.processLoop(ctx, jobs)
		}()
	}

	w.readLoop(ctx, jobs)

	close(jobs)
	wg.Wait()
	logg.Info("worker", "All workers stopped gracefully")
}

// readLoop reads Kafka messages and pushes them into a job queue.
func (w *Worker) readLoop(ctx context.Context, jobs chan<- []byte) {
	var retry int
	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := w.reader.ReadMessage(ctx)
			if err != nil {
				backoff := time.Duration(math.Min(1000, math.Pow(2, float64(retry)))) * time.Millisecond
				logg.Error("worker", "Kafka read error, backing off", err)
				if !waitWithContext(ctx, backoff) {
					return
				}
				retry++
				continue
			}
			retry = 0

			if len(msg.Value) == 0 {
				if !waitWithContext(ctx, 50*time.Millisecond) {
					return
				}
				continue
			}

			select {
			case jobs <- msg.Value:
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
				logg.Info("worker", "Queue full, waiting to enqueue Kafka message")
			}
		}
	}
}

// processLoop decodes post events and fans them out to follower feeds.
func (w *Worker) processLoop(ctx context.Context, jobs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-jobs:
			if !ok {
				return
			}

			var post models.Post
			if err := json.Unmarshal(data, &post); err != nil {
				logg.Error("worker", "Invalid JSON in Kafka message", err)
				continue
			}

			if err := w.fanout(ctx, post); err != nil {
				logg.Error("worker", "Fan-out failed for post", err)
			}
		}
	}
}

// fanout delivers the post to the author's own feed and every follower's
// feed, bounded by a concurrency semaphore.
func (w *Worker) fanout(ctx context.Context, post models.Post) error {
	followers, err := w.store.FollowerIDs(post.AuthorID)
	if err != nil {
		return err
	}

	// The author sees their own post on their home feed too.
	targets := append([]string{post.AuthorID}, followers...)

	const fanoutLimit = 20
	var fanoutWG sync.WaitGroup
	semaphore := make(chan struct{}, fanoutLimit)

	for _, uid := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			fanoutWG.Add(1)
			semaphore <- struct{}{}

			go func(u string) {
				defer fanoutWG.Done()
				defer func() { <-semaphore }()
				if err := w.store.AddToFeed(u, post); err != nil {
					logg.Error("worker", "Failed to add post to user feed", err)
				}
			}(uid)
		}
	}

	fanoutWG.Wait()
	logg.Info("worker", "Post delivered to followers")
	return nil
}

// waitWithContext waits for duration or context cancellation.
func waitWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Close shuts down Kafka reader and Cassandra session.
func (w *Worker) Close() error {
	logg.Info("worker", "Closing Kafka reader")
	if err := w.reader.Close(); err != nil {
		logg.Error("worker", "Error closing Kafka reader", err)
		return err
	}

	logg.Info("worker", "Closing Cassandra session")
	w.store.Close()
	return nil
}
