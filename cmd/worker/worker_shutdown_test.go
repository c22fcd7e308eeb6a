package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
	"github.com/segmentio/kafka-go"
)

// TestWorker_GracefulShutdown ensures that the worker:
// 1. Processes messages from Kafka.
// 2. Updates followers' feeds correctly.
// 3. Shuts down gracefully when the context is canceled.
func TestWorker_GracefulShutdown(t *testing.T) {
	mockStore := store.NewMock()

	authorID, _ := mockStore.CreateUser("author", "author@example.com")
	followerID, _ := mockStore.CreateUser("follower", "follower@example.com")
	mockStore.CreateFollow(followerID, authorID)

	post := models.Post{
		ID:       "100",
		Title:    "Shutdown test",
		AuthorID: authorID,
		Body:     "Shutdown test post",
		Created:  time.Now(),
	}
	data, _ := json.Marshal(post)

	// Mock Kafka reader with a single message
	mockKafka := &idleKafkaReader{
		Messages: []kafka.Message{{Value: data}},
	}

	// Context with timeout to simulate graceful shutdown signal
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})

	worker := New(mockStore, mockKafka, 2, 4)

	// Run the worker in a separate goroutine
	go func() {
		worker.Run(ctx) // Worker processes messages until ctx.Done()
		close(done)
	}()

	// Wait for worker to finish or timeout
	select {
	case <-done:
		// Verify that follower's feed contains the post
		feed, _ := mockStore.GetFeed(followerID, 10)
		if len(feed) != 1 || feed[0].Body != post.Body {
			t.Fatalf("feed not updated correctly: %+v", feed)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not shutdown gracefully in time")
	}

	if err := worker.Close(); err != nil {
		t.Fatalf("worker Close() error: %v", err)
	}

	if !mockKafka.Closed {
		t.Fatal("expected Kafka reader to be closed")
	}
}

// idleKafkaReader simulates a Kafka reader that idles once its queue drains.
type idleKafkaReader struct {
	Messages []kafka.Message // Queue of messages to return
	Closed   bool            // Tracks whether Close() has been called
}

// ReadMessage returns the next message in the queue or simulates an idle wait.
func (m *idleKafkaReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	default:
	}

	if len(m.Messages) == 0 {
		time.Sleep(5 * time.Millisecond) // simulate idle wait
		return kafka.Message{}, nil
	}

	msg := m.Messages[0]
	m.Messages = m.Messages[1:]
	return msg, nil
}

// Close marks the mock Kafka reader as closed
func (m *idleKafkaReader) Close() error {
	m.Closed = true
	return nil
}
