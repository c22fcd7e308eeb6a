package appkafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

// MockKafka immediately delivers published posts to follower feeds,
// collapsing the server -> broker -> worker path for tests.
type MockKafka struct {
	Store           *store.MockStore
	WrittenMessages []kafka.Message // stores messages written via WriteMessages
	ReadMessages    []kafka.Message // queue of messages to be read via ReadMessage
	ShouldFail      bool            // flag to simulate failures during write or read operations
}

// WriteMessages simulates publishing a post event, fanning it out synchronously.
func (m *MockKafka) WriteMessages(messages ...kafka.Message) error {
	if m.ShouldFail {
		return errors.New("mock kafka write failed")
	}
	if m.Store == nil {
		return errors.New("store is nil")
	}

	m.WrittenMessages = append(m.WrittenMessages, messages...)

	for _, msg := range messages {
		var post models.Post
		if err := json.Unmarshal(msg.Value, &post); err != nil {
			return err
		}

		// Author sees their own post in their feed
		_ = m.Store.AddToFeed(post.AuthorID, post)

		followers, _ := m.Store.FollowerIDs(post.AuthorID)
		for _, followerID := range followers {
			_ = m.Store.AddToFeed(followerID, post)
		}
	}

	return nil
}

// ReadMessage pops the next queued message.
func (m *MockKafka) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if m.ShouldFail {
		return kafka.Message{}, errors.New("mock kafka read failed")
	}
	if len(m.ReadMessages) == 0 {
		return kafka.Message{}, errors.New("no messages")
	}
	msg := m.ReadMessages[0]
	m.ReadMessages = m.ReadMessages[1:]
	return msg, nil
}

// Close is a no-op.
func (m *MockKafka) Close() error { return nil }

// MockKafkaFail always fails.
type MockKafkaFail struct{}

func (m *MockKafkaFail) WriteMessages(messages ...kafka.Message) error {
	return errors.New("mock kafka write failed")
}

func (m *MockKafkaFail) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("mock kafka read failed")
}

func (m *MockKafkaFail) Close() error { return nil }
