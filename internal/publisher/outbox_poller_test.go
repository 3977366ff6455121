package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	r "github.com/fjod/go_cart/storefront/internal/repository"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type MockOutbox struct {
	mu           sync.Mutex
	OutboxEvents []*r.OutboxEvent
	FetchErr     error
	MarkErr      error
	ProcessedIDs []int64
	PruneCutoff  time.Time
	PruneErr     error
}

func (m *MockOutbox) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := m.OutboxEvents
	m.OutboxEvents = nil // hand each event out once
	return out, nil
}

func (m *MockOutbox) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.ProcessedIDs = append(m.ProcessedIDs, id)
	return nil
}

func (m *MockOutbox) DeleteProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PruneCutoff = cutoff
	return 3, m.PruneErr
}

func (m *MockOutbox) processed() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.ProcessedIDs...)
}

type MockWriter struct {
	Messages []kafkaGo.Message
	// FailOn fails the write of the message with this key.
	FailOn string
}

func (w *MockWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.FailOn {
			return errors.New("broker unavailable")
		}
		w.Messages = append(w.Messages, m)
	}
	return nil
}

func (w *MockWriter) Close() error { return nil }

func event(id int64, cartID, typ string) *r.OutboxEvent {
	return &r.OutboxEvent{
		ID:          id,
		AggregateId: cartID,
		SessionID:   "session-1",
		EventType:   typ,
		Payload:     json.RawMessage(fmt.Sprintf(`{"cart_id":%q,"event_type":%q}`, cartID, typ)),
		CreatedAt:   time.Now(),
	}
}

func TestProcessUnpublishedEvents(t *testing.T) {
	repo := &MockOutbox{OutboxEvents: []*r.OutboxEvent{
		event(1, "cart-1", "cart_created"),
		event(2, "cart-1", "lines_added"),
	}}
	w := &MockWriter{}
	p := newOutboxPoller(repo, w, nil)

	n := p.processUnpublishedEvents(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 2}, repo.processed())
	require.Len(t, w.Messages, 2)
	assert.Equal(t, "cart-1", string(w.Messages[0].Key))
	assert.Equal(t, kafkaGo.Header{Key: "event_type", Value: []byte("cart_created")}, w.Messages[0].Headers[0])
	assert.Equal(t, kafkaGo.Header{Key: "session_id", Value: []byte("session-1")}, w.Messages[0].Headers[1])
}

func TestProcessUnpublishedEvents_StopsAtFirstFailure(t *testing.T) {
	repo := &MockOutbox{OutboxEvents: []*r.OutboxEvent{
		event(1, "cart-1", "cart_created"),
		event(2, "cart-2", "cart_created"),
		event(3, "cart-3", "cart_created"),
	}}
	w := &MockWriter{FailOn: "cart-2"}
	p := newOutboxPoller(repo, w, nil)

	n := p.processUnpublishedEvents(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, []int64{1}, repo.processed())
}

func TestProcessUnpublishedEvents_FetchError(t *testing.T) {
	repo := &MockOutbox{FetchErr: errors.New("db down")}
	w := &MockWriter{}
	p := newOutboxPoller(repo, w, nil)

	assert.Equal(t, 0, p.processUnpublishedEvents(context.Background()))
	assert.Empty(t, w.Messages)
}

func TestProcessUnpublishedEvents_MarkError(t *testing.T) {
	repo := &MockOutbox{
		OutboxEvents: []*r.OutboxEvent{event(1, "cart-1", "cart_created"), event(2, "cart-1", "lines_added")},
		MarkErr:      errors.New("db down"),
	}
	w := &MockWriter{}
	p := newOutboxPoller(repo, w, nil)

	assert.Equal(t, 0, p.processUnpublishedEvents(context.Background()))
	assert.Len(t, w.Messages, 1)
}

func TestPruneProcessed(t *testing.T) {
	repo := &MockOutbox{}
	p := newOutboxPoller(repo, &MockWriter{}, nil)

	before := time.Now()
	p.pruneProcessed(context.Background())

	assert.WithinDuration(t, before.Add(-p.retention), repo.PruneCutoff, time.Second)
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo := &MockOutbox{OutboxEvents: []*r.OutboxEvent{event(1, "cart-1", "cart_created")}}
	p := newOutboxPoller(repo, &MockWriter{}, nil)
	p.eventTick = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(repo.processed()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	// Start Kafka container using testcontainers Kafka module
	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}
	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka integration test in short mode")
	}
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	createTopic(t, brokerAddr, Topic)
	// Give Kafka time to fully initialize the topic
	time.Sleep(5 * time.Second)

	repo := &MockOutbox{OutboxEvents: []*r.OutboxEvent{event(1, "cart-123", "lines_added")}}
	poller := NewOutboxPoller(repo, nil, brokerAddr)
	defer poller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    Topic,
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cart-123", string(msg.Key))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "lines_added", payload["event_type"])

	require.Eventually(t, func() bool { return len(repo.processed()) == 1 }, 5*time.Second, 100*time.Millisecond)
}
