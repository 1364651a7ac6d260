package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"clientdesk/cmd/internal/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type capture struct {
	got []Notification
}

func (c *capture) Publish(_ context.Context, n Notification) {
	c.got = append(c.got, n)
}

func TestMessagesFor(t *testing.T) {
	m := MessagesFor("contact inquiry", "contact inquiries")

	assert.Equal(t, "Error fetching contact inquiries", m.FetchFailed)
	assert.Equal(t, "Contact inquiry created successfully", m.Created)
	assert.Equal(t, "Error updating contact inquiry", m.UpdateFailed)
	assert.Equal(t, "Contact inquiry not found", m.NotFound)
}

func TestFanoutFillsTimestampAndError(t *testing.T) {
	a, b := &capture{}, &capture{}
	Fanout{a, b, LogRelay{}, SentryRelay{}}.Publish(context.Background(), Notification{
		Entity:  "client",
		Action:  ActionFetch,
		Outcome: Failure,
		Message: "Error fetching clients",
		Err:     errors.New("connection refused"),
	})

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.False(t, a.got[0].At.IsZero())
	assert.Equal(t, "connection refused", a.got[0].Error)
}

func TestMetricsRelay(t *testing.T) {
	counter := monitoring.GatewayOperations.WithLabelValues("document", ActionUpload, string(Success))
	before := testutil.ToFloat64(counter)

	MetricsRelay{}.Publish(context.Background(), Notification{Entity: "document", Action: ActionUpload, Outcome: Success})

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

type fakeProducer struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	values [][]byte
	closed bool
	err    error
}

func (f *fakeProducer) SendMessage(_ context.Context, topic string, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, string(key))
	f.values = append(f.values, value)
	return f.err
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaRelayPublishesAndDrains(t *testing.T) {
	producer := &fakeProducer{}
	relay := NewKafkaRelay(producer, "dashboard_events")

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		relay.Publish(context.Background(), Notification{
			Entity:   "client",
			Action:   ActionCreate,
			Outcome:  Success,
			Message:  "Client created successfully",
			RecordID: id,
		})
	}
	require.NoError(t, relay.Close())

	assert.True(t, producer.closed)
	assert.ElementsMatch(t, []string{"c-1", "c-2", "c-3"}, producer.keys)
	for _, topic := range producer.topics {
		assert.Equal(t, "dashboard_events", topic)
	}

	var event map[string]any
	require.NoError(t, json.Unmarshal(producer.values[0], &event))
	assert.Equal(t, "client", event["entity"])
	assert.Equal(t, "success", event["outcome"])
	assert.NotContains(t, event, "Err")
}

func TestKafkaRelaySwallowsSendErrors(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	relay := NewKafkaRelay(producer, "dashboard_events")

	relay.Publish(context.Background(), Notification{Entity: "client", Action: ActionDelete, Outcome: Success})

	require.NoError(t, relay.Close())
	assert.Len(t, producer.keys, 1)
}
