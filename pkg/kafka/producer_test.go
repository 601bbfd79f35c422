package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterForReusesWriters(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	first := p.writerFor("lending-events")
	second := p.writerFor("lending-events")
	assert.Same(t, first, second, "one writer per topic")

	other := p.writerFor("other-topic")
	assert.NotSame(t, first, other)

	assert.Equal(t, "lending-events", first.Topic)
	assert.Equal(t, kafkago.RequireAll, first.RequiredAcks)
}

func TestToKafkaHeaders(t *testing.T) {
	assert.Nil(t, toKafkaHeaders(nil))
	assert.Nil(t, toKafkaHeaders(map[string]string{}))

	headers := toKafkaHeaders(map[string]string{"event_type": "lending.loan.originated"})
	require.Len(t, headers, 1)
	assert.Equal(t, "event_type", headers[0].Key)
	assert.Equal(t, []byte("lending.loan.originated"), headers[0].Value)
}

func TestCloseResetsWriters(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	p.writerFor("lending-events")

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}
