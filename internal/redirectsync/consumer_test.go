package redirectsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/testutil/fakes"
)

func newTestConsumer(t *testing.T, store *fakes.FakeNotFoundStore) *Consumer {
	t.Helper()
	svc := NewService(store, logging.NewNoOpLogger())
	consumer, err := NewConsumer([]string{"localhost:9092"}, "redirects.created", "notfound-tracker", svc, logging.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func TestDecode_ValidMessage(t *testing.T) {
	consumer := newTestConsumer(t, fakes.NewFakeNotFoundStore())

	message, err := consumer.decode([]byte(`{
		"source_url": "/old-page",
		"channels": [
			{"code": "WEB-EU", "hostname": "shop.example.com"},
			{"code": "POS"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "/old-page", message.SourceURL)
	require.Len(t, message.Channels, 2)
	assert.Equal(t, "WEB-EU", message.Channels[0].Code)
	assert.Equal(t, "shop.example.com", message.Channels[0].Hostname)
	assert.Empty(t, message.Channels[1].Hostname)
}

func TestDecode_RejectsInvalidPayloads(t *testing.T) {
	consumer := newTestConsumer(t, fakes.NewFakeNotFoundStore())

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"missing source_url", `{"channels": []}`},
		{"empty source_url", `{"source_url": ""}`},
		{"channel without code", `{"source_url": "/x", "channels": [{"hostname": "shop.example.com"}]}`},
		{"source_url wrong type", `{"source_url": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := consumer.decode([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestHandle_ValidMessageDeletesEvents(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvent(t, store, "shop.example.com", "/old-page")
	seedEvent(t, store, "shop.example.com", "/keep")

	consumer := newTestConsumer(t, store)
	consumer.handle(context.Background(), []byte(`{"source_url": "/old-page"}`))

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/keep", events[0].URLPath)
}

func TestHandle_InvalidMessageIsDroppedWithoutSideEffects(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvent(t, store, "shop.example.com", "/old-page")

	consumer := newTestConsumer(t, store)
	consumer.handle(context.Background(), []byte(`{"source_url": ""}`))

	assert.Len(t, store.Events(), 1)
}

func TestHandle_ChannelsScopeDeletion(t *testing.T) {
	store := fakes.NewFakeNotFoundStore()
	seedEvent(t, store, "shop.example.com", "/old-page")
	seedEvent(t, store, "other.example.com", "/old-page")

	consumer := newTestConsumer(t, store)
	consumer.handle(context.Background(), []byte(`{
		"source_url": "/old-page",
		"channels": [{"code": "WEB-EU", "hostname": "shop.example.com"}]
	}`))

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "other.example.com", events[0].URLDomain)
}
