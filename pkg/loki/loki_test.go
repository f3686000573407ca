package loki

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type MockLogger struct{}

func (m *MockLogger) Error(msg string, args ...any) {
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &MockLogger{})
	assert.Error(t, err)

	cfg.Url = "SomeUrl"
	pusher, err := New(context.Background(), cfg, &MockLogger{})
	assert.NoError(t, err)
	assert.Equal(t, cfg.Url, pusher.config.Url)
	assert.Equal(t, 1000, pusher.config.BatchMaxSize)
	assert.Equal(t, 5*time.Second, pusher.config.BatchMaxWait)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
	pusher.Stop()
}

func Test_Push_ShouldDeliverBatchedEntries(t *testing.T) {

	received := make(chan pushRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gz, err := gzip.NewReader(r.Body)
		assert.NoError(t, err)
		var payload pushRequest
		assert.NoError(t, json.NewDecoder(gz).Decode(&payload))
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher, err := New(context.Background(), Config{
		Url:          server.URL,
		BatchMaxSize: 2,
		Labels:       map[string]string{"app": "test"},
	}, &MockLogger{})
	assert.NoError(t, err)

	assert.NoError(t, pusher.Push(LogEntry{Level: "info", Message: "first"}))
	assert.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "second"}))

	select {
	case payload := <-received:
		assert.Len(t, payload.Streams, 1)
		assert.Equal(t, "test", payload.Streams[0].Stream["app"])
		assert.Len(t, payload.Streams[0].Values, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch arrived")
	}

	pusher.Stop()
}
