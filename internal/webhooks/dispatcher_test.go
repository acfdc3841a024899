package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "webhooks-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestDispatchPostsEnvelope(t *testing.T) {
	var received envelope
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := NewDispatcher(config.WebhooksConfig{
		LMSSignupURL: server.URL,
		Timeout:      5 * time.Second,
	}, testLogger())

	err := d.Dispatch(context.Background(), EventLMSSignup, map[string]string{"email": "a@b.io"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, EventLMSSignup, received.Event)
	assert.False(t, received.OccurredAt.IsZero())
}

func TestDispatchReportsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	d := NewDispatcher(config.WebhooksConfig{CRMFlowURL: server.URL}, testLogger())

	err := d.Dispatch(context.Background(), EventCRMFlow, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDispatchUnsetURLIsNoop(t *testing.T) {
	d := NewDispatcher(config.WebhooksConfig{}, testLogger())
	assert.NoError(t, d.Dispatch(context.Background(), EventLMSSignup, nil))
}

func TestDispatchUnknownEventFails(t *testing.T) {
	d := NewDispatcher(config.WebhooksConfig{}, testLogger())
	assert.Error(t, d.Dispatch(context.Background(), "user.vanished", nil))
}
