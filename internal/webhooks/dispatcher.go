package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leadspark-io/leadspark-backend/pkg/config"
	"github.com/leadspark-io/leadspark-backend/pkg/logger"
)

// Event names carried in the webhook envelope.
const (
	EventLMSSignup = "lms.signup"
	EventCRMFlow   = "crm.flow"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher posts JSON events to the configured external hooks. Sends are
// fire-and-forget from the caller's point of view: the local write that
// triggered the event is already committed, so a hook failure is logged
// and reported but never rolled back.
type Dispatcher struct {
	client  httpDoer
	logg    *logger.Logger
	targets map[string]string
}

// NewDispatcher builds a dispatcher from the webhook config. Events whose
// URL is unset are dropped silently so environments can disable hooks.
func NewDispatcher(cfg config.WebhooksConfig, logg *logger.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		logg:   logg,
		targets: map[string]string{
			EventLMSSignup: cfg.LMSSignupURL,
			EventCRMFlow:   cfg.CRMFlowURL,
		},
	}
}

type envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Dispatch sends one event synchronously. Callers that must not block run
// it through Fire.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, data any) error {
	url, ok := d.targets[event]
	if !ok {
		return fmt.Errorf("unknown webhook event %q", event)
	}
	if url == "" {
		return nil
	}

	body, err := json.Marshal(envelope{
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", event, resp.StatusCode)
	}
	return nil
}

// Fire dispatches the event on a fresh goroutine with its own deadline,
// detached from the request context. Failures are logged, never returned.
func (d *Dispatcher) Fire(event string, data any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.Dispatch(ctx, event, data); err != nil {
			d.logg.Error(ctx, "webhook dispatch failed", err)
		}
	}()
}
