package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
	"github.com/schoolleague/fantasy-engine/internal/platform/resilience"
)

func TestWebhookNotifier_SendsAuthorizedEvent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hook-token" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content type: %s", got)
		}

		var event map[string]any
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Fatalf("decode event body: %v", err)
		}
		if event["userId"] != "user-ana" {
			t.Fatalf("unexpected user id: %v", event["userId"])
		}
		if event["message"] != "badge earned: podium_finisher" {
			t.Fatalf("unexpected message: %v", event["message"])
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(WebhookNotifierConfig{
		SinkURL:   srv.URL,
		AuthToken: "hook-token",
		Timeout:   2 * time.Second,
	}, logging.NewNop())

	err := notifier.Notify(context.Background(), "user-ana", "badge earned: podium_finisher", map[string]any{
		"badge": "podium_finisher",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
}

func TestWebhookNotifier_RejectsEmptyUserID(t *testing.T) {
	t.Parallel()

	notifier := NewWebhookNotifier(WebhookNotifierConfig{
		SinkURL: "https://hooks.example.com/fantasy",
	}, logging.NewNop())

	if err := notifier.Notify(context.Background(), "  ", "hello", nil); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestWebhookNotifier_RejectsInvalidSinkURL(t *testing.T) {
	t.Parallel()

	notifier := NewWebhookNotifier(WebhookNotifierConfig{
		SinkURL: "ftp://hooks.example.com/fantasy",
	}, logging.NewNop())

	if err := notifier.Notify(context.Background(), "user-ana", "hello", nil); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestWebhookNotifier_CircuitOpensAfterRepeatedServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(WebhookNotifierConfig{
		SinkURL: srv.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := notifier.Notify(ctx, "user-ana", "hello", nil); err == nil {
			t.Fatalf("expected delivery error on attempt %d", i+1)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("unexpected call count before open: %d", got)
	}

	if err := notifier.Notify(ctx, "user-ana", "hello", nil); err == nil {
		t.Fatalf("expected circuit breaker rejection")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("open circuit still reached the sink: %d calls", got)
	}
}

func TestWebhookNotifier_NonRetryableStatusDoesNotTripCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	notifier := NewWebhookNotifier(WebhookNotifierConfig{
		SinkURL: srv.URL,
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := notifier.Notify(ctx, "user-ana", "hello", nil); err == nil {
			t.Fatalf("expected delivery error on attempt %d", i+1)
		}
	}
	if got := calls.Load(); got != 4 {
		t.Fatalf("expected every request to reach the sink, got %d calls", got)
	}
}

func TestValidateHTTPSinkURL(t *testing.T) {
	t.Parallel()

	got, err := validateHTTPSinkURL(" https://hooks.example.com/fantasy/ ")
	if err != nil {
		t.Fatalf("validate sink url: %v", err)
	}
	if got != "https://hooks.example.com/fantasy" {
		t.Fatalf("unexpected normalized url: %q", got)
	}

	if _, err := validateHTTPSinkURL(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := validateHTTPSinkURL("https://"); err == nil {
		t.Fatalf("expected error for empty host")
	}
}
