package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"swarmboard/domain"
)

func TestUpdateBrokerCoalescesNotifications(t *testing.T) {
	b := newUpdateBroker()
	ch := b.subscribe()

	b.notify()
	b.notify()
	b.notify()

	if got := len(ch); got != 1 {
		t.Fatalf("expected coalesced single signal, got %d", got)
	}

	<-ch
	b.unsubscribe(ch)
	b.notify()
	if got := len(ch); got != 0 {
		t.Fatalf("expected no signal after unsubscribe, got %d", got)
	}
}

func TestUpdateBrokerFansOut(t *testing.T) {
	b := newUpdateBroker()
	first := b.subscribe()
	second := b.subscribe()

	b.notify()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both subscribers signalled, got %d and %d", len(first), len(second))
	}
}

func TestStreamStateSendsSnapshotFrames(t *testing.T) {
	e := echo.New()
	store := &mockStore{snap: domain.StateSnapshot{
		Tasks:      []domain.Task{{ID: 1, Title: "streamed"}},
		ServerTime: "2025-06-01T12:00:00.000Z",
	}}
	broker := newUpdateBroker()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	done := make(chan error, 1)
	go func() { done <- streamState(store, broker)(c) }()

	// Give the handler time to write the initial frame, then one more.
	time.Sleep(50 * time.Millisecond)
	broker.notify()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("stream handler: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("stream handler did not exit on client disconnect")
	}

	if got := rec.Header().Get(echo.HeaderContentType); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "data: ") {
		t.Fatalf("expected SSE framing, got %q", body)
	}
	if got := strings.Count(body, "data: "); got != 2 {
		t.Fatalf("expected 2 frames, got %d: %q", got, body)
	}
	if !strings.Contains(body, `"streamed"`) {
		t.Fatalf("frame missing task payload: %q", body)
	}
}
