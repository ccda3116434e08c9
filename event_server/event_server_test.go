package event_server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
)

// newTestServer creates an EventServer with an httptest.Server for use in tests.
func newTestServer(t *testing.T) (*EventServer, *httptest.Server, func()) {
	t.Helper()
	es := newEventServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/events", es.handleSSE)
	ts := httptest.NewServer(mux)

	cleanup := func() {
		es.cancel()
		ts.Close()
	}
	return es, ts, cleanup
}

func newEventServer() *EventServer {
	es := &EventServer{clients: make(map[SubscriberId]*Subscriber)}
	es.ctx, es.cancel = context.WithCancel(context.Background())
	return es
}

func makeResult(url, gtfsType string) records.Result {
	return records.Result{
		Relationship: records.RelationshipSuccess,
		Contents:     []byte("{\n  \"header\": {\n    \"gtfsRealtimeVersion\": \"2.0\"\n  }\n}"),
		Attributes:   map[string]string{"gtfsurl": url, "gtfstype": gtfsType},
	}
}

func TestSubscribeAddsClient(t *testing.T) {
	es := newEventServer()

	sub := es.Subscribe(map[string]string{"gtfstype": "vehicle"})
	if sub == nil {
		t.Fatal("expected non-nil subscriber")
	}

	es.clientsMux.RLock()
	_, found := es.clients[sub.ID]
	es.clientsMux.RUnlock()
	if !found {
		t.Error("subscriber not found in client map after Subscribe")
	}

	es.Unsubscribe(sub)
	es.Unsubscribe(sub)

	es.clientsMux.RLock()
	_, found = es.clients[sub.ID]
	es.clientsMux.RUnlock()
	if found {
		t.Error("subscriber still found in client map after Unsubscribe")
	}
}

func TestBroadcastDelivery(t *testing.T) {
	es := newEventServer()
	sub := es.Subscribe(map[string]string{})
	defer es.Unsubscribe(sub)

	es.Broadcast(makeResult("http://feed", "vehicle"))

	select {
	case msg := <-sub.Channel:
		if msg.Attributes["gtfstype"] != "vehicle" {
			t.Errorf("got gtfstype %q, want vehicle", msg.Attributes["gtfstype"])
		}
		if len(msg.Document) == 0 {
			t.Error("expected document")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for broadcasted message")
	}
}

func TestBroadcastFiltering(t *testing.T) {
	tests := []struct {
		name         string
		subscription map[string]string
		wantDelivery bool
	}{
		{name: "no filter", subscription: map[string]string{}, wantDelivery: true},
		{name: "matching type", subscription: map[string]string{"gtfstype": "alert"}, wantDelivery: true},
		{name: "other type", subscription: map[string]string{"gtfstype": "vehicle"}, wantDelivery: false},
		{name: "all keys must match", subscription: map[string]string{"gtfstype": "alert", "gtfsurl": "http://other"}, wantDelivery: false},
		{name: "unknown key", subscription: map[string]string{"agency": ""}, wantDelivery: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := newEventServer()
			sub := es.Subscribe(tt.subscription)
			defer es.Unsubscribe(sub)

			es.Broadcast(makeResult("http://feed", "alert"))

			select {
			case <-sub.Channel:
				if !tt.wantDelivery {
					t.Error("subscriber unexpectedly received message")
				}
			case <-time.After(50 * time.Millisecond):
				if tt.wantDelivery {
					t.Error("subscriber did not receive message")
				}
			}
		})
	}
}

func TestBroadcastNoSubscribers(t *testing.T) {
	es := newEventServer()
	es.Broadcast(makeResult("http://feed", "alert"))
}

func TestBroadcastSlowSubscriber(t *testing.T) {
	es := newEventServer()
	sub := es.Subscribe(map[string]string{})
	defer es.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+5; i++ {
			es.Broadcast(makeResult("http://feed", "alert"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full subscriber")
	}
	if len(sub.Channel) != subscriberBuffer {
		t.Errorf("got %d buffered messages, want %d", len(sub.Channel), subscriberBuffer)
	}
}

func TestNewMessage(t *testing.T) {
	failed := records.Result{
		Contents:   []byte{},
		Attributes: map[string]string{"gtfsurl": ""},
		Err:        errors.New("no feed url configured"),
	}
	msg := NewMessage(failed)
	if msg.Document != nil {
		t.Errorf("got document %s, want none", msg.Document)
	}
	if msg.Error == "" {
		t.Error("expected error text")
	}
}

func TestSSEEndpointDeliversResult(t *testing.T) {
	es, ts, cleanup := newTestServer(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", fmt.Sprintf("%s/events", ts.URL), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	received := make(chan string, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				received <- strings.TrimPrefix(line, "data: ")
				return
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	es.Broadcast(makeResult("http://feed", "vehicle"))

	select {
	case data := <-received:
		if !strings.Contains(data, `"gtfstype":"vehicle"`) {
			t.Errorf("SSE data missing attributes: %s", data)
		}
		if !strings.Contains(data, `"gtfsRealtimeVersion":"2.0"`) {
			t.Errorf("SSE data missing compact document: %s", data)
		}
	case <-time.After(400 * time.Millisecond):
		t.Fatal("timeout waiting for SSE event")
	}
}

func TestSSEEndpointFiltersByQueryParam(t *testing.T) {
	es, ts, cleanup := newTestServer(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", fmt.Sprintf("%s/events?gtfstype=alert", ts.URL), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	received := make(chan string, 2)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				received <- strings.TrimPrefix(line, "data: ")
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	es.Broadcast(makeResult("http://feed", "vehicle"))
	time.Sleep(30 * time.Millisecond)
	es.Broadcast(makeResult("http://feed", "alert"))

	select {
	case data := <-received:
		if !strings.Contains(data, `"gtfstype":"alert"`) {
			t.Errorf("got unexpected SSE event: %s", data)
		}
	case <-time.After(400 * time.Millisecond):
		t.Fatal("timeout: did not receive matching SSE event")
	}

	select {
	case data := <-received:
		t.Errorf("unexpected second SSE event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEClientDisconnectCleanup(t *testing.T) {
	es, ts, cleanup := newTestServer(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", fmt.Sprintf("%s/events", ts.URL), nil)
	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	connDone := make(chan struct{})
	go func() {
		defer close(connDone)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		<-ctx.Done()
		resp.Body.Close()
	}()

	time.Sleep(50 * time.Millisecond)

	es.clientsMux.RLock()
	countBefore := len(es.clients)
	es.clientsMux.RUnlock()
	if countBefore != 1 {
		t.Fatalf("expected 1 subscriber, got %d", countBefore)
	}

	cancel()
	<-connDone
	time.Sleep(50 * time.Millisecond)

	es.clientsMux.RLock()
	countAfter := len(es.clients)
	es.clientsMux.RUnlock()
	if countAfter != 0 {
		t.Errorf("expected 0 subscribers after disconnect, got %d", countAfter)
	}
}

func TestNewSubscriberHasUniqueIDs(t *testing.T) {
	es := newEventServer()
	sub1 := es.Subscribe(map[string]string{})
	sub2 := es.Subscribe(map[string]string{})
	defer es.Unsubscribe(sub1)
	defer es.Unsubscribe(sub2)

	if sub1.ID == sub2.ID {
		t.Error("expected unique subscriber IDs, got the same ID for both")
	}
}

func TestEventServerConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.EventServerConfig{Port: "0", Path: "/events", MetricsPath: "/metrics"}
	es := NewEventServer(ctx, cfg, http.NotFoundHandler())
	if es == nil {
		t.Fatal("expected non-nil EventServer")
	}
}
