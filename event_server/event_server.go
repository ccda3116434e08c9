package event_server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/google/uuid"
)

const subscriberBuffer = 16

type SubscriberId string

func NewSubscriberId() SubscriberId {
	return SubscriberId(uuid.New().String())
}

// Subscriber receives every broadcast Message whose attributes contain all
// of Subscription's key/value pairs.
type Subscriber struct {
	ID           SubscriberId
	Channel      chan Message
	Subscription map[string]string
}

func NewSubscriber(id SubscriberId, subscription map[string]string) *Subscriber {
	return &Subscriber{
		ID:           id,
		Channel:      make(chan Message, subscriberBuffer),
		Subscription: subscription,
	}
}

func (s *Subscriber) matches(attrs map[string]string) bool {
	for k, v := range s.Subscription {
		if got, ok := attrs[k]; !ok || got != v {
			return false
		}
	}
	return true
}

// Message is the JSON body of one SSE event.
type Message struct {
	Attributes map[string]string `json:"attributes"`
	Document   json.RawMessage   `json:"document"`
	Error      string            `json:"error,omitempty"`
}

func NewMessage(result records.Result) Message {
	msg := Message{Attributes: result.GetAttributes()}
	if len(result.Contents) > 0 && json.Valid(result.Contents) {
		msg.Document = json.RawMessage(result.Contents)
	}
	if result.Err != nil {
		msg.Error = result.Err.Error()
	}
	return msg
}

type EventServer struct {
	clients    map[SubscriberId]*Subscriber
	clientsMux sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewEventServer serves results as Server-Sent Events on cfg.Path and, when
// both are set, metricsHandler on cfg.MetricsPath.
func NewEventServer(ctx context.Context, cfg config.EventServerConfig, metricsHandler http.Handler) *EventServer {
	server := &EventServer{
		clients: make(map[SubscriberId]*Subscriber),
	}
	server.ctx, server.cancel = context.WithCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, server.handleSSE)
	if cfg.MetricsPath != "" && metricsHandler != nil {
		mux.Handle(cfg.MetricsPath, metricsHandler)
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("event server: listening", "port", cfg.Port, "path", cfg.Path, "metrics_path", cfg.MetricsPath)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("event server: listen failed", "error", err)
		}
	}()

	go func() {
		<-server.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("event server: shutdown failed", "error", err)
		}
	}()

	return server
}

func (es *EventServer) Subscribe(subscription map[string]string) *Subscriber {
	es.clientsMux.Lock()
	defer es.clientsMux.Unlock()
	client := NewSubscriber(NewSubscriberId(), subscription)
	es.clients[client.ID] = client
	return client
}

func (es *EventServer) Unsubscribe(client *Subscriber) {
	es.clientsMux.Lock()
	defer es.clientsMux.Unlock()
	if _, ok := es.clients[client.ID]; !ok {
		return
	}
	delete(es.clients, client.ID)
	close(client.Channel)
}

// Broadcast never blocks: a subscriber whose buffer is full misses the
// message.
func (es *EventServer) Broadcast(result records.Result) {
	es.clientsMux.RLock()
	defer es.clientsMux.RUnlock()

	msg := NewMessage(result)
	for _, client := range es.clients {
		if !client.matches(msg.Attributes) {
			continue
		}
		select {
		case client.Channel <- msg:
		default:
			slog.Warn("event server: subscriber too slow, dropping message", "subscriber", client.ID)
		}
	}
}

func (es *EventServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	subscription := map[string]string{}
	for k, v := range r.URL.Query() {
		subscription[k] = v[0]
	}

	client := es.Subscribe(subscription)
	defer es.Unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-es.ctx.Done():
			return
		case msg, ok := <-client.Channel:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				slog.Error("event server: marshal failed", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
