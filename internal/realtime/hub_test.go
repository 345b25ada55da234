package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastByJob(t *testing.T) {
	hub := NewHub()
	a := &Client{JobID: "job-a", Send: make(chan []byte, 1)}
	b := &Client{JobID: "job-b", Send: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast("job-a", map[string]string{"type": "job.progress"})

	select {
	case msg := <-a.Send:
		if !strings.Contains(string(msg), "job.progress") {
			t.Fatalf("unexpected message %s", msg)
		}
	default:
		t.Fatalf("client a got nothing")
	}
	select {
	case msg := <-b.Send:
		t.Fatalf("client b should not receive %s", msg)
	default:
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub()
	client := &Client{JobID: "job", Send: make(chan []byte, 1)}
	hub.Register(client)
	hub.Unregister(client)
	hub.Unregister(client)
	if hub.Watchers("job") != 0 {
		t.Fatalf("client still registered")
	}
	if _, ok := <-client.Send; ok {
		t.Fatalf("send channel not closed")
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := &Client{JobID: "job", Send: make(chan []byte, 1)}
	hub.Register(client)
	hub.Broadcast("job", "one")
	hub.Broadcast("job", "two")
	if len(client.Send) != 1 {
		t.Fatalf("expected one buffered message, got %d", len(client.Send))
	}
}

func TestServeWS(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, "job-1", func() any {
			return map[string]string{"type": "job.snapshot"}
		})
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, msg, err := conn.ReadMessage()
	if err != nil || !strings.Contains(string(msg), "job.snapshot") {
		t.Fatalf("snapshot: %s %v", msg, err)
	}

	deadline := time.Now().Add(time.Second)
	for hub.Watchers("job-1") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hub.Broadcast("job-1", map[string]string{"type": "job.completed"})
	_, msg, err = conn.ReadMessage()
	if err != nil || !strings.Contains(string(msg), "job.completed") {
		t.Fatalf("broadcast: %s %v", msg, err)
	}
}

func TestServeWSRegistersBeforeSnapshot(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, "job-2", func() any {
			hub.Broadcast("job-2", map[string]string{"type": "job.completed"})
			return map[string]int{"watchers": hub.Watchers("job-2")}
		})
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, msg, err := conn.ReadMessage()
	if err != nil || !strings.Contains(string(msg), `"watchers":1`) {
		t.Fatalf("snapshot: %s %v", msg, err)
	}
	_, msg, err = conn.ReadMessage()
	if err != nil || !strings.Contains(string(msg), "job.completed") {
		t.Fatalf("event sent during snapshot was lost: %s %v", msg, err)
	}
}
