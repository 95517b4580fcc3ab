package monitor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"rembot-host/pkg/metrics"
)

func newTestServer() *Server {
	return New(Config{Addr: ":0", Registry: metrics.NewRegistry()})
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer()
	s.SetJob("drawing.png", []string{"", "M90 X0.0000 Y0.0000", "M100", ""}, 0)
	s.Progress(2, 4, "M90 X0.0000 Y0.0000")

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if status["job"] != "drawing.png" {
		t.Errorf("expected job name, got %v", status["job"])
	}
	if status["lines"] != float64(4) || status["sent"] != float64(2) || status["total"] != float64(4) {
		t.Errorf("unexpected counters: %v", status)
	}
}

func TestHandleProgram(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.handleProgram(rec, httptest.NewRequest("GET", "/program", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before a job exists, got %d", rec.Code)
	}

	s.SetJob("drawing.png", []string{"", "M90 X0.0000 Y0.0000", "M100", ""}, 0)
	rec = httptest.NewRecorder()
	s.handleProgram(rec, httptest.NewRequest("GET", "/program", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := "\r\nM90 X0.0000 Y0.0000\r\nM100\r\n\r\n"
	if rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.Counter("rembot_jobs_total", "Jobs processed.").Inc()
	s := New(Config{Addr: ":0", Registry: reg})

	rec := httptest.NewRecorder()
	s.registry.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "rembot_jobs_total 1") {
		t.Errorf("unexpected metrics body: %s", rec.Body.String())
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	s := newTestServer()
	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The register happens inside the handler goroutine; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.RLock()
		n := len(s.clients)
		s.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.SetJob("drawing.png", []string{"", "M100", ""}, 1)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	if ev.Type != "job" || ev.Job != "drawing.png" || ev.Lines != 3 || ev.Runs != 1 {
		t.Errorf("unexpected event: %+v", ev)
	}

	s.Fail(errors.New("device rejected line"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("invalid event JSON: %v", err)
	}
	if ev.Type != "error" || !strings.Contains(ev.Message, "rejected") {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestBroadcastDropsSlowClients(t *testing.T) {
	s := newTestServer()

	// A client whose send buffer is already full and that nobody
	// drains simulates a stalled connection.
	c := &client{send: make(chan []byte)}
	s.mu.Lock()
	s.nextID++
	s.clients[s.nextID] = c
	s.mu.Unlock()

	s.Broadcast(Event{Type: "log", Message: "hello"})

	s.mu.RLock()
	n := len(s.clients)
	s.mu.RUnlock()
	if n != 0 {
		t.Errorf("expected slow client dropped, %d still registered", n)
	}
	if _, ok := <-c.send; ok {
		t.Error("expected send channel closed")
	}
}
