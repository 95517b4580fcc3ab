// Package monitor provides the rembot host's monitoring server.
//
// It replaces the desktop log window of the original controller UI: a
// small HTTP server with job status, program download, Prometheus
// metrics, and a WebSocket stream of generation and delivery events
// for live frontends.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rembot-host/pkg/gcode"
	"rembot-host/pkg/log"
	"rembot-host/pkg/metrics"
)

// Event is one message on the WebSocket stream.
type Event struct {
	// Type is one of "job", "progress", "log", "done", "error".
	Type string `json:"type"`

	// Job fields
	Job   string `json:"job,omitempty"`
	Lines int    `json:"lines,omitempty"`
	Runs  int    `json:"runs,omitempty"`

	// Progress fields
	Sent  int    `json:"sent,omitempty"`
	Total int    `json:"total,omitempty"`
	Line  string `json:"line,omitempty"`

	// Log / error text
	Message string `json:"message,omitempty"`

	Time time.Time `json:"time"`
}

// Config holds server configuration.
type Config struct {
	// Addr is the HTTP listen address (e.g. ":7600").
	Addr string

	// Registry provides /metrics; defaults to metrics.Default.
	Registry *metrics.Registry
}

// Server is the monitoring endpoint. It is safe for concurrent use:
// the generation/delivery pipeline publishes events while clients
// connect and disconnect.
type Server struct {
	addr     string
	registry *metrics.Registry
	logger   *log.Logger

	httpServer *http.Server
	upgrader   websocket.Upgrader

	mu       sync.RWMutex
	clients  map[int64]*client
	nextID   int64
	job      string
	program  []string
	runs     int
	sent     int
	total    int
	started  time.Time
	lastErr  string
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a monitor server.
func New(cfg Config) *Server {
	reg := cfg.Registry
	if reg == nil {
		reg = metrics.Default
	}
	return &Server{
		addr:     cfg.Addr,
		registry: reg,
		logger:   log.GetLogger("monitor"),
		clients:  make(map[int64]*client),
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/program", s.handleProgram)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", s.registry.Handler())

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("monitor server: %v", err)
		}
	}()
	s.logger.Info("monitor listening on %s", s.addr)
	return nil
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop() error {
	s.mu.Lock()
	for id, c := range s.clients {
		close(c.send)
		delete(s.clients, id)
	}
	s.mu.Unlock()
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// SetJob records a freshly generated program and announces it.
func (s *Server) SetJob(name string, lines []string, runs int) {
	s.mu.Lock()
	s.job = name
	s.program = lines
	s.runs = runs
	s.sent = 0
	s.total = 0
	s.lastErr = ""
	s.mu.Unlock()

	s.Broadcast(Event{Type: "job", Job: name, Lines: len(lines), Runs: runs})
}

// Progress records delivery progress and announces it.
func (s *Server) Progress(sent, total int, line string) {
	s.mu.Lock()
	s.sent = sent
	s.total = total
	s.mu.Unlock()

	s.Broadcast(Event{Type: "progress", Sent: sent, Total: total, Line: line})
}

// Done announces that the current job finished delivery.
func (s *Server) Done() {
	s.mu.RLock()
	job := s.job
	s.mu.RUnlock()
	s.Broadcast(Event{Type: "done", Job: job})
}

// Fail records and announces a job failure.
func (s *Server) Fail(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.Broadcast(Event{Type: "error", Message: err.Error()})
}

// Broadcast sends an event to every connected client. Slow clients
// are dropped rather than allowed to stall the pipeline.
func (s *Server) Broadcast(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(s.clients, id)
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	status := map[string]any{
		"job":     s.job,
		"lines":   len(s.program),
		"runs":    s.runs,
		"sent":    s.sent,
		"total":   s.total,
		"error":   s.lastErr,
		"uptime":  time.Since(s.started).Seconds(),
		"clients": len(s.clients),
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleProgram(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	program := s.program
	job := s.job
	s.mu.RUnlock()

	if job == "" {
		http.Error(w, "no program generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	for _, line := range program {
		fmt.Fprint(w, line, gcode.LineTerminator)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.clients[id] = c
	s.mu.Unlock()
	s.logger.Debug("websocket client %d connected", id)

	go s.writePump(c)
	s.readPump(id, c)
}

// writePump delivers broadcast events to one client.
func (s *Server) writePump(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump discards inbound frames and unregisters the client when the
// connection drops.
func (s *Server) readPump(id int64, c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	if cur, ok := s.clients[id]; ok && cur == c {
		close(c.send)
		delete(s.clients, id)
	}
	s.mu.Unlock()
	s.logger.Debug("websocket client %d disconnected", id)
}
