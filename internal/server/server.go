// Package server streams galaxy clouds to browser viewers over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/export"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/lox/galaxygen/internal/render"
	"github.com/lox/galaxygen/internal/session"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Options tunes a Server
type Options struct {
	AllowedOrigins   []string
	RegenerateRate   float64 // regenerations per second per connection
	RegenerateBurst  int
	RotationInterval time.Duration
	Clock            quartz.Clock
}

// Server represents the WebSocket server
type Server struct {
	addr        string
	opts        Options
	upgrader    websocket.Upgrader
	session     *session.Session
	rotator     *render.Rotator
	clock       quartz.Clock
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	startOnce   sync.Once
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server fed by sess
func NewServer(addr string, sess *session.Session, logger *log.Logger, opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.RotationInterval <= 0 {
		opts.RotationInterval = time.Second / 30
	}
	if opts.RegenerateBurst < 1 {
		opts.RegenerateBurst = 1
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		addr:        addr,
		opts:        opts,
		session:     sess,
		rotator:     render.NewRotator(opts.Clock),
		clock:       opts.Clock,
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
	}
	sess.OnRegenerate(s.broadcastCloud)
	return s
}

// Handler returns the HTTP handler serving /ws and the JSON API. The
// connection and rotation loops start on first use.
func (s *Server) Handler() http.Handler {
	s.startOnce.Do(func() {
		go s.run()
		go s.rotate()
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/cloud", s.handleCloud)
	mux.HandleFunc("GET /api/presets", s.handlePresets)

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts down the listener and closes every viewer connection
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// ConnectionCount returns the number of connected viewers
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Viewer connected", "id", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Viewer disconnected", "id", conn.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// rotate broadcasts the auto-rotation angle while auto-rotate is on
func (s *Server) rotate() {
	ticker := s.clock.NewTicker(s.opts.RotationInterval, "server", "rotate")
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.rotationTick()

		case <-s.ctx.Done():
			return
		}
	}
}

// rotationTick syncs the rotator with the view settings and, when rotation
// is on, sends the current angle to every viewer.
func (s *Server) rotationTick() {
	view := s.session.Settings().View
	s.rotator.Configure(view.AutoRotate, view.RotateSpeed)
	if !s.rotator.Enabled() {
		return
	}
	msg, err := NewMessage(MessageTypeRotation, RotationData{Angle: s.rotator.Angle()})
	if err != nil {
		s.logger.Error("Failed to create rotation message", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	limiter := rate.NewLimiter(rate.Limit(s.opts.RegenerateRate), s.opts.RegenerateBurst)
	client := NewConnection(conn, s.session, limiter, s.logger)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()
	s.greet(client)

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// greet sends the hello message and the current cloud, if any
func (s *Server) greet(c *Connection) {
	settings := s.session.Settings()
	hello, err := NewMessage(MessageTypeHello, HelloData{
		ConnectionID: c.ID(),
		Presets:      s.session.Registry().Names(),
		Settings:     settings,
	})
	if err != nil {
		s.logger.Error("Failed to create hello message", "error", err)
		return
	}
	_ = c.SendMessage(hello)

	if cloud := s.session.Cloud(); cloud != nil {
		msg, err := cloudMessage(cloud, settings.View)
		if err != nil {
			s.logger.Error("Failed to create cloud message", "error", err)
			return
		}
		_ = c.SendMessage(msg)
	}
}

func cloudMessage(cloud *galaxy.Cloud, view preset.View) (*Message, error) {
	return NewMessage(MessageTypeCloud, CloudData{Document: export.NewDocument(cloud), View: view})
}

// broadcastCloud is the session listener pushing every new cloud to viewers
func (s *Server) broadcastCloud(cloud *galaxy.Cloud, settings preset.Settings) {
	msg, err := cloudMessage(cloud, settings.View)
	if err != nil {
		s.logger.Error("Failed to create cloud message", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to viewer", "error", err, "id", conn.ID())
			continue
		}
		count++
	}
	if msg.Type != MessageTypeRotation {
		s.logger.Debug("Broadcast message", "type", msg.Type, "recipients", count)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleCloud serves the current cloud as JSON
func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	cloud := s.session.Cloud()
	if cloud == nil {
		http.Error(w, "no cloud generated yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, export.NewDocument(cloud))
}

// handlePresets lists the registered presets with their overrides
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.Registry().All())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
