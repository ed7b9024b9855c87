package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/bus"
	"github.com/Dream2Nightmare/brainbot/internal/dream"
	"github.com/Dream2Nightmare/brainbot/internal/scan"
)

const maxMessageSize = 64 * 1024

const writeTimeout = 10 * time.Second

// Server is the local WebSocket control surface.
type Server struct {
	addr    string
	bot     *agent.Bot
	engine  *dream.Engine
	scanner *scan.Service

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu         sync.Mutex
	clients    map[string]*client
	running    bool
	listenAddr string
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a gateway bound to addr.
func NewServer(addr string, bot *agent.Bot, engine *dream.Engine, scanner *scan.Service) *Server {
	return &Server{
		addr:    addr,
		bot:     bot,
		engine:  engine,
		scanner: scanner,
		upgrader: websocket.Upgrader{
			// Local-only surface; the listener binds loopback.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// Start begins listening. The bus subscription forwards every event to all
// connected clients.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	s.bot.Events().Subscribe("gateway", s.broadcast)
	s.running = true
	s.listenAddr = ln.Addr().String()

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("gateway serve failed", "error", err)
		}
	}()

	slog.Info("gateway started", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the listener down and disconnects every client.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.bot.Events().Unsubscribe("gateway")
	srv := s.httpSrv
	for _, c := range s.clients {
		close(c.send)
	}
	s.clients = make(map[string]*client)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("gateway shutdown", "error", err)
	}
	slog.Info("gateway stopped")
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	slog.Info("gateway client connected", "client", c.id)

	go s.writePump(c)
	s.readPump(r.Context(), c)
}

func (s *Server) readPump(ctx context.Context, c *client) {
	defer s.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req RequestFrame
		if err := json.Unmarshal(data, &req); err != nil {
			s.send(c, NewErrorResponse("", "malformed frame"))
			continue
		}
		s.handle(ctx, c, &req)
	}
}

func (s *Server) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.Close()
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
	slog.Info("gateway client disconnected", "client", c.id)
}

func (s *Server) handle(ctx context.Context, c *client, req *RequestFrame) {
	switch req.Method {
	case MethodAsk:
		var params struct {
			Text string `json:"text"`
		}
		if req.Params != nil {
			json.Unmarshal(req.Params, &params)
		}
		if params.Text == "" {
			s.send(c, NewErrorResponse(req.ID, "ask requires text"))
			return
		}
		answer := s.bot.Respond(ctx, params.Text)
		s.send(c, NewOKResponse(req.ID, map[string]string{"answer": answer}))

	case MethodStatus:
		s.send(c, NewOKResponse(req.ID, struct {
			agent.Status
			Scanning bool `json:"scanning"`
		}{s.bot.Status(), s.scanner.IsRunning()}))

	case MethodDream:
		report, err := s.engine.Dream(ctx)
		if err != nil {
			s.send(c, NewErrorResponse(req.ID, err.Error()))
			return
		}
		s.send(c, NewOKResponse(req.ID, report))

	case MethodScan:
		ingested := s.scanner.Cycle(ctx)
		s.send(c, NewOKResponse(req.ID, map[string]int{"ingested": ingested}))

	default:
		slog.Warn("unknown gateway method", "method", req.Method, "client", c.id)
		s.send(c, NewErrorResponse(req.ID, "unknown method: "+req.Method))
	}
}

// send queues one frame for a client. The membership check and the channel
// send happen under the same mutex that closes client channels, so a frame is
// never sent on a channel that Stop or disconnect has already closed.
func (s *Server) send(c *client, frame *ResponseFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to marshal response frame", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("gateway client send buffer full", "client", c.id)
	}
}

// broadcast pushes one bus event to every connected client.
func (s *Server) broadcast(ev bus.Event) {
	data, err := json.Marshal(EventFrame{Type: FrameTypeEvent, Event: string(ev.Type), Payload: ev})
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Addr returns the bound listen address once started, the configured one
// otherwise.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr != "" {
		return s.listenAddr
	}
	return s.addr
}
