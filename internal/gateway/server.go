// Package gateway is the optional HTTP/WebSocket front over the tool
// dispatcher. It serves the same tool surface as the stdio transport for
// callers that prefer a network socket.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/octomcp/internal/config"
	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/mcp"
	"github.com/soyeahso/octomcp/internal/tools"
	"github.com/soyeahso/octomcp/internal/version"
)

// Server is the gateway HTTP + WebSocket server.
type Server struct {
	cfg        config.Config
	auth       ResolvedAuth
	dispatcher *tools.Dispatcher
	log        *logging.Logger

	startedAt   time.Time
	httpServer  *http.Server
	upgrader    websocket.Upgrader
	authLimiter *authRateLimiter
}

// New creates a gateway server over an existing dispatcher.
func New(cfg config.Config, dispatcher *tools.Dispatcher, log *logging.Logger) *Server {
	return &Server{
		cfg:         cfg,
		auth:        ResolveAuth(cfg.Gateway.Auth),
		dispatcher:  dispatcher,
		log:         log.Sub("gateway"),
		authLimiter: newAuthRateLimiter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Gateway)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Gateway.Bind != "loopback" {
		s.log.Warn().Msg("gateway is not loopback-only — tokens travel in cleartext without a TLS proxy in front")
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Gateway.Bind).
		Str("auth", s.auth.Mode).
		Msg("gateway server ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// routes wires up the HTTP surface.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/tools", s.handleTools)
	mux.HandleFunc("/v1/call", s.handleCall)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

// bearerToken extracts the presented token from the Authorization header
// or, for WebSocket clients that cannot set headers, the token query param.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// requireAuth authorizes the request, writing the failure response itself.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if !s.authLimiter.allow(r.RemoteAddr) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("rate limited — too many failed auth attempts")
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return false
	}
	res := Authorize(s.auth, bearerToken(r))
	if !res.OK {
		s.authLimiter.recordFailure(r.RemoteAddr)
		s.log.Warn().Str("remote", r.RemoteAddr).Str("reason", res.Reason).Msg("unauthorized")
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": res.Reason})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": version.Version,
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAuth(w, r) {
		return
	}
	all := s.dispatcher.Registry().All()
	writeJSON(w, http.StatusOK, map[string]any{"tools": all, "count": len(all)})
}

type callRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// callError is the error envelope for /v1/call. Status and body only
// exist for upstream failures, so validation errors omit them.
type callError struct {
	Kind    tools.Kind `json:"kind"`
	Message string     `json:"message"`
	Status  int        `json:"status,omitempty"`
	Body    string     `json:"body,omitempty"`
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAuth(w, r) {
		return
	}

	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}

	result, terr := s.dispatcher.Dispatch(r.Context(), req.Name, req.Arguments)
	if terr != nil {
		writeJSON(w, httpStatusFor(terr), map[string]any{
			"error": callError{
				Kind:    terr.Kind,
				Message: terr.Message,
				Status:  terr.Status,
				Body:    terr.Body,
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": json.RawMessage(result)})
}

// httpStatusFor maps tool error kinds onto gateway response codes.
func httpStatusFor(terr *tools.Error) int {
	switch terr.Kind {
	case tools.KindUnknownTool:
		return http.StatusNotFound
	case tools.KindUpstreamFailure, tools.KindUpstreamAmbiguous:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// handleWebSocket upgrades the connection and speaks the same JSON-RPC
// frames as the stdio transport, one message per frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authLimiter.allow(r.RemoteAddr) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}
	res := Authorize(s.auth, bearerToken(r))
	if !res.OK {
		s.authLimiter.recordFailure(r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(4 * 1024 * 1024) // 4MB

	connID := uuid.NewString()
	s.log.Debug().Str("connId", connID).Str("remote", r.RemoteAddr).Msg("websocket connected")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("connId", connID).Msg("client closed connection")
			} else {
				s.log.Warn().Err(err).Str("connId", connID).Msg("read error")
			}
			return
		}
		resp := s.handleFrame(r.Context(), msg)
		if resp == nil {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn().Err(err).Str("connId", connID).Msg("write error")
			return
		}
	}
}

// handleFrame answers a single JSON-RPC frame. Notifications return nil.
func (s *Server) handleFrame(ctx context.Context, msg []byte) *mcp.JSONRPCResponse {
	var req mcp.JSONRPCRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return &mcp.JSONRPCResponse{JSONRPC: "2.0", Error: &mcp.RPCError{Code: -32700, Message: "Parse error", Data: err.Error()}}
	}

	switch req.Method {
	case "initialize":
		return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: mcp.InitializeResult{
			ProtocolVersion: "2024-11-05",
			Capabilities:    mcp.Capabilities{Tools: map[string]interface{}{}},
			ServerInfo:      mcp.ServerInfo{Name: "octomcp", Version: version.Version},
		}}
	case "tools/list":
		return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: mcp.ListToolsResult{Tools: s.dispatcher.Registry().All()}}
	case "tools/call":
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: -32602, Message: "Invalid params", Data: err.Error()}}
		}
		if params.Arguments == nil {
			params.Arguments = map[string]any{}
		}
		result, terr := s.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
		if terr != nil {
			return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: mcp.ToolResult{
				Content: []mcp.ContentItem{{Type: "text", Text: terr.Error()}},
				IsError: true,
			}}
		}
		return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: mcp.ToolResult{
			Content: []mcp.ContentItem{{Type: "text", Text: string(result)}},
		}}
	case "notifications/initialized":
		return nil
	default:
		return &mcp.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: &mcp.RPCError{Code: -32601, Message: "Method not found", Data: "Unknown method: " + req.Method}}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
