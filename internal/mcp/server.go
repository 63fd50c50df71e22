// Package mcp implements the stdio MCP transport: newline-delimited
// JSON-RPC 2.0 requests on stdin, responses on stdout.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/soyeahso/octomcp/internal/logging"
	"github.com/soyeahso/octomcp/internal/tools"
	"github.com/soyeahso/octomcp/internal/version"
)

const protocolVersion = "2024-11-05"

// JSON-RPC types

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

type Capabilities struct {
	Tools map[string]interface{} `json:"tools"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ListToolsResult struct {
	Tools []tools.Tool `json:"tools"`
}

// Server speaks the protocol over a reader/writer pair and hands every
// tools/call to the dispatcher. Stdout belongs to the protocol, so all
// logging goes through the injected logger (a file sink in practice).
type Server struct {
	dispatcher *tools.Dispatcher
	in         io.Reader
	out        io.Writer
	mu         sync.Mutex // serializes writes to out
	log        *logging.Logger
}

// NewServer creates a stdio server over the given streams.
func NewServer(dispatcher *tools.Dispatcher, in io.Reader, out io.Writer, log *logging.Logger) *Server {
	return &Server{dispatcher: dispatcher, in: in, out: out, log: log.Sub("mcp")}
}

// Run reads requests until EOF or context cancellation. Each request is
// answered before the next is read; callers that want concurrency issue
// overlapping requests over the gateway instead.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.log.Info().Msg("listening for requests")

	// Scan blocks in the reader goroutine; the select below lets a
	// cancelled context stop the server even while stdin stays open.
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			errc <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("context cancelled, shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					s.log.Error().Err(err).Msg("error reading input")
					return err
				default:
				}
				s.log.Info().Msg("input closed, shutting down")
				return nil
			}
			if line == "" {
				continue
			}
			s.handleRequest(ctx, line)
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, line string) {
	var req JSONRPCRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.log.Warn().Err(err).Msg("parse error")
		s.sendError(nil, -32700, "Parse error", err.Error())
		return
	}

	s.log.Debug().Str("method", req.Method).Msg("handling request")

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleListTools(req)
	case "tools/call":
		s.handleCallTool(ctx, req)
	case "notifications/initialized":
		// no-op
	default:
		s.sendError(req.ID, -32601, "Method not found", fmt.Sprintf("Unknown method: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req JSONRPCRequest) {
	s.sendResponse(req.ID, InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    Capabilities{Tools: map[string]interface{}{}},
		ServerInfo:      ServerInfo{Name: "octomcp", Version: version.Version},
	})
}

func (s *Server) handleListTools(req JSONRPCRequest) {
	s.sendResponse(req.ID, ListToolsResult{Tools: s.dispatcher.Registry().All()})
}

func (s *Server) handleCallTool(ctx context.Context, req JSONRPCRequest) {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params", err.Error())
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, terr := s.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
	if terr != nil {
		s.sendToolError(req.ID, terr)
		return
	}
	s.sendResponse(req.ID, ToolResult{
		Content: []ContentItem{{Type: "text", Text: string(result)}},
	})
}

// sendToolError reports a failed invocation as a tool result, not a
// protocol error: the call itself was well-formed JSON-RPC.
func (s *Server) sendToolError(id interface{}, terr *tools.Error) {
	s.sendResponse(id, ToolResult{
		Content: []ContentItem{{Type: "text", Text: terr.Error()}},
		IsError: true,
	})
}

func (s *Server) sendResponse(id interface{}, result interface{}) {
	s.write(JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id interface{}, code int, message string, data interface{}) {
	s.write(JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message, Data: data}})
}

func (s *Server) write(resp JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error().Err(err).Msg("error marshaling response")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, string(data))
}
