// File: internal/mcp/server.go
// Package mcp implements the line-delimited JSON protocol surface. One
// request per line arrives on the reader, one response per line leaves on
// the writer; everything else (logs included) stays off the writer.
package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/tools"
)

const (
	serverName      = "webharvest"
	protocolVariant = "stdio"

	// maxLineBytes bounds a single request line. Tool arguments can carry
	// full page HTML, so the ceiling is generous.
	maxLineBytes = 10 * 1024 * 1024
)

// Server dispatches protocol requests to the tool execution service.
type Server struct {
	service *tools.Service
	version string
	logger  *zap.Logger
}

// NewServer wires the dispatcher to a tool service.
func NewServer(service *tools.Service, version string, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		version: version,
		logger:  logger.Named("mcp"),
	}
}

// Serve reads newline-delimited requests from r until EOF or context
// cancellation, writing exactly one response line per request. Malformed
// lines produce an error response and never stop the loop.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)

	s.logger.Info("Server ready.",
		zap.String("protocol", protocolVariant), zap.String("version", s.version))

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.dispatch(ctx, line)
		if err := s.writeResponse(out, resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request stream: %w", err)
	}
	s.logger.Info("Input stream closed, shutting down.")
	return nil
}

func (s *Server) dispatch(ctx context.Context, line []byte) (resp schemas.Response) {
	var req schemas.Request
	// Handlers are not supposed to panic, but a single bad request must
	// never take the whole session down with it.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Request handler panicked.", zap.Any("panic", rec))
			resp = schemas.Response{
				ID: req.ID,
				Error: &schemas.ErrorPayload{
					Code:    schemas.CodeInternalError,
					Message: fmt.Sprintf("Internal error handling request: %v", rec),
				},
			}
		}
	}()

	if err := json.Unmarshal(line, &req); err != nil || req.Method == "" {
		detail := "missing method"
		if err != nil {
			detail = err.Error()
		}
		s.logger.Warn("Rejected malformed request.", zap.String("detail", detail))
		return schemas.Response{
			ID: req.ID,
			Error: &schemas.ErrorPayload{
				Code:    schemas.CodeInternalError,
				Message: "Invalid request payload",
				Details: map[string]interface{}{"detail": detail},
			},
		}
	}

	switch req.Method {
	case "initialize":
		return schemas.Response{ID: req.ID, Result: schemas.ServerInfo{
			Name:     serverName,
			Version:  s.version,
			Protocol: protocolVariant,
			Tools:    s.service.Registry().Names(),
		}}

	case "tools/list":
		return schemas.Response{ID: req.ID, Result: map[string]interface{}{
			"tools": s.service.Registry().Descriptors(),
		}}

	case "tools/call":
		return s.handleToolCall(ctx, req)

	default:
		return schemas.Response{
			ID: req.ID,
			Error: &schemas.ErrorPayload{
				Code:    schemas.CodeInternalError,
				Message: fmt.Sprintf("Unknown method: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleToolCall(ctx context.Context, req schemas.Request) schemas.Response {
	var params schemas.ToolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return schemas.Response{
				ID: req.ID,
				Error: &schemas.ErrorPayload{
					Code:    schemas.CodeInternalError,
					Message: "Invalid tool call parameters",
					Details: map[string]interface{}{"detail": err.Error()},
				},
			}
		}
	}
	if params.Name == "" {
		return schemas.Response{
			ID: req.ID,
			Error: &schemas.ErrorPayload{
				Code:    schemas.CodeInternalError,
				Message: "Tool name is required",
			},
		}
	}
	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}

	// Tool failures are not protocol failures: the envelope goes back in
	// the result field with ok=false.
	result := s.service.Call(ctx, params.Name, params.Arguments)
	return schemas.Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(out *bufio.Writer, resp schemas.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		// Marshaling our own response types should never fail; fall back
		// to a minimal hand-built error line so the client still gets one
		// response per request.
		s.logger.Error("Failed to marshal response.", zap.Error(err))
		payload = []byte(`{"id":null,"error":{"code":"INTERNAL_ERROR","message":"Failed to encode response"}}`)
	}
	if _, err := out.Write(payload); err != nil {
		return err
	}
	if err := out.WriteByte('\n'); err != nil {
		return err
	}
	return out.Flush()
}
