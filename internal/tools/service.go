// File: internal/tools/service.go
package tools

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
)

// Service executes registered tools and wraps every outcome, success or
// failure, in the uniform result envelope. Callers never receive a Go error
// from Call; failures travel inside the envelope.
type Service struct {
	registry *Registry
	logger   *zap.Logger
}

// NewService creates the execution service around a populated registry.
func NewService(registry *Registry, logger *zap.Logger) *Service {
	return &Service{registry: registry, logger: logger.Named("tools")}
}

// Registry exposes the underlying registry for protocol-level listing.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Call runs the named tool with the given arguments and returns the result
// envelope. The envelope always carries the tool name, a UTC timestamp, and
// the wall-clock duration of the attempt.
func (s *Service) Call(ctx context.Context, name string, args map[string]interface{}) schemas.ToolResult {
	started := time.Now()

	def, ok := s.registry.Lookup(name)
	if !ok {
		err := schemas.NewToolError(schemas.CodeInternalError, fmt.Sprintf("Unknown tool: %s", name))
		return s.failure(name, argSessionID(args), err, started)
	}

	// Tools receive their own copy so a misbehaving runner cannot mutate
	// the caller's argument map.
	callArgs := make(map[string]interface{}, len(args))
	for k, v := range args {
		callArgs[k] = v
	}

	sessionID, data, err := s.invoke(ctx, def, callArgs)
	if sessionID == "" {
		sessionID = argSessionID(args)
	}
	if err != nil {
		return s.failure(name, sessionID, err, started)
	}

	duration := time.Since(started)
	fields := []zap.Field{
		zap.String("tool", name),
		zap.String("session_id", sessionID),
		zap.Bool("ok", true),
		zap.Duration("duration", duration),
	}
	if u, ok := data["current_url"].(string); ok && u != "" {
		fields = append(fields, zap.String("current_url", u))
	}
	s.logger.Info("tool_success", fields...)

	return schemas.ToolResult{
		OK:        true,
		Tool:      name,
		SessionID: sessionID,
		Data:      data,
		Meta:      resultMeta(started, duration),
	}
}

// invoke shields the service from panicking tool implementations.
func (s *Service) invoke(ctx context.Context, def *Definition, args map[string]interface{}) (sessionID string, data map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Tool panicked.",
				zap.String("tool", def.Name), zap.Any("panic", r))
			err = schemas.NewToolError(schemas.CodeInternalError,
				fmt.Sprintf("Tool %s panicked: %v", def.Name, r))
		}
	}()
	return def.Run(ctx, args)
}

func (s *Service) failure(name, sessionID string, err error, started time.Time) schemas.ToolResult {
	duration := time.Since(started)
	payload := schemas.ToErrorPayload(err)

	s.logger.Warn("tool_failure",
		zap.String("tool", name),
		zap.String("session_id", sessionID),
		zap.Bool("ok", false),
		zap.String("code", string(payload.Code)),
		zap.String("message", payload.Message),
		zap.Duration("duration", duration))

	return schemas.ToolResult{
		OK:        false,
		Tool:      name,
		SessionID: sessionID,
		Error:     payload,
		Meta:      resultMeta(started, duration),
	}
}

func resultMeta(started time.Time, duration time.Duration) schemas.ResultMeta {
	return schemas.ResultMeta{
		Timestamp:  started.UTC().Format(time.RFC3339),
		DurationMS: duration.Milliseconds(),
	}
}

// argSessionID echoes a caller-supplied session id into failure envelopes
// even when the tool never got far enough to resolve a session.
func argSessionID(args map[string]interface{}) string {
	if raw, ok := args["session_id"]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}
