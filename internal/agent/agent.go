// File: internal/agent/agent.go
// Package agent orchestrates one extraction job: navigate, run the configured
// interactions, loop over pages extracting items with the completion model,
// then structure the items and score them.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/api/schemas"
	"github.com/sgrimault/webharvest/internal/config"
	"github.com/sgrimault/webharvest/internal/llmutil"
)

// noPagination is the sentinel the pagination prompt asks the model to
// return when no active next-page control exists.
const noPagination = "NO_PAGINATION"

// ToolCaller executes tools by name and returns the result envelope.
// *tools.Service satisfies it.
type ToolCaller interface {
	Call(ctx context.Context, name string, args map[string]interface{}) schemas.ToolResult
}

// Agent runs extraction jobs against a tool service and a completion model.
// An Agent is single-job: it tracks the page session created by its first
// navigation. Not safe for concurrent use.
type Agent struct {
	tools     ToolCaller
	llm       schemas.LLMClient
	cfg       config.ScrapeConfig
	logger    *zap.Logger
	sessionID string

	// sleep is replaceable so tests do not pay real settle waits.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates an agent for a single extraction job.
func New(tools ToolCaller, llm schemas.LLMClient, cfg config.ScrapeConfig, logger *zap.Logger) *Agent {
	return &Agent{
		tools:  tools,
		llm:    llm,
		cfg:    cfg,
		logger: logger.Named("agent"),
		sleep:  sleepContext,
	}
}

// Scrape executes the job and always returns a terminal result; failures are
// reported through the result status, never as a Go error.
func (a *Agent) Scrape(ctx context.Context, job schemas.JobConfig) schemas.ExtractionResult {
	if err := job.Validate(); err != nil {
		return errorResult(err)
	}

	a.logger.Info("Starting scraping job.", zap.String("url", job.URL))

	if _, err := a.callTool(ctx, "navigate", map[string]interface{}{"url": job.URL}); err != nil {
		a.logger.Error("Scraping job failed.", zap.Error(err))
		return errorResult(err)
	}
	a.logger.Info("Navigated to target.",
		zap.String("url", job.URL), zap.String("session_id", a.sessionID))

	a.runInteractions(ctx, job.Interactions)

	allItems := make([]map[string]interface{}, 0)
	for page := 1; page <= job.Options.MaxPages; page++ {
		a.logger.Info("Extracting data from page.", zap.Int("page", page))

		data, err := a.callTool(ctx, "get_html", nil)
		if err != nil {
			a.logger.Error("Scraping job failed.", zap.Error(err))
			return errorResult(err)
		}
		html, _ := data["html"].(string)

		items, err := a.extractItems(ctx, html, job.Schema)
		if err != nil {
			a.logger.Error("Scraping job failed.", zap.Error(err))
			return errorResult(err)
		}
		allItems = append(allItems, items...)

		if !job.Options.Pagination || page >= job.Options.MaxPages {
			break
		}
		hasNext, err := a.nextPage(ctx, html)
		if err != nil {
			a.logger.Error("Scraping job failed.", zap.Error(err))
			return errorResult(err)
		}
		if !hasNext {
			a.logger.Info("No more pages to scrape.")
			break
		}
	}

	structured := structureData(allItems, job.Schema)

	return schemas.ExtractionResult{
		Status:        schemas.StatusSuccess,
		Data:          structured,
		QualityReport: Analyze(allItems),
	}
}

// runInteractions executes the configured pre-extraction steps. Individual
// failures are logged and skipped; a popup that never appeared must not sink
// the job.
func (a *Agent) runInteractions(ctx context.Context, interactions []schemas.Interaction) {
	for _, interaction := range interactions {
		switch interaction.Type {
		case schemas.InteractionClick:
			if _, err := a.callTool(ctx, "click", map[string]interface{}{"selector": interaction.Selector}); err != nil {
				a.logger.Warn("Click interaction failed, continuing.",
					zap.String("selector", interaction.Selector), zap.Error(err))
				continue
			}
			a.logger.Info("Clicked element.", zap.String("selector", interaction.Selector))

		case schemas.InteractionFill:
			if _, err := a.callTool(ctx, "fill", map[string]interface{}{
				"selector": interaction.Selector,
				"value":    interaction.Value,
			}); err != nil {
				a.logger.Warn("Fill interaction failed, continuing.",
					zap.String("selector", interaction.Selector), zap.Error(err))
				continue
			}
			a.logger.Info("Filled element.", zap.String("selector", interaction.Selector))

		case schemas.InteractionWait:
			duration := interaction.DurationMS
			if duration == 0 {
				duration = 1000
			}
			a.sleep(ctx, time.Duration(duration)*time.Millisecond)
			a.logger.Info("Waited.", zap.Int("duration_ms", duration))

		case schemas.InteractionScroll:
			a.logger.Warn("Scroll not implemented, skipping.",
				zap.String("direction", interaction.Direction))
		}
	}
}

// extractItems asks the model for items matching the schema. A transport or
// API failure is fatal; unparseable model output yields zero items with a
// warning so a flaky page does not abort a multi-page job.
func (a *Agent) extractItems(ctx context.Context, html string, schema json.RawMessage) ([]map[string]interface{}, error) {
	snippet := truncate(html, a.cfg.HTMLSnippetLimit)

	raw, err := a.llm.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   extractionPrompt(schema, snippet),
		Options: schemas.GenerationOptions{
			Temperature:     0,
			ForceJSONFormat: true,
			MaxTokens:       4096,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction completion failed: %w", err)
	}

	items, ok := parseItems(raw)
	if !ok {
		a.logger.Warn("Failed to parse completion output as JSON, extracting zero items.")
	}
	return items, nil
}

// nextPage asks the model for the next-page selector and clicks it. It
// returns false when the model answers the no-pagination sentinel, when the
// control is not visible or not clickable (the last-page signals), or when
// the click fails for any other reason.
func (a *Agent) nextPage(ctx context.Context, html string) (bool, error) {
	snippet := truncate(html, a.cfg.PaginationSnippetLimit)

	raw, err := a.llm.Generate(ctx, schemas.GenerationRequest{
		UserPrompt: paginationPrompt(snippet),
		Options: schemas.GenerationOptions{
			Temperature: 0,
			MaxTokens:   256,
		},
	})
	if err != nil {
		return false, fmt.Errorf("pagination completion failed: %w", err)
	}

	selector := llmutil.CleanSelector(raw)
	if selector == "" || selector == noPagination {
		return false, nil
	}

	a.logger.Info("Attempting pagination.", zap.String("selector", selector))

	if _, err := a.callTool(ctx, "click", map[string]interface{}{"selector": selector}); err != nil {
		var toolErr *schemas.ToolError
		if errors.As(err, &toolErr) &&
			(toolErr.Code == schemas.CodeElementNotVisible || toolErr.Code == schemas.CodeElementNotClickable) {
			a.logger.Info("Pagination element not accessible, likely on last page.",
				zap.String("code", string(toolErr.Code)))
			return false, nil
		}
		a.logger.Warn("Failed to navigate to next page.", zap.Error(err))
		return false, nil
	}

	// Give the next page time to render before the next HTML pull.
	a.sleep(ctx, a.cfg.PaginationSettleWait)
	return true, nil
}

// callTool invokes a tool through the service envelope, threading the
// agent's session id into every call after the first and converting failure
// envelopes back into errors.
func (a *Agent) callTool(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	if a.sessionID != "" {
		args["session_id"] = a.sessionID
	}

	result := a.tools.Call(ctx, name, args)
	if !result.OK {
		code := schemas.CodeInternalError
		message := "Tool call failed"
		var details map[string]interface{}
		if result.Error != nil {
			if result.Error.Code != "" {
				code = result.Error.Code
			}
			if result.Error.Message != "" {
				message = result.Error.Message
			}
			details = result.Error.Details
		}
		return nil, &schemas.ToolError{Code: code, Message: message, Details: details}
	}

	if result.SessionID != "" {
		a.sessionID = result.SessionID
	}
	return result.Data, nil
}

// parseItems accepts the shapes the model actually produces: the requested
// {"items": [...]} wrapper, an object whose first array value holds the
// items, a bare object treated as a single item, or a bare array. The second
// return reports whether any JSON was recovered at all.
func parseItems(raw string) ([]map[string]interface{}, bool) {
	if obj := llmutil.ExtractObject(raw); obj != "" {
		var parsed map[string]interface{}
		if err := jsoniter.UnmarshalFromString(obj, &parsed); err == nil {
			if items, ok := parsed["items"].([]interface{}); ok {
				return coerceItems(items), true
			}
			keys := make([]string, 0, len(parsed))
			for k := range parsed {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if items, ok := parsed[k].([]interface{}); ok {
					return coerceItems(items), true
				}
			}
			return []map[string]interface{}{parsed}, true
		}
	}
	if arr := llmutil.ExtractArray(raw); arr != "" {
		var items []interface{}
		if err := jsoniter.UnmarshalFromString(arr, &items); err == nil {
			return coerceItems(items), true
		}
	}
	return nil, false
}

func coerceItems(values []interface{}) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(values))
	for _, v := range values {
		if item, ok := v.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

// structureData wraps the items under the schema's designated array field
// and, when the schema declares a metadata key, adds extraction metadata.
func structureData(items []map[string]interface{}, schema json.RawMessage) map[string]interface{} {
	arrayField, hasMetadata := schemaShape(schema)
	if arrayField == "" {
		arrayField = "items"
	}

	data := map[string]interface{}{arrayField: items}
	if hasMetadata {
		data["metadata"] = map[string]interface{}{
			"extracted_at": time.Now().UTC().Format(time.RFC3339),
			"item_count":   len(items),
		}
	}
	return data
}

// schemaShape walks the schema's top-level keys in declared order and
// reports the first key whose value is an array, plus whether a metadata key
// is declared. The raw form is walked with a token decoder because decoding
// into a map would lose key order.
func schemaShape(schema json.RawMessage) (arrayField string, hasMetadata bool) {
	dec := json.NewDecoder(bytes.NewReader(schema))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", false
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return arrayField, hasMetadata
		}
		key, ok := keyTok.(string)
		if !ok {
			return arrayField, hasMetadata
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return arrayField, hasMetadata
		}
		if key == "metadata" {
			hasMetadata = true
		}
		trimmed := bytes.TrimLeft(value, " \t\r\n")
		if arrayField == "" && len(trimmed) > 0 && trimmed[0] == '[' {
			arrayField = key
		}
	}
	return arrayField, hasMetadata
}

func errorResult(err error) schemas.ExtractionResult {
	return schemas.ExtractionResult{
		Status:        schemas.StatusError,
		Data:          map[string]interface{}{},
		QualityReport: schemas.EmptyQualityReport(),
		Error:         err.Error(),
	}
}

func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
