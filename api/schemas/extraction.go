// File: api/schemas/extraction.go
// Types describing one extraction job: its configuration as loaded from the
// job file, and the terminal result written back out.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InteractionType enumerates the supported pre-extraction interactions.
// The set is closed; unknown kinds are rejected when the job file is parsed.
type InteractionType string

const (
	InteractionClick  InteractionType = "click"
	InteractionFill   InteractionType = "fill"
	InteractionWait   InteractionType = "wait"
	InteractionScroll InteractionType = "scroll"
)

// Interaction is one pre-extraction step executed after navigation.
type Interaction struct {
	Type     InteractionType `json:"type"`
	Selector string          `json:"selector,omitempty"`
	Value    string          `json:"value,omitempty"`
	// DurationMS applies to wait interactions.
	DurationMS int `json:"duration,omitempty"`
	// Direction applies to scroll interactions, which are accepted but not
	// executed (the scroll capability is not implemented).
	Direction string `json:"direction,omitempty"`
}

// Validate rejects malformed or unknown interactions at configuration-load
// time rather than silently skipping them during the job.
func (i Interaction) Validate() error {
	switch i.Type {
	case InteractionClick:
		if strings.TrimSpace(i.Selector) == "" {
			return fmt.Errorf("click interaction requires a selector")
		}
	case InteractionFill:
		if strings.TrimSpace(i.Selector) == "" {
			return fmt.Errorf("fill interaction requires a selector")
		}
	case InteractionWait:
		if i.DurationMS < 0 {
			return fmt.Errorf("wait interaction duration must not be negative")
		}
	case InteractionScroll:
		// Accepted as a no-op.
	default:
		return fmt.Errorf("unknown interaction type %q", i.Type)
	}
	return nil
}

// JobOptions controls the pagination loop.
type JobOptions struct {
	Pagination bool `json:"pagination"`
	MaxPages   int  `json:"max_pages"`
}

// JobConfig is one extraction job as loaded from the job file. Schema is kept
// as raw JSON so the declared key order survives decoding; the orchestrator
// relies on it to locate the designated array field.
type JobConfig struct {
	URL          string          `json:"url"`
	Schema       json.RawMessage `json:"schema"`
	Interactions []Interaction   `json:"interactions,omitempty"`
	Options      JobOptions      `json:"options"`
}

// Validate checks required fields, validates every interaction, and applies
// the max_pages default of 1.
func (c *JobConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("job config requires a url")
	}
	if len(c.Schema) == 0 {
		return fmt.Errorf("job config requires a schema")
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(c.Schema, &probe); err != nil {
		return fmt.Errorf("job schema must be a JSON object: %w", err)
	}
	for idx, interaction := range c.Interactions {
		if err := interaction.Validate(); err != nil {
			return fmt.Errorf("interaction %d: %w", idx, err)
		}
	}
	if c.Options.MaxPages <= 0 {
		c.Options.MaxPages = 1
	}
	return nil
}

// QualityReport summarizes the completeness of an extraction.
type QualityReport struct {
	TotalItems     int      `json:"total_items"`
	CompleteItems  int      `json:"complete_items"`
	CompletionRate float64  `json:"completion_rate"`
	MissingFields  []string `json:"missing_fields"`
	Errors         []string `json:"errors"`
}

// EmptyQualityReport returns the all-zero report used for empty extractions
// and for jobs that failed before scoring.
func EmptyQualityReport() QualityReport {
	return QualityReport{MissingFields: []string{}, Errors: []string{}}
}

// Extraction job terminal statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ExtractionResult is the terminal, immutable outcome of one job.
type ExtractionResult struct {
	Status        string                 `json:"status"`
	Data          map[string]interface{} `json:"data"`
	QualityReport QualityReport          `json:"quality_report"`
	Error         string                 `json:"error,omitempty"`
}
