package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJobConfig() JobConfig {
	return JobConfig{
		URL:    "https://shop.example/catalog",
		Schema: json.RawMessage(`{"products": [{"name": "string"}]}`),
	}
}

func TestJobConfig_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		job := validJobConfig()
		require.NoError(t, job.Validate())
		assert.Equal(t, 1, job.Options.MaxPages, "max_pages must default to 1")
	})

	t.Run("MissingURL", func(t *testing.T) {
		job := validJobConfig()
		job.URL = "  "
		assert.ErrorContains(t, job.Validate(), "url")
	})

	t.Run("MissingSchema", func(t *testing.T) {
		job := validJobConfig()
		job.Schema = nil
		assert.ErrorContains(t, job.Validate(), "schema")
	})

	t.Run("SchemaNotAnObject", func(t *testing.T) {
		job := validJobConfig()
		job.Schema = json.RawMessage(`["not", "an", "object"]`)
		assert.ErrorContains(t, job.Validate(), "JSON object")
	})

	t.Run("ExplicitMaxPagesKept", func(t *testing.T) {
		job := validJobConfig()
		job.Options.MaxPages = 5
		require.NoError(t, job.Validate())
		assert.Equal(t, 5, job.Options.MaxPages)
	})

	t.Run("BadInteractionRejected", func(t *testing.T) {
		job := validJobConfig()
		job.Interactions = []Interaction{{Type: "hover", Selector: "#x"}}
		assert.ErrorContains(t, job.Validate(), "interaction 0")
	})
}

func TestInteraction_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		interaction Interaction
		wantErr     bool
	}{
		{
			name:        "Click",
			interaction: Interaction{Type: InteractionClick, Selector: "#accept"},
		},
		{
			name:        "ClickWithoutSelector",
			interaction: Interaction{Type: InteractionClick},
			wantErr:     true,
		},
		{
			name:        "Fill",
			interaction: Interaction{Type: InteractionFill, Selector: "#q", Value: "x"},
		},
		{
			name:        "FillWithoutSelector",
			interaction: Interaction{Type: InteractionFill, Value: "x"},
			wantErr:     true,
		},
		{
			name:        "Wait",
			interaction: Interaction{Type: InteractionWait, DurationMS: 500},
		},
		{
			name:        "NegativeWait",
			interaction: Interaction{Type: InteractionWait, DurationMS: -1},
			wantErr:     true,
		},
		{
			name:        "Scroll",
			interaction: Interaction{Type: InteractionScroll, Direction: "bottom"},
		},
		{
			name:        "UnknownType",
			interaction: Interaction{Type: "hover"},
			wantErr:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.interaction.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmptyQualityReport(t *testing.T) {
	report := EmptyQualityReport()

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	// Empty slices serialize as [], never null.
	assert.JSONEq(t,
		`{"total_items": 0, "complete_items": 0, "completion_rate": 0, "missing_fields": [], "errors": []}`,
		string(raw))
}

func TestExtractionResult_ErrorOmittedOnSuccess(t *testing.T) {
	result := ExtractionResult{
		Status:        StatusSuccess,
		Data:          map[string]interface{}{"products": []interface{}{}},
		QualityReport: EmptyQualityReport(),
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"error"`)
}
