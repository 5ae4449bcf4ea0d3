package llmutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "NoFence",
			input:    `{"items": []}`,
			expected: `{"items": []}`,
		},
		{
			name:     "FenceWithLanguageTag",
			input:    "```json\n{\"items\": []}\n```",
			expected: `{"items": []}`,
		},
		{
			name:     "FenceWithoutLanguageTag",
			input:    "```\n{\"items\": []}\n```",
			expected: `{"items": []}`,
		},
		{
			name:     "SurroundingWhitespace",
			input:    "  \n```json\n{\"a\": 1}\n```\n  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "EmptyInput",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripCodeFence(tc.input))
		})
	}
}

func TestExtractObject(t *testing.T) {
	t.Run("PlainObject", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, ExtractObject(`{"a": 1}`))
	})

	t.Run("SurroundedByProse", func(t *testing.T) {
		input := `Here is the data you asked for: {"items": [{"a": 1}]} Hope it helps!`
		assert.Equal(t, `{"items": [{"a": 1}]}`, ExtractObject(input))
	})

	t.Run("InsideFence", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, ExtractObject("```json\n{\"a\": 1}\n```"))
	})

	t.Run("NoObject", func(t *testing.T) {
		assert.Equal(t, "", ExtractObject("no json here"))
	})
}

func TestExtractArray(t *testing.T) {
	t.Run("PlainArray", func(t *testing.T) {
		assert.Equal(t, `[1, 2]`, ExtractArray(`[1, 2]`))
	})

	t.Run("SurroundedByProse", func(t *testing.T) {
		assert.Equal(t, `[{"a": 1}]`, ExtractArray(`The result: [{"a": 1}] done.`))
	})

	t.Run("NoArray", func(t *testing.T) {
		assert.Equal(t, "", ExtractArray("nothing"))
	})
}

func TestCleanSelector(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain",
			input:    "li.next a",
			expected: "li.next a",
		},
		{
			name:     "InlineBackticks",
			input:    "`li.next:not(.disabled) a`",
			expected: "li.next:not(.disabled) a",
		},
		{
			name:     "CodeFence",
			input:    "```css\na.next-page[href]\n```",
			expected: "a.next-page[href]",
		},
		{
			name:     "Whitespace",
			input:    "  .pagination-next  ",
			expected: ".pagination-next",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanSelector(tc.input))
		})
	}
}
