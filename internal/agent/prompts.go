// File: internal/agent/prompts.go
package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const extractionSystemPrompt = "You are a web scraping expert. Your task is to extract structured data from HTML according to a provided schema."

func extractionPrompt(schema json.RawMessage, htmlSnippet string) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, schema, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(schema)
	}

	return fmt.Sprintf(`TARGET SCHEMA:
%s

HTML CONTENT:
%s

INSTRUCTIONS:
1. Analyze the HTML to identify elements that match each field in the schema
2. Extract ALL items that match the schema structure (if it's a list of products, extract ALL products)
3. For each field, extract the appropriate data:
   - For "string" types: extract text content
   - For "number" types: extract numeric values (remove currency symbols, convert to float)
   - For "boolean" types: determine true/false based on presence/absence or text content
   - For nested objects: extract all nested fields
4. Return ONLY valid JSON matching the schema structure
5. If a field cannot be found, use null for that field
6. Ensure all extracted data is properly formatted and typed

OUTPUT FORMAT:
Return a JSON array of items matching the schema. For example, if the schema has a "products" array, return:
{"items": [item1, item2, ...]}

DO NOT include explanations, markdown formatting, or any text outside the JSON.
Start your response with { and end with }.
`, pretty.String(), htmlSnippet)
}

func paginationPrompt(htmlSnippet string) string {
	return fmt.Sprintf(`Analyze this HTML and identify the CSS selector for the "next page" button or link.

HTML:
%s

INSTRUCTIONS:
1. Look for common pagination patterns: "Next", "Suivant", "→", page numbers, etc.
2. The button/link MUST be active and clickable (not disabled or grayed out)
3. AVOID disabled elements - look for these signs:
   - Classes like "disabled", "inactive", "current"
   - Attributes like aria-disabled="true" or disabled
   - Links without href attribute or with href="#"
4. Prefer more specific selectors that target ONLY the active next button:
   - Good: li.next:not(.disabled) a, a.next-page[href], .pagination-next:not([disabled])
   - Bad: .next, a[rel="next"]
5. Return ONLY the CSS selector, nothing else (no backticks, no markdown)
6. If no ACTIVE pagination button is found (e.g., we're on the last page), return exactly: %s

Return only the selector or %s:`, htmlSnippet, noPagination, noPagination)
}
