package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// KBReference is one knowledge base citation extracted by the model.
type KBReference struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

// StructuredResponse is the declared result shape both structured tasks
// (answer generation and classification assistance) must conform to. A
// malformed result aborts the turn; it is never silently repaired.
type StructuredResponse struct {
	Answer         string        `json:"answer"`
	KBReferences   []KBReference `json:"kb_references"`
	Confidence     float64       `json:"confidence"`
	Tier           string        `json:"tier"`
	Severity       string        `json:"severity"`
	NeedEscalation bool          `json:"needEscalation"`
}

// CompleteStructured runs a chat completion and parses the reply as a
// StructuredResponse. Models often wrap JSON in markdown fences or leading
// prose, so the first balanced JSON object is extracted before parsing.
func CompleteStructured(ctx context.Context, provider LLMProvider, history []Message, options ...Option) (*StructuredResponse, error) {
	raw, err := provider.Chat(ctx, history, options...)
	if err != nil {
		return nil, fmt.Errorf("llm completion failed: %w", err)
	}

	jsonText, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("llm returned no parsable JSON object: %w", err)
	}

	var resp StructuredResponse
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return nil, fmt.Errorf("llm structured output malformed: %w", err)
	}

	if resp.Confidence < 0 {
		resp.Confidence = 0
	}
	if resp.Confidence > 1 {
		resp.Confidence = 1
	}

	return &resp, nil
}

// extractJSONObject returns the first balanced top-level JSON object in the
// text. Braces inside JSON strings are skipped.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", fmt.Errorf("no opening brace in %q", truncate(text, 80))
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in %q", truncate(text, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
