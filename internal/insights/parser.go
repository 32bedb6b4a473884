package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/wealthsense/internal/domain"
)

// Response keys, matched case-sensitively.
const (
	keySummary     = "summary"
	keySuggestions = "suggestions"
	keyRiskLevel   = "riskLevel"
)

// insightPayload mirrors the response schema. Pointer fields let a missing
// key be told apart from an empty value.
type insightPayload struct {
	Summary     *string
	Suggestions *[]string
	RiskLevel   *string
}

// ParseInsight decodes a model response. Anything other than an object with
// exactly summary, suggestions and riskLevel fails with ErrSchema.
func ParseInsight(raw string) (domain.SpendingInsight, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return domain.SpendingInsight{}, fmt.Errorf("%w: empty response", ErrSchema)
	}

	p, err := decodePayload(clean)
	if err != nil {
		return domain.SpendingInsight{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	switch {
	case p.Summary == nil:
		return domain.SpendingInsight{}, fmt.Errorf("%w: missing summary", ErrSchema)
	case p.Suggestions == nil:
		return domain.SpendingInsight{}, fmt.Errorf("%w: missing suggestions", ErrSchema)
	case p.RiskLevel == nil:
		return domain.SpendingInsight{}, fmt.Errorf("%w: missing riskLevel", ErrSchema)
	}

	summary := strings.TrimSpace(*p.Summary)
	if summary == "" {
		return domain.SpendingInsight{}, fmt.Errorf("%w: empty summary", ErrSchema)
	}

	suggestions := make([]string, 0, len(*p.Suggestions))
	for i, s := range *p.Suggestions {
		s = strings.TrimSpace(s)
		if s == "" {
			return domain.SpendingInsight{}, fmt.Errorf("%w: suggestion %d is empty", ErrSchema, i)
		}
		suggestions = append(suggestions, s)
	}
	if len(suggestions) == 0 {
		return domain.SpendingInsight{}, fmt.Errorf("%w: no suggestions", ErrSchema)
	}

	level, err := domain.ParseRiskLevel(*p.RiskLevel)
	if err != nil {
		return domain.SpendingInsight{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	return domain.SpendingInsight{
		Summary:     summary,
		Suggestions: suggestions,
		RiskLevel:   level,
	}, nil
}

// decodePayload walks the top-level object key by key. encoding/json alone
// folds key case and lets a repeated key overwrite the first, so unknown
// spellings and duplicates are rejected here.
func decodePayload(clean string) (insightPayload, error) {
	var p insightPayload
	dec := json.NewDecoder(strings.NewReader(clean))

	tok, err := dec.Token()
	if err != nil {
		return p, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return p, errors.New("response is not a JSON object")
	}

	seen := make(map[string]bool, 3)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return p, err
		}
		key, _ := tok.(string)
		if seen[key] {
			return p, fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = true

		var target any
		switch key {
		case keySummary:
			p.Summary = new(string)
			target = p.Summary
		case keySuggestions:
			p.Suggestions = new([]string)
			target = p.Suggestions
		case keyRiskLevel:
			p.RiskLevel = new(string)
			target = p.RiskLevel
		default:
			return p, fmt.Errorf("unknown field %q", key)
		}
		if err := dec.Decode(target); err != nil {
			return p, fmt.Errorf("field %q: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return p, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return p, errors.New("trailing data after object")
	}
	return p, nil
}

// cleanModelJSON drops Markdown fences and any prose around the outermost
// JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = strings.TrimSpace(s[idx+1:])
		if end := strings.LastIndex(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
