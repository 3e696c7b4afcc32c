package loader

import (
	"encoding/json"
	"fmt"
)

// LoadQuestions extracts an ordered question list from JSON. Accepted
// shapes: {"questions": [...]}, {"question": "..."}, any object with a
// list value, or a bare list.
func LoadQuestions(data []byte) ([]string, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing questions JSON file: %w", err)
	}

	switch v := parsed.(type) {
	case map[string]any:
		if qs, ok := v["questions"].([]any); ok {
			return toStringList(qs), nil
		}
		if q, ok := v["question"].(string); ok {
			return []string{q}, nil
		}
		for _, value := range v {
			if list, ok := value.([]any); ok {
				return toStringList(list), nil
			}
		}
		return nil, fmt.Errorf("no 'questions' field found in JSON")
	case []any:
		return toStringList(v), nil
	default:
		return nil, fmt.Errorf("invalid JSON structure for questions file")
	}
}

func toStringList(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			out[i] = s
		} else {
			out[i] = fmt.Sprint(item)
		}
	}
	return out
}
