package credential

import (
	"encoding/json"
	"fmt"
)

func asString(value interface{}, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", field, value)
	}
	return s, nil
}

func asStringSlice(value interface{}, field string) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", field, entry)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported %s field: %T", field, value)
	}
}

// asObjectSlice accepts the single-object and object-array forms JSON-LD
// properties commonly take.
func asObjectSlice(value interface{}, field string) ([]map[string]interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, entry := range v {
			obj, ok := entry.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s entries must be objects, got %T", field, entry)
			}
			out = append(out, obj)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported %s field: %T", field, value)
	}
}

// singleOrSlice collapses a one-element slice to its element, matching the
// customary JSON-LD shape.
func singleOrSlice(entries []interface{}) interface{} {
	if len(entries) == 1 {
		return entries[0]
	}
	return entries
}

func toInterfaceSlice(entries []string) []interface{} {
	out := make([]interface{}, len(entries))
	for i, entry := range entries {
		out[i] = entry
	}
	return out
}

// remarshal converts between JSON-compatible representations through one
// marshal/unmarshal round trip.
func remarshal(src, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
