package tools

import "fmt"

// errResult wraps a tool failure message in the payload shape the chat loop
// feeds back to the model.
func errResult(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}

// stringParam extracts an optional string argument.
func stringParam(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", key)
	}
	return s, nil
}

// requiredStringParam extracts a mandatory non-empty string argument.
func requiredStringParam(params map[string]interface{}, key string) (string, error) {
	s, err := stringParam(params, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("parameter %q is required", key)
	}
	return s, nil
}

// stringSlice extracts an optional array-of-strings argument. JSON decoding
// hands arrays over as []interface{}.
func stringSlice(params map[string]interface{}, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %q must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}
