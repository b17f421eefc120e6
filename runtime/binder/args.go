package binder

import "time"

// Args holds bound named arguments in their native Go form
type Args map[string]any

// Has reports whether key is bound, even to null.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// GetString returns a string argument with fallback
func (a Args) GetString(key, fallback string) string {
	if val, exists := a[key]; exists {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return fallback
}

// GetBool returns a bool argument with fallback
func (a Args) GetBool(key string, fallback bool) bool {
	if val, exists := a[key]; exists {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return fallback
}

// GetInt returns an int argument with fallback
func (a Args) GetInt(key string, fallback int64) int64 {
	if val, exists := a[key]; exists {
		if n, ok := val.(int64); ok {
			return n
		}
	}
	return fallback
}

// GetFloat returns a float argument with fallback. Integers are widened.
func (a Args) GetFloat(key string, fallback float64) float64 {
	if val, exists := a[key]; exists {
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
	}
	return fallback
}

// GetDuration parses a duration argument with fallback. Integers are read
// as seconds.
func (a Args) GetDuration(key string, fallback time.Duration) time.Duration {
	if val, exists := a[key]; exists {
		switch v := val.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		case int64:
			return time.Duration(v) * time.Second
		}
	}
	return fallback
}

// GetList returns a list argument with fallback. A bound scalar is returned
// as a one-element list.
func (a Args) GetList(key string, fallback []any) []any {
	if val, exists := a[key]; exists && val != nil {
		if list, ok := val.([]any); ok {
			return list
		}
		return []any{val}
	}
	return fallback
}

// GetStrings returns a list of strings with fallback. Non-string elements
// make the whole lookup fall back.
func (a Args) GetStrings(key string, fallback []string) []string {
	list := a.GetList(key, nil)
	if list == nil {
		return fallback
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return fallback
		}
		out = append(out, s)
	}
	return out
}
