package youtube

import "strings"

// dig walks a decoded JSON tree. String steps index objects, int steps index arrays.
// Any type mismatch or missing step reports false instead of panicking.
func dig(v any, path ...any) (any, bool) {
	for _, step := range path {
		switch k := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil, false
			}
			if v, ok = m[k]; !ok {
				return nil, false
			}
		case int:
			s, ok := v.([]any)
			if !ok || k < 0 || k >= len(s) {
				return nil, false
			}
			v = s[k]
		default:
			return nil, false
		}
	}
	return v, true
}

func digMap(v any, path ...any) (map[string]any, bool) {
	got, ok := dig(v, path...)
	if !ok {
		return nil, false
	}
	m, ok := got.(map[string]any)
	return m, ok
}

func digSlice(v any, path ...any) ([]any, bool) {
	got, ok := dig(v, path...)
	if !ok {
		return nil, false
	}
	s, ok := got.([]any)
	return s, ok
}

func digString(v any, path ...any) (string, bool) {
	got, ok := dig(v, path...)
	if !ok {
		return "", false
	}
	s, ok := got.(string)
	return s, ok
}

// textField returns the trimmed string at path, or NotAvailable when it is
// missing, not a string, or blank.
func textField(v any, path ...any) string {
	s, ok := digString(v, path...)
	if !ok {
		return NotAvailable
	}
	if s = strings.TrimSpace(s); s == "" {
		return NotAvailable
	}
	return s
}

// runsOrSimpleText resolves a YouTube text object: the first run's text when a
// run list is present, otherwise simpleText. ok is false when neither shape exists.
func runsOrSimpleText(v any) (string, bool) {
	if runs, ok := digSlice(v, "runs"); ok && len(runs) > 0 {
		return textField(runs, 0, "text"), true
	}
	if _, ok := dig(v, "simpleText"); ok {
		return textField(v, "simpleText"), true
	}
	return "", false
}

// joinedText concatenates every run (or returns simpleText). Used for log output only.
func joinedText(v any) string {
	if runs, ok := digSlice(v, "runs"); ok {
		parts := make([]string, 0, len(runs))
		for _, r := range runs {
			if s, ok := digString(r, "text"); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	s, _ := digString(v, "simpleText")
	return s
}
