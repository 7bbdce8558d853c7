package helpers

import "strings"

// ExtractJSONObject returns the widest {...} span in s: from the first '{'
// to the last '}'. Generative models routinely wrap their JSON answer in
// commentary ("Sure! {...} Hope that helps!"), so the span is cut greedily
// and validated by the caller's decode, not here. The second return is false
// when s contains no such span.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}
