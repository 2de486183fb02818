package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoJSON is returned when a reply holds no JSON object at all.
var ErrNoJSON = errors.New("no json object in llm output")

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\n(.*?)```")

// CurateJSON extracts the JSON object from an LLM reply. It unwraps a Markdown code fence, skips
// prose around the object (braces in that prose included) and drops trailing commas. When no
// candidate decodes, the outermost braces are returned as a best effort.
func CurateJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if json.Valid([]byte(text)) {
		return text, nil
	}

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if obj, ok := decodeObject(text[i:]); ok {
			return obj, nil
		}
		if obj, ok := decodeObject(stripTrailingCommas(text[i:])); ok {
			return obj, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return stripTrailingCommas(text[start : end+1]), nil
}

// decodeObject returns the leading JSON value of text, which starts with '{'.
func decodeObject(text string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	return text[:dec.InputOffset()], true
}

// stripTrailingCommas removes commas that directly precede a closing brace or bracket,
// leaving string contents untouched.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
		}
		if ch == ',' && closesNext(s[i+1:]) {
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func closesNext(rest string) bool {
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	return strings.HasPrefix(trimmed, "}") || strings.HasPrefix(trimmed, "]")
}
