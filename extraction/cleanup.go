package extraction

import (
	"regexp"
	"strings"
)

var (
	fencePattern         = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*(?:```|$)")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// cleanJSON applies every repair in order: fence stripping, trimming to the
// outermost object, bare-key quoting, trailing-comma removal and closing of
// unbalanced brackets.
func cleanJSON(raw string) string {
	s := stripFences(raw)
	s = trimToObject(s)
	s = quoteBareKeys(s)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return balanceBrackets(s)
}

// stripFences removes triple-backtick fences with an optional language tag.
// An unterminated fence is stripped too.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// trimToObject drops chatter before the first '{' and after the last '}'.
// Text without any '{' is returned unchanged.
func trimToObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	s = s[start:]
	if end := strings.LastIndexByte(s, '}'); end >= 0 && closesAt(s, end) {
		s = s[:end+1]
	}
	return s
}

// closesAt reports whether the '}' at end brings the nesting depth back to
// zero, i.e. whether cutting there keeps a complete object.
func closesAt(s string, end int) bool {
	depth := 0
	inString, escaped := false, false
	for i := 0; i <= end; i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		}
	}
	return depth == 0
}

// balanceBrackets closes any string, array or object left open by a
// truncated response.
func balanceBrackets(s string) string {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case c == '}' || c == ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 && !inString {
		return s
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(s, " \t\r\n,"))
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// quoteBareKeys fixes keys that lost their opening quote, a common small-model
// glitch: `{ rooms": [...]` becomes `{ "rooms": [...]`. Only a run of key
// characters directly followed by `":` after '{' or ',' is touched.
func quoteBareKeys(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && isSpace(in[i]) {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !isKeyStart(in[i]) {
			continue
		}

		j := i
		for j < len(in) && isKeyRune(in[j]) {
			j++
		}
		if j+1 < len(in) && in[j] == '"' && in[j+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, in[i:j]...)
		i = j
	}
	return string(out)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

func isKeyStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isKeyRune(r rune) bool {
	return isKeyStart(r) || (r >= '0' && r <= '9') || r == '_' || r == ' ' || r == '-'
}
