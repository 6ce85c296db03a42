package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON object from a raw model reply that may be
// wrapped in markdown code fences, surrounded by prose, or truncated.
// It never fails: when no recoverable structure is found the trimmed
// input is returned unchanged and the caller's JSON parse decides.
func ExtractJSON(raw string) string {
	text := strings.ReplaceAll(raw, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	// Complete object: { ... }
	if start != -1 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if repaired, ok := RepairJSON(candidate); ok {
			return repaired
		}
	}

	// Truncated reply: opening { with no usable closing brace
	if start != -1 {
		if repaired, ok := RepairJSON(text[start:]); ok {
			return repaired
		}
	}

	return text
}

// RepairJSON attempts a lenient reconstruction of malformed JSON text:
// unescaped inner quotes, unbalanced brackets, dangling keys and
// trailing commas. It reports whether the result parses; the input is
// not returned on failure. The repair is heuristic with no guarantee
// beyond syntactic validity.
func RepairJSON(text string) (string, bool) {
	runes := []rune(strings.TrimSpace(text))

	var b strings.Builder
	var stack []rune
	inString := false
	escaped := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inString {
			switch {
			case escaped:
				b.WriteRune(r)
				escaped = false
			case r == '\\':
				b.WriteRune(r)
				escaped = true
			case r == '"':
				if closesString(runes[i+1:]) {
					inString = false
					b.WriteRune(r)
				} else {
					// Unescaped quote inside a string value
					b.WriteString(`\"`)
				}
			case r == '\n':
				b.WriteString(`\n`)
			case r == '\t':
				b.WriteString(`\t`)
			default:
				b.WriteRune(r)
			}
			continue
		}

		switch r {
		case '{':
			stack = append(stack, '}')
			b.WriteRune(r)
		case '[':
			stack = append(stack, ']')
			b.WriteRune(r)
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == r {
				stack = stack[:len(stack)-1]
				b.WriteRune(r)
			}
			// Mismatched closer: drop it
		case '"':
			inString = true
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if escaped {
		out = strings.TrimSuffix(out, `\`)
	}
	if inString {
		out += `"`
	}

	// Truncation can leave a dangling separator or key
	out = strings.TrimRight(out, " \t\n\r,")
	if strings.HasSuffix(out, ":") {
		out += " null"
	}

	// Close whatever is still open, innermost first
	for i := len(stack) - 1; i >= 0; i-- {
		out = strings.TrimRight(out, " \t\n\r,")
		if strings.HasSuffix(out, ":") {
			out += " null"
		}
		if stack[i] == '}' && endsWithDanglingKey(out) {
			out += ": null"
		}
		out += string(stack[i])
	}

	out = stripTrailingCommas(out)

	if !json.Valid([]byte(out)) {
		return "", false
	}
	return out, true
}

// closesString reports whether a quote at this position can legally end
// a JSON string: the next meaningful rune must be a separator, a closer
// or the end of input.
func closesString(rest []rune) bool {
	for _, r := range rest {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	return true
}

// endsWithDanglingKey reports whether the text ends with an object key
// that never received its value, as happens when a reply is cut off
// right after a key. The rune before the key's opening quote tells keys
// ('{' or ',') apart from value strings (':').
func endsWithDanglingKey(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || runes[len(runes)-1] != '"' {
		return false
	}
	// Find the unescaped opening quote
	i := len(runes) - 2
	for i >= 0 {
		if runes[i] == '"' && (i == 0 || runes[i-1] != '\\') {
			break
		}
		i--
	}
	if i <= 0 {
		return false
	}
	// Skip whitespace before the opening quote
	j := i - 1
	for j >= 0 && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r') {
		j--
	}
	return j >= 0 && (runes[j] == '{' || runes[j] == ',')
}

// stripTrailingCommas removes commas that directly precede a closing
// bracket, which the lenient pass above can leave behind.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	runes := []rune(s)
	inString := false
	escaped := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inString {
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		if r == '"' {
			inString = true
			b.WriteRune(r)
			continue
		}
		if r == ',' {
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
