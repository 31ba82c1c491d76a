package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Lookup resolves a variable name
type Lookup func(key string) (string, bool)

// ExpandEnv replaces ${env.KEY} and ${env.KEY:-fallback} with process environment values
func ExpandEnv(value string) string {
	return Expand(value, os.LookupEnv)
}

// Expand replaces ${env.KEY} expressions using lookup; unset keys expand to the
// fallback after ":-" or to an empty string. Malformed expressions stay literal.
func Expand(value string, lookup Lookup) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for {
		idx := strings.Index(value, envPrefix)
		if idx < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:idx])
		rest := value[idx+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[idx:])
			return b.String()
		}
		key, fallback, hasFallback := strings.Cut(rest[:end], ":-")
		if !isKey(key) {
			// keep the prefix and rescan, nested expressions still expand
			b.WriteString(envPrefix)
			value = rest
			continue
		}
		if v, ok := lookup(key); ok && v != "" {
			b.WriteString(v)
		} else if hasFallback {
			b.WriteString(fallback)
		}
		value = rest[end+1:]
	}
}

func isKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
