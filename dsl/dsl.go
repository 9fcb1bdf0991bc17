// Package dsl holds the identifier registries for the mapping expression
// language: the set of receiverless functions, the set of receiver methods,
// and the misspelling map shared by the lint engine and the auto-fixer.
//
// The registries are static data. "Silently fixed" and "merely suggested"
// corrections both resolve against these same tables, so the two engines
// cannot disagree about what the canonical identifier is.
package dsl

import (
	"sort"
	"strings"
)

// functions are receiverless calls: name(...).
var functions = map[string]struct{}{
	"content":             {},
	"json":                {},
	"meta":                {},
	"root":                {},
	"this":                {},
	"env":                 {},
	"hostname":            {},
	"now":                 {},
	"timestamp_unix":      {},
	"timestamp_unix_nano": {},
	"uuid_v4":             {},
	"nanoid":              {},
	"ksuid":               {},
	"random_int":          {},
	"range":               {},
	"deleted":             {},
	"throw":               {},
	"batch_size":          {},
	"count":               {},
	"error":               {},
	"errored":             {},
}

// methods are receiver calls: value.name(...).
var methods = map[string]struct{}{
	"parse_json":       {},
	"format_json":      {},
	"parse_yaml":       {},
	"parse_timestamp":  {},
	"format_timestamp": {},
	"string":           {},
	"number":           {},
	"bool":             {},
	"not_null":         {},
	"catch":            {},
	"or":               {},
	"from":             {},
	"exists":           {},
	"get":              {},
	"uppercase":        {},
	"lowercase":        {},
	"capitalize":       {},
	"trim":             {},
	"trim_prefix":      {},
	"trim_suffix":      {},
	"split":            {},
	"join":             {},
	"contains":         {},
	"has_prefix":       {},
	"has_suffix":       {},
	"replace_all":      {},
	"re_match":         {},
	"re_find_all":      {},
	"re_replace_all":   {},
	"length":           {},
	"index":            {},
	"slice":            {},
	"append":           {},
	"concat":           {},
	"merge":            {},
	"map_each":         {},
	"filter":           {},
	"sort":             {},
	"unique":           {},
	"flatten":          {},
	"keys":             {},
	"values":           {},
	"type":             {},
	"encode":           {},
	"decode":           {},
	"hash":             {},
	"abs":              {},
	"ceil":             {},
	"floor":            {},
	"round":            {},
	"sum":              {},
}

// IsFunction reports whether name is a recognised receiverless function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// IsMethod reports whether name is a recognised receiver method.
func IsMethod(name string) bool {
	_, ok := methods[name]
	return ok
}

// FunctionNames returns the sorted function registry.
func FunctionNames() []string { return sortedKeys(functions) }

// MethodNames returns the sorted method registry.
func MethodNames() []string { return sortedKeys(methods) }

func sortedKeys(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// callPrefixes are identifier prefixes that make an unrecognised name look
// like an intended call rather than incidental text before a parenthesis.
var callPrefixes = []string{"parse", "format", "to", "get", "is", "has"}

// HasCallPrefix reports whether name starts with a recognised call prefix.
func HasCallPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range callPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// IsMixedCase reports whether name mixes upper and lower case letters,
// the strongest signal of an identifier borrowed from another language.
func IsMixedCase(name string) bool {
	return name != strings.ToLower(name) && name != strings.ToUpper(name)
}

// SnakeCase converts a camelCase identifier to snake_case.
// Existing underscores and lower-case runs pass through unchanged.
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
