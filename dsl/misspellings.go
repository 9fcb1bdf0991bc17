package dsl

// methodMisspellings maps wrong method spellings to the canonical method.
// Most entries are identifiers carried over from JavaScript or Python.
var methodMisspellings = map[string]string{
	"parseJson":       "parse_json",
	"parseJSON":       "parse_json",
	"jsonParse":       "parse_json",
	"json_parse":      "parse_json",
	"formatJson":      "format_json",
	"formatJSON":      "format_json",
	"stringify":       "format_json",
	"toJson":          "format_json",
	"to_json":         "format_json",
	"parseYaml":       "parse_yaml",
	"parseTimestamp":  "parse_timestamp",
	"formatTimestamp": "format_timestamp",
	"toUpperCase":     "uppercase",
	"toUpper":         "uppercase",
	"upperCase":       "uppercase",
	"to_upper":        "uppercase",
	"upper":           "uppercase",
	"toLowerCase":     "lowercase",
	"toLower":         "lowercase",
	"lowerCase":       "lowercase",
	"to_lower":        "lowercase",
	"lower":           "lowercase",
	"mapEach":         "map_each",
	"forEach":         "map_each",
	"for_each":        "map_each",
	"replaceAll":      "replace_all",
	"replace":         "replace_all",
	"includes":        "contains",
	"startsWith":      "has_prefix",
	"starts_with":     "has_prefix",
	"endsWith":        "has_suffix",
	"ends_with":       "has_suffix",
	"substring":       "slice",
	"substr":          "slice",
	"indexOf":         "index",
	"len":             "length",
	"size":            "length",
	"toString":        "string",
	"toNumber":        "number",
	"parseInt":        "number",
	"parseFloat":      "number",
	"notNull":         "not_null",
	"hasPrefix":       "has_prefix",
	"hasSuffix":       "has_suffix",
	"trimPrefix":      "trim_prefix",
	"trimSuffix":      "trim_suffix",
	"reMatch":         "re_match",
	"reReplaceAll":    "re_replace_all",
}

// functionMisspellings maps wrong function spellings to the canonical
// receiverless function.
var functionMisspellings = map[string]string{
	"uuid":       "uuid_v4",
	"uuidv4":     "uuid_v4",
	"uuid4":      "uuid_v4",
	"uuidV4":     "uuid_v4",
	"getEnv":     "env",
	"get_env":    "env",
	"getenv":     "env",
	"timestampUnix": "timestamp_unix",
	"unixTimestamp": "timestamp_unix",
	"randomInt":  "random_int",
	"batchSize":  "batch_size",
	"getHostname": "hostname",
	"drop":       "deleted",
}

// MethodMisspellings returns the method misspelling map (incorrect →
// canonical). The returned map is shared; callers must not mutate it.
func MethodMisspellings() map[string]string { return methodMisspellings }

// FunctionMisspellings returns the function misspelling map (incorrect →
// canonical). The returned map is shared; callers must not mutate it.
func FunctionMisspellings() map[string]string { return functionMisspellings }

// ResolveMethod maps a wrong method name to its canonical spelling via the
// misspelling map (case-sensitive, then case-insensitive), a camelCase to
// snake_case conversion, and finally a shared four-character prefix against
// the method registry. The second return is false when nothing resolves.
func ResolveMethod(name string) (string, bool) {
	return resolve(name, methodMisspellings, methods)
}

// ResolveFunction is ResolveMethod for receiverless functions.
func ResolveFunction(name string) (string, bool) {
	return resolve(name, functionMisspellings, functions)
}

// resolvePrefixLen is the shared-prefix length for the weakest resolution
// step. Four characters keeps short unrelated identifiers from matching.
const resolvePrefixLen = 4

func resolve(name string, misspellings map[string]string, registry map[string]struct{}) (string, bool) {
	if canonical, ok := misspellings[name]; ok {
		return canonical, true
	}

	lower := lowercase(name)
	for wrong, canonical := range misspellings {
		if lowercase(wrong) == lower {
			return canonical, true
		}
	}

	if snake := SnakeCase(name); snake != name {
		if _, ok := registry[snake]; ok {
			return snake, true
		}
	}

	if len(lower) >= resolvePrefixLen {
		prefix := lower[:resolvePrefixLen]
		// Sorted scan keeps resolution deterministic when several canonical
		// names share the prefix.
		for _, canonical := range sortedKeys(registry) {
			if len(canonical) >= resolvePrefixLen && canonical[:resolvePrefixLen] == prefix {
				return canonical, true
			}
		}
	}

	return "", false
}

func lowercase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
