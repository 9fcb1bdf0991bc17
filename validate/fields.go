package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/streamdoc/fuzzy"
	"github.com/c360studio/streamdoc/lint"
	"github.com/c360studio/streamdoc/pipeline"
	"github.com/c360studio/streamdoc/schema"
)

// durationPattern is the accepted duration grammar: magnitude plus unit.
var durationPattern = regexp.MustCompile(`^\d+(\.\d+)?(ns|us|µs|ms|s|m|h)$`)

// validateFields checks a component's field map against its schema:
// missing required fields, unknown fields with nearest-name suggestions,
// and type checks with leniency for string-encoded booleans and numbers.
func validateFields(res *Result, path string, cs schema.ComponentSchema, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}

	names := make([]string, 0, len(cs.Fields))
	for name := range cs.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fs := cs.Fields[name]
		if _, present := fields[name]; !present && fs.Required {
			res.addError(path+"."+name,
				fmt.Sprintf("missing required field %q", name),
				fmt.Sprintf("add %s: %s", name, exampleFor(fs)))
		}
	}

	for _, name := range sortedKeys(fields) {
		fs, known := cs.Fields[name]
		if !known {
			issue := Issue{
				Path:    path + "." + name,
				Message: fmt.Sprintf("field %q is not recognised by %s", name, cs.Name),
			}
			if nearest, ok := fuzzy.NearestField(name, names); ok {
				issue.Suggestion = fmt.Sprintf("did you mean %q?", nearest)
			}
			res.Errors = append(res.Errors, issue)
			continue
		}
		checkFieldType(res, path+"."+name, fs, fields[name])
	}
}

// checkFieldType validates one present field value against its declared
// type.
func checkFieldType(res *Result, path string, fs schema.FieldSchema, value any) {
	switch fs.Type {
	case schema.TypeString, schema.TypeInterpolated:
		switch value.(type) {
		case string, bool, int, int64, float64:
			// Scalars are accepted; config authors often leave strings
			// unquoted and YAML coerces them.
		default:
			res.addError(path, fmt.Sprintf("expected a string, got %s", pipeline.Describe(value)), "")
			return
		}
		checkEnum(res, path, fs, value)
		if fs.Type == schema.TypeInterpolated {
			checkInterpolation(res, path, value)
		}

	case schema.TypeNumber:
		switch v := value.(type) {
		case int, int64, float64:
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				res.addError(path, fmt.Sprintf("expected a number, got %q", v), "")
				return
			}
		default:
			res.addError(path, fmt.Sprintf("expected a number, got %s", pipeline.Describe(value)), "")
			return
		}
		checkEnum(res, path, fs, value)

	case schema.TypeBool:
		switch v := value.(type) {
		case bool:
		case string:
			switch strings.ToLower(v) {
			case "true", "false", "yes", "no", "on", "off":
			default:
				res.addError(path, fmt.Sprintf("expected a boolean, got %q", v), "")
			}
		default:
			res.addError(path, fmt.Sprintf("expected a boolean, got %s", pipeline.Describe(value)), "")
		}

	case schema.TypeArray:
		items, ok := value.([]any)
		if !ok {
			res.addError(path, fmt.Sprintf("expected an array, got %s", pipeline.Describe(value)), "wrap the value in [ ] or use - list entries")
			return
		}
		if fs.Items != nil {
			for i, item := range items {
				checkFieldType(res, fmt.Sprintf("%s.%d", path, i), *fs.Items, item)
			}
		}

	case schema.TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			res.addError(path, fmt.Sprintf("expected an object, got %s", pipeline.Describe(value)), "")
			return
		}
		for _, name := range sortedKeys(obj) {
			if ps, known := fs.Properties[name]; known {
				checkFieldType(res, path+"."+name, ps, obj[name])
			}
		}

	case schema.TypeDuration:
		s, ok := value.(string)
		if !ok {
			res.addError(path, fmt.Sprintf("expected a duration string, got %s", pipeline.Describe(value)), `durations are written as magnitude+unit, e.g. "1s" or "500ms"`)
			return
		}
		if !durationPattern.MatchString(s) {
			res.addError(path, fmt.Sprintf("%q is not a valid duration", s), `durations are written as magnitude+unit, e.g. "1s" or "500ms"`)
		}

	case schema.TypeExpression:
		expr, ok := value.(string)
		if !ok {
			res.addError(path, fmt.Sprintf("expected a mapping expression, got %s", pipeline.Describe(value)), "")
			return
		}
		mergeLint(res, lint.Expression(path, expr))
	}
}

// checkEnum verifies enum-constrained values, comparing numbers by their
// decimal form.
func checkEnum(res *Result, path string, fs schema.FieldSchema, value any) {
	if len(fs.Enum) == 0 {
		return
	}
	repr := fmt.Sprintf("%v", value)
	for _, allowed := range fs.Enum {
		if repr == allowed {
			return
		}
	}
	res.addError(path,
		fmt.Sprintf("%q is not an allowed value", repr),
		fmt.Sprintf("allowed values: %s", strings.Join(fs.Enum, ", ")))
}

// checkInterpolation flags ${...} placeholders missing the function marker.
func checkInterpolation(res *Result, path string, value any) {
	s, ok := value.(string)
	if !ok {
		return
	}
	if strings.Contains(s, "${") && !strings.Contains(s, "${!") {
		res.addError(path,
			"interpolation placeholders use the function form",
			`write ${! expression }, e.g. "${! json(\"id\") }"`)
	}
}

// exampleFor suggests a literal for a missing required field, preferring
// the schema's first example.
func exampleFor(fs schema.FieldSchema) string {
	if len(fs.Examples) > 0 {
		return fs.Examples[0]
	}
	switch fs.Type {
	case schema.TypeNumber:
		return "0"
	case schema.TypeBool:
		return "false"
	case schema.TypeArray:
		return "[]"
	case schema.TypeObject:
		return "{}"
	case schema.TypeDuration:
		return `"1s"`
	default:
		return `""`
	}
}
