package lint

import "regexp"

// patternRule is one entry of the anti-pattern table: a recognisable piece
// of foreign-language syntax with the diagnostic it produces.
type patternRule struct {
	name       string
	re         *regexp.Regexp
	message    string
	suggestion string
}

// antiPatterns is scanned in order. Each rule reports at most once per
// field, not once per occurrence.
var antiPatterns = []patternRule{
	{
		name:       "json-function-parse",
		re:         regexp.MustCompile(`\bJSON\.parse\s*\(|\bjson\.loads\s*\(`),
		message:    "function-style JSON parsing is not part of the mapping language",
		suggestion: `use the parse_json method: this.field.parse_json()`,
	},
	{
		name:       "json-function-serialize",
		re:         regexp.MustCompile(`\bJSON\.stringify\s*\(|\bjson\.dumps\s*\(`),
		message:    "function-style JSON serialisation is not part of the mapping language",
		suggestion: `use the format_json method: this.field.format_json()`,
	},
	{
		name:       "then-conditional",
		re:         regexp.MustCompile(`\bif\b[^\n{]*\bthen\b`),
		message:    "conditionals use braces, not then",
		suggestion: `write if condition { value } else { other }`,
	},
	{
		name:       "return-statement",
		re:         regexp.MustCompile(`(^|\n)\s*return\b`),
		message:    "mapping expressions have no return statement",
		suggestion: `assign the result: root = <expression>`,
	},
	{
		name:       "var-declaration",
		re:         regexp.MustCompile(`\b(var|const)\s+[A-Za-z_]\w*\s*=`),
		message:    "variable declarations use let, not var or const",
		suggestion: `write let name = <expression>`,
	},
	{
		name:       "arrow-function",
		re:         regexp.MustCompile(`=>`),
		message:    "arrow functions are not part of the mapping language",
		suggestion: `lambda arguments use a single arrow: this.items.map_each(item -> item.id)`,
	},
	{
		name:       "template-literal",
		re:         regexp.MustCompile("`[^`]*\\$\\{[^}]*\\}[^`]*`"),
		message:    "template literals are not part of the mapping language",
		suggestion: `build strings with interpolation: "${! json("id") }" or string concatenation`,
	},
	{
		name:       "async-await",
		re:         regexp.MustCompile(`\b(async|await)\b`),
		message:    "mapping expressions are synchronous; async and await have no meaning",
		suggestion: "remove the async/await keywords",
	},
	{
		name:       "loop-statement",
		re:         regexp.MustCompile(`\bfor\s*\(|\bfor\s+\w+\s+in\b|\bwhile\s*\(`),
		message:    "loops are not part of the mapping language",
		suggestion: `iterate with map_each or filter: this.items.map_each(item -> item.id)`,
	},
	{
		name:       "definition-statement",
		re:         regexp.MustCompile(`\b(class|def|lambda|function)\s+[A-Za-z_]`),
		message:    "type and function definitions are not part of the mapping language",
		suggestion: "use map declarations or inline expressions instead",
	},
	{
		name:       "null-delete-sentinel",
		re:         regexp.MustCompile(`\broot\s*=\s*(null|nil|None)\b`),
		message:    "assigning null does not drop the message; it produces a null payload",
		suggestion: `drop messages with root = deleted()`,
	},
}

// antiPatternLayer applies the ordered rule table, reporting each rule at
// most once.
func antiPatternLayer(path, expr string) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range antiPatterns {
		if rule.re.MatchString(expr) {
			diags = append(diags, Diagnostic{
				Path:       path,
				Message:    rule.message,
				Suggestion: rule.suggestion,
			})
		}
	}
	return diags
}
