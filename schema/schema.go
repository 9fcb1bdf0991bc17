// Package schema provides the immutable component and field schema catalog
// for streaming pipeline configurations.
//
// The catalog is keyed by (category, name). Input, processor and output
// categories are distinct because the same bare name (e.g. "kafka") declares
// different field sets depending on which side of the pipeline it sits on.
//
// All tables in this package are built once at first use and never mutated,
// so they are safe for unlimited concurrent reads.
package schema

// Category identifies which part of a pipeline a component belongs to.
type Category string

const (
	CategoryInput     Category = "input"
	CategoryProcessor Category = "processor"
	CategoryOutput    Category = "output"
	CategoryCache     Category = "cache"
	CategoryBuffer    Category = "buffer"
)

// categoryPrecedence is the lookup order when no category is given.
// It follows the document order of a pipeline file.
var categoryPrecedence = []Category{
	CategoryInput,
	CategoryProcessor,
	CategoryOutput,
	CategoryCache,
	CategoryBuffer,
}

// FieldType is the declared type of a component field.
type FieldType string

const (
	TypeString       FieldType = "string"
	TypeNumber       FieldType = "number"
	TypeBool         FieldType = "boolean"
	TypeArray        FieldType = "array"
	TypeObject       FieldType = "object"
	TypeDuration     FieldType = "duration"
	TypeExpression   FieldType = "expression"
	TypeInterpolated FieldType = "interpolated-string"
)

// FieldSchema describes a single configuration field.
type FieldSchema struct {
	// Type is the declared field type.
	Type FieldType

	// Required marks fields that must be present.
	Required bool

	// Default is the value assumed when the field is absent.
	Default any

	// Enum restricts string fields to a fixed value set when non-empty.
	Enum []string

	// Properties describes nested fields for object-typed fields.
	Properties map[string]FieldSchema

	// Items describes the element schema for array-typed fields.
	Items *FieldSchema

	// Examples holds literal example values. The first example is used
	// when suggesting a value for a missing required field.
	Examples []string
}

// ComponentSchema describes a named pipeline component.
type ComponentSchema struct {
	// Name is the canonical component name.
	Name string

	// Category is the catalog this component belongs to.
	Category Category

	// Summary is a one-line description used in documentation answers.
	Summary string

	// Fields maps field name to its schema.
	Fields map[string]FieldSchema

	// ValueIsExpression marks components whose config value is a bare
	// mapping expression rather than a field map (e.g. the mapping
	// processor). Such components get expression linting instead of
	// field validation.
	ValueIsExpression bool

	// Examples holds complete usage examples in config syntax.
	Examples []string
}

// Confidence classifies how certain an automatic correction is.
// Only ConfidenceHigh corrections are ever applied silently; the rest are
// surfaced as suggestions and left untouched.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
