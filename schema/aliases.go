package schema

// componentMisspellings maps frequently seen wrong component names to their
// single canonical target. Entries here are rewritten silently by the
// auto-fixer; names with more than one plausible target belong in
// ambiguousAliases instead.
var componentMisspellings = map[string]string{
	// typos
	"kafaka":        "kafka",
	"kakfa":         "kafka",
	"kafkaa":        "kafka",
	"elastisearch":  "elasticsearch",
	"elasticserch":  "elasticsearch",
	"elastic_search": "elasticsearch",
	"websockets":    "websocket",
	"memcache":      "memcached",

	// legacy and shorthand names with exactly one current target
	"elastic":   "elasticsearch",
	"s3":        "aws_s3",
	"sqs":       "aws_sqs",
	"rabbitmq":  "amqp_0_9",
	"rabbit_mq": "amqp_0_9",
	"amqp":      "amqp_0_9",
	"jetstream": "nats_jetstream",
	"bloblang":  "mapping",
}

// AmbiguousAlias is a bare name that legitimately maps to more than one
// canonical component depending on context. These are never rewritten
// automatically; the tier records how confidently a correction could be
// suggested. The tier assignments are curated policy, validated by tests;
// new ambiguous aliases get a reviewed table entry, not a guessed tier.
type AmbiguousAlias struct {
	// Targets are the canonical names the alias may mean.
	Targets []string

	// Tier is the suggestion confidence (never ConfidenceHigh).
	Tier Confidence
}

// ambiguousAliases maps direction- or domain-ambiguous bare names.
var ambiguousAliases = map[string]AmbiguousAlias{
	// direction-ambiguous: the intended component depends on whether the
	// name appears under input or output
	"http": {
		Targets: []string{"http_server", "http_client"},
		Tier:    ConfidenceMedium,
	},
	"console": {
		Targets: []string{"stdin", "stdout"},
		Tier:    ConfidenceMedium,
	},

	// domain-ambiguous: several component families share the name
	"redis": {
		Targets: []string{"redis_streams", "redis_list", "redis"},
		Tier:    ConfidenceLow,
	},
	"aws": {
		Targets: []string{"aws_s3", "aws_sqs"},
		Tier:    ConfidenceLow,
	},
}

// keySynonyms maps structural keys that introduce the processors list (or
// other recognised sections) under a wrong name to the canonical key.
// Only unambiguous synonyms appear here; they are applied silently.
var keySynonyms = map[string]string{
	"transforms": "processors",
	"procesors":  "processors",
	"processers": "processors",
	"pipelines":  "pipeline",
	"inputs":     "input",
	"outputs":    "output",
	"buffers":    "buffer",
}

// ComponentMisspellings returns the misspelling map (incorrect → canonical).
// The returned map is shared; callers must not mutate it.
func ComponentMisspellings() map[string]string { return componentMisspellings }

// AmbiguousAliases returns the curated ambiguous alias table.
// The returned map is shared; callers must not mutate it.
func AmbiguousAliases() map[string]AmbiguousAlias { return ambiguousAliases }

// KeySynonyms returns the structural key synonym map.
// The returned map is shared; callers must not mutate it.
func KeySynonyms() map[string]string { return keySynonyms }
