package schema

// processorComponents returns the processor catalog.
func processorComponents() []ComponentSchema {
	return []ComponentSchema{
		{
			Name:              "mapping",
			Category:          CategoryProcessor,
			Summary:           "Executes a mapping expression against each message.",
			ValueIsExpression: true,
			Examples: []string{
				"pipeline:\n  processors:\n    - mapping: |\n        root = this\n        root.id = uuid_v4()",
			},
		},
		{
			Name:              "jq",
			Category:          CategoryProcessor,
			Summary:           "Transforms JSON messages with a jq query.",
			ValueIsExpression: true,
		},
		{
			Name:     "http",
			Category: CategoryProcessor,
			Summary:  "Performs an HTTP request per message and replaces the payload with the response.",
			Fields: map[string]FieldSchema{
				"url": {
					Type:     TypeInterpolated,
					Required: true,
					Examples: []string{`"https://example.com/enrich"`},
				},
				"verb":    {Type: TypeString, Default: "POST", Enum: []string{"GET", "POST", "PUT", "PATCH", "DELETE"}},
				"headers": {Type: TypeObject},
				"timeout": {Type: TypeDuration, Default: "5s"},
				"retries": {Type: TypeNumber, Default: 3},
				"parallel": {Type: TypeBool, Default: false},
			},
		},
		{
			Name:     "cache",
			Category: CategoryProcessor,
			Summary:  "Performs operations against a cache resource for each message.",
			Fields: map[string]FieldSchema{
				"resource": {Type: TypeString, Required: true, Examples: []string{`"memcache"`}},
				"operator": {
					Type:     TypeString,
					Required: true,
					Enum:     []string{"set", "add", "get", "delete"},
					Examples: []string{`"get"`},
				},
				"key":   {Type: TypeInterpolated, Required: true, Examples: []string{`"${! json(\"id\") }"`}},
				"value": {Type: TypeInterpolated},
				"ttl":   {Type: TypeDuration},
			},
		},
		{
			Name:     "dedupe",
			Category: CategoryProcessor,
			Summary:  "Drops messages whose key has been seen within the cache window.",
			Fields: map[string]FieldSchema{
				"cache":         {Type: TypeString, Required: true, Examples: []string{`"dedupe_cache"`}},
				"key":           {Type: TypeInterpolated, Required: true, Examples: []string{`"${! json(\"id\") }"`}},
				"drop_on_error": {Type: TypeBool, Default: false},
			},
		},
		{
			Name:     "compress",
			Category: CategoryProcessor,
			Summary:  "Compresses message payloads.",
			Fields: map[string]FieldSchema{
				"algorithm": {
					Type:     TypeString,
					Required: true,
					Enum:     []string{"gzip", "zstd", "snappy", "lz4", "flate"},
					Examples: []string{`"gzip"`},
				},
				"level": {Type: TypeNumber, Default: -1},
			},
		},
		{
			Name:     "decompress",
			Category: CategoryProcessor,
			Summary:  "Decompresses message payloads.",
			Fields: map[string]FieldSchema{
				"algorithm": {
					Type:     TypeString,
					Required: true,
					Enum:     []string{"gzip", "zstd", "snappy", "lz4", "flate"},
					Examples: []string{`"gzip"`},
				},
			},
		},
		{
			Name:     "grok",
			Category: CategoryProcessor,
			Summary:  "Parses unstructured text into structured fields using grok expressions.",
			Fields: map[string]FieldSchema{
				"expressions": {
					Type:     TypeArray,
					Required: true,
					Items:    &FieldSchema{Type: TypeString},
					Examples: []string{`["%{COMMONAPACHELOG}"]`},
				},
				"pattern_definitions": {Type: TypeObject},
				"named_captures_only": {Type: TypeBool, Default: true},
			},
		},
		{
			Name:     "split",
			Category: CategoryProcessor,
			Summary:  "Splits message batches into smaller batches.",
			Fields: map[string]FieldSchema{
				"size":     {Type: TypeNumber, Default: 1},
				"byte_size": {Type: TypeNumber, Default: 0},
			},
		},
		{
			Name:     "archive",
			Category: CategoryProcessor,
			Summary:  "Archives message batches into a single document.",
			Fields: map[string]FieldSchema{
				"format": {
					Type:     TypeString,
					Required: true,
					Enum:     []string{"tar", "zip", "lines", "json_array", "concatenate"},
					Examples: []string{`"json_array"`},
				},
				"path": {Type: TypeInterpolated},
			},
		},
		{
			Name:     "unarchive",
			Category: CategoryProcessor,
			Summary:  "Expands archived documents back into message batches.",
			Fields: map[string]FieldSchema{
				"format": {
					Type:     TypeString,
					Required: true,
					Enum:     []string{"tar", "zip", "lines", "json_array", "json_map", "csv"},
					Examples: []string{`"json_array"`},
				},
			},
		},
		{
			Name:     "log",
			Category: CategoryProcessor,
			Summary:  "Writes a log line per message without modifying it.",
			Fields: map[string]FieldSchema{
				"level":   {Type: TypeString, Default: "INFO", Enum: []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
				"message": {Type: TypeInterpolated, Required: true, Examples: []string{`"processing ${! json(\"id\") }"`}},
				"fields_mapping": {Type: TypeExpression},
			},
		},
		{
			Name:     "sleep",
			Category: CategoryProcessor,
			Summary:  "Pauses the pipeline for a duration per message batch.",
			Fields: map[string]FieldSchema{
				"duration": {Type: TypeDuration, Required: true, Examples: []string{`"100ms"`}},
			},
		},
		{
			Name:     "insert_part",
			Category: CategoryProcessor,
			Summary:  "Inserts a new message part at an index within each batch.",
			Fields: map[string]FieldSchema{
				"index":   {Type: TypeNumber, Default: -1},
				"content": {Type: TypeInterpolated, Required: true, Examples: []string{`"{}"`}},
			},
		},
		{
			Name:     "select_parts",
			Category: CategoryProcessor,
			Summary:  "Keeps only the message parts at the given batch indexes.",
			Fields: map[string]FieldSchema{
				"parts": {
					Type:     TypeArray,
					Required: true,
					Items:    &FieldSchema{Type: TypeNumber},
					Examples: []string{`[0]`},
				},
			},
		},
		{
			Name:     "rate_limit",
			Category: CategoryProcessor,
			Summary:  "Throttles the pipeline against a shared rate limit resource.",
			Fields: map[string]FieldSchema{
				"resource": {Type: TypeString, Required: true, Examples: []string{`"ingest_limit"`}},
			},
		},
	}
}
