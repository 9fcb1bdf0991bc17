package schema

// cacheComponents returns the cache resource catalog.
func cacheComponents() []ComponentSchema {
	return []ComponentSchema{
		{
			Name:     "memory",
			Category: CategoryCache,
			Summary:  "In-process cache with optional TTL compaction.",
			Fields: map[string]FieldSchema{
				"default_ttl":        {Type: TypeDuration, Default: "5m"},
				"compaction_interval": {Type: TypeDuration, Default: "60s"},
				"init_values":        {Type: TypeObject},
			},
		},
		{
			Name:     "file",
			Category: CategoryCache,
			Summary:  "Cache backed by files in a directory.",
			Fields: map[string]FieldSchema{
				"directory": {Type: TypeString, Required: true, Examples: []string{`"/tmp/streamdoc_cache"`}},
			},
		},
		{
			Name:     "redis",
			Category: CategoryCache,
			Summary:  "Cache backed by a Redis instance.",
			Fields: map[string]FieldSchema{
				"url": {
					Type:     TypeString,
					Required: true,
					Examples: []string{`"redis://localhost:6379"`},
				},
				"prefix":      {Type: TypeString},
				"default_ttl": {Type: TypeDuration},
			},
		},
		{
			Name:     "memcached",
			Category: CategoryCache,
			Summary:  "Cache backed by a Memcached cluster.",
			Fields: map[string]FieldSchema{
				"addresses": {
					Type:     TypeArray,
					Required: true,
					Items:    &FieldSchema{Type: TypeString},
					Examples: []string{`["localhost:11211"]`},
				},
				"prefix":      {Type: TypeString},
				"default_ttl": {Type: TypeDuration, Default: "300s"},
			},
		},
	}
}

// bufferComponents returns the buffer catalog.
func bufferComponents() []ComponentSchema {
	return []ComponentSchema{
		{
			Name:     "memory",
			Category: CategoryBuffer,
			Summary:  "Buffers messages in memory up to a byte limit.",
			Fields: map[string]FieldSchema{
				"limit": {Type: TypeNumber, Default: 524288000},
			},
		},
		{
			Name:     "none",
			Category: CategoryBuffer,
			Summary:  "No buffering; messages flow directly through the pipeline.",
			Fields:   map[string]FieldSchema{},
		},
	}
}
